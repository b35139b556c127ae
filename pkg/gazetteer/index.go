// Package gazetteer implements a thread-safe R-Tree of reference places used
// to name the surroundings of a solved location.
package gazetteer

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/dhconnelly/rtreego"
)

const (
	tolerance   = 0.01
	minChildren = 25
	maxChildren = 50
	dimensions  = 2
	earthRadius = 6371.0 // km

	// nearest candidates are ranked by planar degrees inside the tree, so
	// fetch extra and re-rank them by great-circle distance
	candidateFactor = 4
	minCandidates   = 16
)

// Match is a place with its distance from a query point
type Match struct {
	Place      *models.Place
	DistanceKm float64
}

// spatialPlace wraps a place to implement rtreego.Spatial
type spatialPlace struct {
	*models.Place
	rect *rtreego.Rect
}

func (sp *spatialPlace) Bounds() *rtreego.Rect {
	return sp.rect
}

// Index is a thread-safe R-Tree based place index
type Index struct {
	tree      *rtreego.Rtree
	mu        sync.RWMutex
	itemCount atomic.Int64
}

// NewIndex creates an empty place index
func NewIndex() *Index {
	return &Index{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren),
	}
}

// Add indexes a batch of places. Places without a valid location are
// skipped; the number actually indexed is returned.
func (g *Index) Add(places []*models.Place) int {
	items := make([]*spatialPlace, 0, len(places))
	for _, p := range places {
		if p == nil || p.Location == nil || !p.Location.Valid() {
			continue
		}
		pt := rtreego.Point{p.Location.Lat, p.Location.Lon}
		items = append(items, &spatialPlace{p, pt.ToRect(tolerance)})
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, item := range items {
		g.tree.Insert(item)
	}
	g.itemCount.Add(int64(len(items)))
	return len(items)
}

// SearchBox returns all places within the given bounding box
func (g *Index) SearchBox(box models.BoundingBox) ([]*models.Place, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.searchBox(box)
}

func (g *Index) searchBox(box models.BoundingBox) ([]*models.Place, error) {
	bounds, err := rtreego.NewRect(
		rtreego.Point{box.BottomLeft.Lat, box.BottomLeft.Lon},
		[]float64{box.TopRight.Lat - box.BottomLeft.Lat, box.TopRight.Lon - box.BottomLeft.Lon},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid bounding box: %w", err)
	}

	results := g.tree.SearchIntersect(bounds)
	places := make([]*models.Place, 0, len(results))
	for _, result := range results {
		item, ok := result.(*spatialPlace)
		if !ok || item.Place == nil {
			continue
		}
		// the tree matches on padded rects, keep strict containment only
		if box.Contains(*item.Location) {
			places = append(places, item.Place)
		}
	}
	return places, nil
}

// Within returns the places within radiusKm of center, nearest first
func (g *Index) Within(center models.GeoLocation, radiusKm float64) ([]Match, error) {
	if radiusKm <= 0 {
		return nil, fmt.Errorf("invalid radius %.3f km", radiusKm)
	}

	// approximate the radius in degrees, widening longitude by latitude
	dLat := (radiusKm / earthRadius) * (180 / math.Pi)
	dLon := 360.0
	if c := math.Cos(center.Lat * math.Pi / 180); c > 0.01 {
		dLon = math.Min(dLat/c, 360)
	}
	box := models.BoundingBox{
		BottomLeft: models.GeoLocation{Lat: math.Max(center.Lat-dLat, -90), Lon: math.Max(center.Lon-dLon, -180)},
		TopRight:   models.GeoLocation{Lat: math.Min(center.Lat+dLat, 90), Lon: math.Min(center.Lon+dLon, 180)},
	}

	g.mu.RLock()
	candidates, err := g.searchBox(box)
	g.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("radius search: %w", err)
	}

	matches := make([]Match, 0, len(candidates))
	for _, p := range candidates {
		if d := Distance(center, *p.Location); d <= radiusKm {
			matches = append(matches, Match{Place: p, DistanceKm: d})
		}
	}
	sortMatches(matches)
	return matches, nil
}

// Nearest returns up to n places closest to center, nearest first
func (g *Index) Nearest(center models.GeoLocation, n int) []Match {
	if n <= 0 {
		return nil
	}

	k := n * candidateFactor
	if k < minCandidates {
		k = minCandidates
	}

	g.mu.RLock()
	results := g.tree.NearestNeighbors(k, rtreego.Point{center.Lat, center.Lon})
	g.mu.RUnlock()

	matches := make([]Match, 0, len(results))
	for _, result := range results {
		sp, ok := result.(*spatialPlace)
		if !ok || sp == nil {
			continue
		}
		matches = append(matches, Match{Place: sp.Place, DistanceKm: Distance(center, *sp.Location)})
	}
	sortMatches(matches)
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

// Places returns every indexed place
func (g *Index) Places() []*models.Place {
	g.mu.RLock()
	defer g.mu.RUnlock()

	places, _ := g.searchBox(models.BoundingBox{
		BottomLeft: models.GeoLocation{Lat: -90, Lon: -180},
		TopRight:   models.GeoLocation{Lat: 90, Lon: 180},
	})
	return places
}

// Size returns the number of places in the index
func (g *Index) Size() int64 {
	return g.itemCount.Load()
}

// Clear removes all places from the index
func (g *Index) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tree = rtreego.NewTree(dimensions, minChildren, maxChildren)
	g.itemCount.Store(0)
}

func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})
}

// Distance calculates the haversine distance between two locations in kilometers
func Distance(a, b models.GeoLocation) float64 {
	lat1 := a.Lat * math.Pi / 180.0
	lat2 := b.Lat * math.Pi / 180.0
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180.0

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
