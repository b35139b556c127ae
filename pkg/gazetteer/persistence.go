package gazetteer

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/1F47E/sun-locator/pkg/models"
)

// indexData is the serializable form of the index
type indexData struct {
	Places []*models.Place
	Count  int64
}

// SaveToFile saves the index to a binary file
func (g *Index) SaveToFile(filename string) error {
	data := indexData{
		Places: g.Places(),
		Count:  g.Size(),
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	return file.Sync()
}

// LoadFromFile replaces the index contents with those of a binary file
func (g *Index) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var data indexData
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode index: %w", err)
	}

	g.Clear()
	if n := g.Add(data.Places); int64(n) != data.Count {
		return fmt.Errorf("index file %s: expected %d places, indexed %d", filename, data.Count, n)
	}
	return nil
}
