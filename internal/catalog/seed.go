package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"storefront-cms/internal/models"
	errs "storefront-cms/pkg/errors"
)

//go:embed seed/hotels.yaml
var defaultSeed []byte

type seedFile struct {
	Hotels []models.Hotel `yaml:"hotels"`
}

// DefaultSeed returns the hotels shipped with the binary.
func DefaultSeed() ([]models.Hotel, error) {
	return LoadSeed(bytes.NewReader(defaultSeed))
}

// LoadSeed parses a YAML catalog document ("hotels:" list).
func LoadSeed(r io.Reader) ([]models.Hotel, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, errs.NewValidation("catalog.LoadSeed", "invalid catalog yaml", err)
	}
	seen := make(map[int64]bool, len(f.Hotels))
	for _, h := range f.Hotels {
		if h.ID <= 0 {
			return nil, errs.NewFieldValidation("catalog.LoadSeed", "id", fmt.Sprintf("hotel %q has no positive id", h.Name))
		}
		if seen[h.ID] {
			return nil, errs.NewFieldValidation("catalog.LoadSeed", "id", fmt.Sprintf("duplicate hotel id %d", h.ID))
		}
		seen[h.ID] = true
	}
	return f.Hotels, nil
}

// LoadFile reads a catalog from path, or the embedded seed when path is empty.
func LoadFile(path string) ([]models.Hotel, error) {
	if path == "" {
		return DefaultSeed()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.NewNotFound("catalog.LoadFile", fmt.Sprintf("catalog file %s: %v", path, err))
	}
	defer f.Close()
	return LoadSeed(f)
}

// Open builds a MemoryStore from path (see LoadFile).
func Open(path string) (*MemoryStore, error) {
	hotels, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(hotels...)
}
