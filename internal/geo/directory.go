package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Directory is a read-only governorate to municipality lookup loaded at
// startup. It is injected where geographic validation is needed; nothing
// else in the service holds geography data.
type Directory struct {
	municipalities map[string][]string
	governorates   []string
}

type dataFile struct {
	Governorates []struct {
		Name           string   `json:"name"`
		Municipalities []string `json:"municipalities"`
	} `json:"governorates"`
}

// Load reads the directory from a JSON data file.
func Load(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geo data: %w", err)
	}
	var parsed dataFile
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse geo data: %w", err)
	}

	dir := &Directory{municipalities: make(map[string][]string, len(parsed.Governorates))}
	for _, gov := range parsed.Governorates {
		if gov.Name == "" {
			continue
		}
		dir.governorates = append(dir.governorates, gov.Name)
		dir.municipalities[gov.Name] = append([]string{}, gov.Municipalities...)
	}
	sort.Strings(dir.governorates)
	return dir, nil
}

// NewDirectory builds a directory from an in-memory map. Used by tests and
// deployments that inject geography without a data file.
func NewDirectory(data map[string][]string) *Directory {
	dir := &Directory{municipalities: make(map[string][]string, len(data))}
	for gov, muns := range data {
		dir.governorates = append(dir.governorates, gov)
		dir.municipalities[gov] = append([]string{}, muns...)
	}
	sort.Strings(dir.governorates)
	return dir
}

// Governorates lists all known governorates.
func (d *Directory) Governorates() []string {
	return append([]string{}, d.governorates...)
}

// Municipalities lists the municipalities of a governorate.
func (d *Directory) Municipalities(governorate string) ([]string, bool) {
	muns, ok := d.municipalities[governorate]
	if !ok {
		return nil, false
	}
	return append([]string{}, muns...), true
}

// HasMunicipality reports whether the municipality belongs to the governorate.
func (d *Directory) HasMunicipality(governorate, municipality string) bool {
	muns, ok := d.municipalities[governorate]
	if !ok {
		return false
	}
	for _, m := range muns {
		if m == municipality {
			return true
		}
	}
	return false
}
