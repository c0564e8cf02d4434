package geo

import (
	"os"
	"path/filepath"
	"testing"
)

func testDirectory() *Directory {
	return NewDirectory(map[string][]string{
		"Tunis": {"La Marsa", "Carthage", "Le Bardo"},
		"Sfax":  {"Sfax Ville", "Sakiet Ezzit"},
	})
}

func TestDirectoryLookups(t *testing.T) {
	t.Parallel()
	dir := testDirectory()

	govs := dir.Governorates()
	if len(govs) != 2 || govs[0] != "Sfax" || govs[1] != "Tunis" {
		t.Errorf("Governorates() = %v, want sorted [Sfax Tunis]", govs)
	}

	muns, ok := dir.Municipalities("Tunis")
	if !ok || len(muns) != 3 {
		t.Errorf("Municipalities(Tunis) = %v, %v", muns, ok)
	}
	if _, ok := dir.Municipalities("Gafsa"); ok {
		t.Error("Municipalities(Gafsa) reported known governorate")
	}

	if !dir.HasMunicipality("Sfax", "Sakiet Ezzit") {
		t.Error("HasMunicipality missed a known pair")
	}
	if dir.HasMunicipality("Sfax", "Carthage") {
		t.Error("HasMunicipality matched a municipality from another governorate")
	}
	if dir.HasMunicipality("Gafsa", "Carthage") {
		t.Error("HasMunicipality matched an unknown governorate")
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "geo.json")
	content := `{"governorates":[{"name":"Tunis","municipalities":["La Marsa","Carthage"]}]}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	dir, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !dir.HasMunicipality("Tunis", "Carthage") {
		t.Error("loaded directory missing expected municipality")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load() succeeded on missing file")
	}
}
