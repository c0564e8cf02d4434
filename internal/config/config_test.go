package config

import "testing"

func TestHasCategory(t *testing.T) {
	t.Parallel()
	cfg := ComplaintConfig{Categories: []string{"ROAD", "WASTE"}}

	if !cfg.HasCategory("ROAD") {
		t.Error("HasCategory(ROAD) = false")
	}
	if cfg.HasCategory("road") {
		t.Error("HasCategory(road) matched case-insensitively")
	}
	if cfg.HasCategory("TELEPATHY") {
		t.Error("HasCategory(TELEPATHY) = true")
	}
}

func TestSplitCSV(t *testing.T) {
	t.Parallel()

	got := splitCSV(" ROAD, ,WASTE ,")
	if len(got) != 2 || got[0] != "ROAD" || got[1] != "WASTE" {
		t.Errorf("splitCSV() = %v, want [ROAD WASTE]", got)
	}
	if got := splitCSV(""); len(got) != 0 {
		t.Errorf("splitCSV(empty) = %v, want empty", got)
	}
}
