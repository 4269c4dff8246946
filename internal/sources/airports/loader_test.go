package airports

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	a := Default()

	for _, code := range []string{"HKG", "LHR", "NRT", "PEK", "SIN", "CGK"} {
		if _, ok := a.Lookup(code); !ok {
			t.Errorf("embedded table is missing %s", code)
		}
	}

	hkg, _ := a.Lookup("hkg")
	if hkg.Country != "HK" {
		t.Errorf("HKG country = %q, want HK", hkg.Country)
	}
	if _, ok := a.Lookup("XXX"); ok {
		t.Error("Lookup(XXX) should report not found")
	}
}

func TestLoaderLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airports.csv")
	content := "code,lat,lon,country\n# local additions\nzzz, 1.5, 2.5, xx\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test CSV file: %v", err)
	}

	a, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(a) != 1 {
		t.Fatalf("Load() returned %d airports, want 1", len(a))
	}

	rec, ok := a.Lookup("ZZZ")
	if !ok || rec.Lat != 1.5 || rec.Lon != 2.5 || rec.Country != "XX" {
		t.Errorf("Lookup(ZZZ) = %+v, %v", rec, ok)
	}
}

func TestLoaderLoadMissingFile(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "nope.csv")).Load(); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad coordinate", "HKG,22.3,abc,HK\n"},
		{"bad coordinate after header", "code,lat,lon,country\nHKG,north,113.9,HK\n"},
		{"wrong field count", "HKG,22.3,113.9\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Errorf("Parse(%q) should fail", tt.input)
			}
		})
	}
}

func TestParseWithoutHeader(t *testing.T) {
	a, err := Parse(strings.NewReader("HKG,22.308,113.9185,HK\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := a.Lookup("HKG"); !ok {
		t.Error("Parse() dropped the first data row")
	}
}
