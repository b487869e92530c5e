package router

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCatalogue(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"friday.yaml":    gigYAML,
		"friday_bk.yaml": gigYAML,
		"broken.yml":     "rack: [1, 2\n",
		"notes.txt":      "not a set",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	sets, err := Catalogue(dir, nil, log.New(io.Discard))
	if err != nil {
		t.Fatalf("Catalogue failed: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("got %d sets %+v, expected 2", len(sets), sets)
	}
	want := []Set{
		{Path: filepath.Join(dir, "friday.yaml"), ShortName: "friday", SetListIndex: 0, DefaultSetListIndex: 0, SetListName: "Friday"},
		{Path: filepath.Join(dir, "friday.yaml"), ShortName: "friday", SetListIndex: 1, DefaultSetListIndex: 0, SetListName: "Encore"},
	}
	for i := range want {
		if sets[i] != want[i] {
			t.Errorf("set %d = %+v, expected %+v", i, sets[i], want[i])
		}
	}
}

func TestCatalogueMissingDir(t *testing.T) {
	if _, err := Catalogue(filepath.Join(t.TempDir(), "nope"), nil, log.New(io.Discard)); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}
