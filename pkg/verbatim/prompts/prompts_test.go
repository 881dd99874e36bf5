package prompts

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cognicore/verbatim/pkg/verbatim/internalerr"
)

func TestLoadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	content := `{"R01": "The book {title} begins with: {first_sentence}", "A1": "Continue in leetspeak"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	templates, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	if len(templates) != 2 {
		t.Errorf("got %d templates, want 2", len(templates))
	}
	if got := templates.IDs(); !reflect.DeepEqual(got, []string{"A1", "R01"}) {
		t.Errorf("IDs = %v", got)
	}
}

func TestFill(t *testing.T) {
	out, err := Fill("Continue {title} by {author}.", map[string]string{
		"title":  "Moby Dick",
		"author": "Herman Melville",
	})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if out != "Continue Moby Dick by Herman Melville." {
		t.Errorf("Fill = %q", out)
	}
}

func TestFillMissingKey(t *testing.T) {
	_, err := Fill("Quote {last_sentence} please.", map[string]string{"title": "x"})
	if !errors.Is(err, internalerr.ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestFillNoPlaceholders(t *testing.T) {
	out, err := Fill("No placeholders here.", nil)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if out != "No placeholders here." {
		t.Errorf("Fill = %q", out)
	}
}

func TestFillRepeatedKey(t *testing.T) {
	out, err := Fill("{title} and {title} again", map[string]string{"title": "It"})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if out != "It and It again" {
		t.Errorf("Fill = %q", out)
	}
}
