package book

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleBook = `{
	"title": "The Example",
	"author": "A. Writer",
	"first_sentence": "It begins here.",
	"sentences": ["One.", "Two.", "Three."]
}
###END METADATA###
It begins here, in the first chapter.
###CHAPTER###
The second chapter follows the first.
###CHAPTER###
And so it ends.`

func TestParseMetadata(t *testing.T) {
	b, err := Parse(sampleBook)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if b.Meta["title"] != "The Example" {
		t.Errorf("title = %q", b.Meta["title"])
	}
	if b.Meta["first_sentence"] != "It begins here." {
		t.Errorf("first_sentence = %q", b.Meta["first_sentence"])
	}

	// List values flatten to indexed keys.
	for key, want := range map[string]string{
		"sentences0": "One.",
		"sentences1": "Two.",
		"sentences2": "Three.",
	} {
		if b.Meta[key] != want {
			t.Errorf("%s = %q, want %q", key, b.Meta[key], want)
		}
	}
	if _, ok := b.Meta["sentences"]; ok {
		t.Error("list key should not survive un-flattened")
	}
}

func TestParseChapters(t *testing.T) {
	b, err := Parse(sampleBook)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(b.Chapters) != 3 {
		t.Fatalf("got %d chapters, want 3", len(b.Chapters))
	}

	want := []string{"the", "second", "chapter", "follows", "the", "first"}
	if !reflect.DeepEqual(b.Chapters[1], want) {
		t.Errorf("chapter 2 tokens = %v, want %v", b.Chapters[1], want)
	}
}

func TestParseStripsBOM(t *testing.T) {
	if _, err := Parse("\ufeff" + sampleBook); err != nil {
		t.Fatalf("Parse with BOM: %v", err)
	}
}

func TestParseMissingDelimiter(t *testing.T) {
	if _, err := Parse("just some text with no header"); err == nil {
		t.Fatal("expected error for missing metadata delimiter")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.txt")
	if err := os.WriteFile(path, []byte(sampleBook), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(b.Chapters) != 3 {
		t.Errorf("got %d chapters, want 3", len(b.Chapters))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExtractHTML(t *testing.T) {
	doc := `<html><head><title>skip me</title><style>p{color:red}</style></head>
<body><h1>Chapter I</h1><p>It was a dark and stormy   night.</p>
<p>The rain fell in torrents.</p><script>var x = 1;</script></body></html>`

	text, err := ExtractHTML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}

	if strings.Contains(text, "skip me") || strings.Contains(text, "color") || strings.Contains(text, "var x") {
		t.Errorf("head/style/script content leaked into text:\n%s", text)
	}
	for _, want := range []string{"Chapter I", "It was a dark and stormy night.", "The rain fell in torrents."} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestExtractHTMLSeparatesBlocks(t *testing.T) {
	doc := `<p>first paragraph</p><p>second paragraph</p>`
	text, err := ExtractHTML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	if strings.Contains(text, "paragraphsecond") {
		t.Errorf("adjacent blocks ran together:\n%s", text)
	}
}
