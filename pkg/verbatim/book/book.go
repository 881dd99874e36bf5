// Package book loads reference works in the project corpus format: a JSON
// metadata header, an end-of-metadata delimiter, then the body text with
// chapter delimiters. Chapters are normalized to token sequences on load so
// the matcher can consume them directly.
package book

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cognicore/verbatim/pkg/verbatim/normalize"
)

const (
	// MetaDelimiter separates the JSON metadata header from the body.
	MetaDelimiter = "###END METADATA###"
	// ChapterDelimiter separates chapters inside the body.
	ChapterDelimiter = "###CHAPTER###"
)

// Book is one reference work: per-chapter token sequences plus the metadata
// used for prompt generation (title, author, first_sentence, ...).
type Book struct {
	Chapters [][]string
	Meta     map[string]string
}

// Load reads and parses a corpus file.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read book: %w", err)
	}
	b, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return b, nil
}

// Parse parses corpus-format text. List-valued metadata keys are flattened to
// indexed keys (sentences -> sentences0, sentences1, ...) so templates can
// reference individual elements.
func Parse(text string) (*Book, error) {
	// Corpus files are stored with a BOM.
	text = strings.TrimPrefix(text, "\ufeff")

	metaStr, body, found := strings.Cut(text, MetaDelimiter)
	if !found {
		return nil, fmt.Errorf("missing %q delimiter", MetaDelimiter)
	}

	meta, err := parseMeta(metaStr)
	if err != nil {
		return nil, err
	}

	raw := strings.Split(body, ChapterDelimiter)
	chapters := make([][]string, len(raw))
	for i, c := range raw {
		chapters[i] = normalize.Tokens(c)
	}

	return &Book{Chapters: chapters, Meta: meta}, nil
}

func parseMeta(s string) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("metadata header: %w", err)
	}

	meta := make(map[string]string, len(raw))
	for key, val := range raw {
		switch v := val.(type) {
		case []any:
			for idx, item := range v {
				meta[fmt.Sprintf("%s%d", key, idx)] = fmt.Sprint(item)
			}
		case string:
			meta[key] = v
		default:
			meta[key] = fmt.Sprint(v)
		}
	}
	return meta, nil
}
