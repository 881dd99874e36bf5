package verbatim

import (
	"reflect"
	"strings"
	"testing"
)

func chapter(s string) []string {
	return strings.Fields(s)
}

func TestFindMatchesTagsChapters(t *testing.T) {
	short := chapter("the storm broke at dawn")
	chapters := [][]string{
		chapter("all was quiet in the village that night"),
		chapter("and then the storm broke at dawn over the hills"),
		chapter("the storm broke at dawn once more before winter"),
	}

	matches := FindMatches(short, chapters, 5, 0)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Chapter != 2 {
		t.Errorf("first match chapter = %d, want 2", matches[0].Chapter)
	}
	if matches[1].Chapter != 3 {
		t.Errorf("second match chapter = %d, want 3", matches[1].Chapter)
	}
}

func TestFindMatchesChapterFieldsInRange(t *testing.T) {
	short := chapter("so it goes")
	chapters := [][]string{
		chapter("so it goes"),
		chapter("nothing here"),
		chapter("so it goes again so it goes"),
	}

	for _, m := range FindMatches(short, chapters, 3, 0) {
		if m.Chapter < 1 || m.Chapter > len(chapters) {
			t.Errorf("chapter %d out of range [1,%d]", m.Chapter, len(chapters))
		}
	}
}

func TestFindMatchesEquivalentToSingleChapterRuns(t *testing.T) {
	short := chapter("we walked north for hours in the dark")
	chapters := [][]string{
		chapter("then we walked south for hours in the dark again"),
		chapter("we walked north for hours before resting"),
	}

	combined := FindMatches(short, chapters, 4, 0)

	var stitched []string
	for _, c := range chapters {
		for _, m := range FindMatches(short, [][]string{c}, 4, 0) {
			if m.Chapter != 1 {
				t.Fatalf("single-chapter run tagged chapter %d, want 1", m.Chapter)
			}
			stitched = append(stitched, m.Text)
		}
	}

	var combinedTexts []string
	for _, m := range combined {
		combinedTexts = append(combinedTexts, m.Text)
	}
	if !reflect.DeepEqual(combinedTexts, stitched) {
		t.Errorf("per-chapter runs differ from combined run:\n%v\n%v", stitched, combinedTexts)
	}
}

func TestFindMatchesEmptyInputs(t *testing.T) {
	if got := FindMatches(nil, nil, 8, 0); len(got) != 0 {
		t.Errorf("no inputs should yield no matches, got %d", len(got))
	}
	if got := FindMatches(nil, [][]string{chapter("some chapter text")}, 8, 0); len(got) != 0 {
		t.Errorf("empty output should yield no matches, got %d", len(got))
	}
	if got := FindMatches(chapter("some output"), [][]string{nil}, 8, 0); len(got) != 0 {
		t.Errorf("empty chapter should yield no matches, got %d", len(got))
	}
}

func TestFindMatchesDeterministic(t *testing.T) {
	short := chapter("the old man and the sea was the first book he read")
	chapters := [][]string{
		chapter("he read the old man and the sea and then the old man read the sea again"),
		chapter("the first book was the old man and the sea he read"),
	}

	first := FindMatches(short, chapters, 2, 0)
	for i := 0; i < 5; i++ {
		if again := FindMatches(short, chapters, 2, 0); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced different output", i)
		}
	}
}
