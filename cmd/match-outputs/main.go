package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cognicore/verbatim/pkg/verbatim"
	"github.com/cognicore/verbatim/pkg/verbatim/book"
	"github.com/cognicore/verbatim/pkg/verbatim/config"
	"github.com/cognicore/verbatim/pkg/verbatim/match"
	"github.com/cognicore/verbatim/pkg/verbatim/normalize"
	"github.com/cognicore/verbatim/pkg/verbatim/outputs"
	"github.com/cognicore/verbatim/pkg/verbatim/prompts"
	"github.com/cognicore/verbatim/pkg/verbatim/report"
	"github.com/cognicore/verbatim/pkg/verbatim/store"
	"github.com/cognicore/verbatim/pkg/verbatim/store/sqlite"
)

func main() {
	var (
		configPath = flag.String("config", "data/corpus.yaml", "Corpus configuration file")
		corpus     = flag.String("corpus", "publicdomain", "Corpus to match against")
		outBase    = flag.String("out", "", "Base name of the output CSV (required)")
		mode       = flag.String("mode", "match", `Output mode: "match" (one row per match) or "output" (one row per model output, for labelling)`)
		minLength  = flag.Int("min-length", 0, "Minimum match length in words (0 = mode default)")
		force      = flag.Bool("force", false, "Rewrite the CSV even if it is newer than all inputs")
		dbPath     = flag.String("db", "", "Optional SQLite database persisting match rows")
	)
	flag.Parse()

	if *outBase == "" {
		log.Fatal("--out required")
	}
	if *mode != "match" && *mode != "output" {
		log.Fatalf("illegal mode %q", *mode)
	}
	modelFiles := flag.Args()
	if len(modelFiles) == 0 {
		log.Fatal("no model output files given")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	books, err := cfg.Corpus(*corpus)
	if err != nil {
		log.Fatalf("corpus: %v", err)
	}

	if *minLength == 0 {
		if *mode == "match" {
			*minLength = cfg.Defaults.MinLength
		} else {
			*minLength = cfg.Defaults.ReviewMinLength
		}
	}

	csvName := report.FileName(*outBase, *corpus)
	if !*force && upToDate(csvName, modelFiles) {
		log.Printf("%s up to date, skipping", csvName)
		return
	}

	ctx := context.Background()
	var st store.Store
	if *dbPath != "" {
		st, err = sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer st.Close()
	}

	var matchRecords []report.MatchRecord
	var outputRecords []report.OutputRecord

	for _, file := range modelFiles {
		bookID := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		bookPath, ok := books[bookID]
		if !ok {
			continue
		}

		log.Printf("processing %s", file)
		b, err := book.Load(bookPath)
		if err != nil {
			log.Fatalf("load book %s: %v", bookID, err)
		}
		records, err := outputs.ReadFile(file)
		if err != nil {
			log.Fatalf("read outputs %s: %v", file, err)
		}

		for _, rec := range records {
			decoded := prompts.Decode(rec.PromptID, rec.Output)
			tokens := normalize.Tokens(decoded)

			found := verbatim.FindMatches(tokens, b.Chapters, *minLength, 0)
			found = match.Apply(found, prompts.KnownTextFilter(rec.PromptID, b.Meta))

			switch *mode {
			case "match":
				for _, m := range found {
					matchRecords = append(matchRecords, report.MatchRecord{
						BookID:   bookID,
						PromptID: rec.PromptID,
						Match:    m,
					})
				}
			case "output":
				outputRecords = append(outputRecords, report.OutputRecord{
					BookID:      bookID,
					PromptID:    rec.PromptID,
					ModelOutput: rec.Output,
					FinalPrompt: rec.FinalPrompt,
					Matches:     found,
				})
			}

			if st != nil {
				persistMatches(ctx, st, bookID, rec.PromptID, found)
			}
		}
	}

	f, err := os.Create(csvName)
	if err != nil {
		log.Fatalf("create %s: %v", csvName, err)
	}
	defer f.Close()

	switch *mode {
	case "match":
		err = report.WriteMatches(f, matchRecords)
	case "output":
		err = report.WriteOutputs(f, outputRecords)
	}
	if err != nil {
		log.Fatalf("write %s: %v", csvName, err)
	}
	log.Printf("wrote %s", csvName)
}

// upToDate reports whether the CSV is newer than every input file.
func upToDate(csvName string, inputs []string) bool {
	info, err := os.Stat(csvName)
	if err != nil {
		return false
	}

	var newest time.Time
	for _, path := range inputs {
		if fi, err := os.Stat(path); err == nil && fi.ModTime().After(newest) {
			newest = fi.ModTime()
		}
	}
	return info.ModTime().After(newest)
}

func persistMatches(ctx context.Context, st store.Store, bookID, promptID string, found []match.Match) {
	rows := make([]store.MatchRow, 0, len(found))
	for _, m := range found {
		rows = append(rows, store.MatchRow{
			BookID:       bookID,
			PromptID:     promptID,
			Chapter:      m.Chapter,
			WordCount:    m.WordCount,
			CharCount:    m.CharCount,
			SkippedShort: m.SkippedShort,
			SkippedLong:  m.SkippedLong,
			Text:         m.Text,
		})
	}
	if err := st.ReplaceMatches(ctx, bookID, promptID, rows); err != nil {
		log.Printf("persist matches %s/%s: %v", bookID, promptID, err)
	}
}
