package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cognicore/verbatim/internal/llm"
	"github.com/cognicore/verbatim/pkg/verbatim/book"
	"github.com/cognicore/verbatim/pkg/verbatim/config"
	"github.com/cognicore/verbatim/pkg/verbatim/outputs"
	"github.com/cognicore/verbatim/pkg/verbatim/prompts"
	"github.com/cognicore/verbatim/pkg/verbatim/store"
	"github.com/cognicore/verbatim/pkg/verbatim/store/sqlite"
)

func main() {
	var (
		configPath = flag.String("config", "data/corpus.yaml", "Corpus configuration file")
		corpus     = flag.String("corpus", "publicdomain", "Corpus to query")
		templates  = flag.String("templates", "data/prompt_templates.json", "Prompt template JSON file")
		provider   = flag.String("provider", "", "Model provider: openai, together or alephalpha (required)")
		model      = flag.String("model", "", "Model name (required)")
		outDir     = flag.String("out", "", "Output directory, one JSONL file per book (required)")
		apiKey     = flag.String("api-key", "", "API key (default: provider env var)")
		temp       = flag.Float64("temp", 0, "Sampling temperature (0 = provider default)")
		maxTokens  = flag.Int("max-tokens", 0, "Maximum response tokens (0 = provider default)")
		sleep      = flag.Duration("sleep", time.Second, "Pause between requests")
		system     = flag.String("system", "", "System message sent with every prompt")
		dbPath     = flag.String("db", "", "Optional SQLite database recording the run")
	)
	flag.Parse()

	if *provider == "" {
		log.Fatal("--provider required")
	}
	if *model == "" {
		log.Fatal("--model required")
	}
	if *outDir == "" {
		log.Fatal("--out required")
	}

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	books, err := cfg.Corpus(*corpus)
	if err != nil {
		log.Fatalf("corpus: %v", err)
	}
	tmpl, err := prompts.LoadTemplates(*templates)
	if err != nil {
		log.Fatalf("load templates: %v", err)
	}

	p, err := llm.New(*provider, llm.Options{
		APIKey:      keyFor(*provider, *apiKey),
		Model:       *model,
		Temperature: *temp,
		MaxTokens:   *maxTokens,
	})
	if err != nil {
		log.Fatalf("provider: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	var st store.Store
	var runID string
	if *dbPath != "" {
		st, err = sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer st.Close()

		runID = store.NewRunIDs().Next()
		run := store.Run{
			ID:        runID,
			Provider:  *provider,
			Model:     *model,
			Corpus:    *corpus,
			StartedAt: time.Now(),
		}
		if err := st.CreateRun(ctx, run); err != nil {
			log.Fatalf("record run: %v", err)
		}
		log.Printf("run %s", runID)
	}

	runner := &llm.Runner{Provider: p, System: *system, SleepInterval: *sleep}

	bookIDs := make([]string, 0, len(books))
	for id := range books {
		bookIDs = append(bookIDs, id)
	}
	sort.Strings(bookIDs)

	var total llm.Result
	for _, bookID := range bookIDs {
		b, err := book.Load(books[bookID])
		if err != nil {
			log.Printf("load book %s: %v", bookID, err)
			continue
		}

		outPath := filepath.Join(*outDir, bookID+".jsonl")
		log.Printf("querying %s", bookID)
		res, err := runner.QueryBook(ctx, tmpl, b.Meta, outPath)
		if err != nil {
			log.Fatalf("query %s: %v", bookID, err)
		}
		total.Performed += res.Performed
		total.Skipped += res.Skipped
		total.Errors += res.Errors

		if st != nil {
			recordOutputs(ctx, st, runID, bookID, outPath)
		}
	}

	log.Printf("new requests performed: %d", total.Performed)
	log.Printf("skipped: %d", total.Skipped)
	log.Printf("errors encountered: %d", total.Errors)
}

// keyFor falls back to the conventional environment variable of a provider.
func keyFor(provider, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "together":
		return os.Getenv("TOGETHER_API_KEY")
	case "alephalpha":
		return os.Getenv("ALEPH_ALPHA_API_KEY")
	}
	return ""
}

func recordOutputs(ctx context.Context, st store.Store, runID, bookID, outPath string) {
	records, err := outputs.ReadFile(outPath)
	if err != nil {
		log.Printf("record outputs %s: %v", bookID, err)
		return
	}
	for _, rec := range records {
		o := store.Output{
			RunID:       runID,
			BookID:      bookID,
			PromptID:    rec.PromptID,
			Prompt:      rec.Prompt,
			FinalPrompt: rec.FinalPrompt,
			Text:        rec.Output,
			CreatedAt:   time.Now(),
		}
		if _, err := st.InsertOutput(ctx, o); err != nil {
			log.Printf("store output %s/%s: %v", bookID, rec.PromptID, err)
		}
	}
}
