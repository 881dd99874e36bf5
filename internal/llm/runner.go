package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"github.com/cognicore/verbatim/pkg/verbatim/internalerr"
	"github.com/cognicore/verbatim/pkg/verbatim/outputs"
	"github.com/cognicore/verbatim/pkg/verbatim/prompts"
)

// timestampFormat matches the timestamps already present in recorded output
// files.
const timestampFormat = "2006-01-02T15-04-05MST"

// Runner drives a query run: every prompt template against one book,
// appending responses to the book's JSONL file.
type Runner struct {
	Provider Provider
	System   string

	// SleepInterval throttles requests to stay under provider rate limits.
	SleepInterval time.Duration

	now func() time.Time
}

// Result counts what happened during a run.
type Result struct {
	Performed int
	Skipped   int
	Errors    int
}

// QueryBook sends every template to the model, filled from the book's
// metadata. Prompts already answered in the output file are skipped, so an
// interrupted run can resume by re-running. Templates referencing metadata
// the book lacks are skipped too.
func (r *Runner) QueryBook(ctx context.Context, templates prompts.Templates, meta map[string]string, outPath string) (Result, error) {
	var res Result

	done := make(map[string]struct{})
	if prev, err := outputs.ReadFile(outPath); err == nil {
		done = outputs.PromptIDs(prev)
	} else if !os.IsNotExist(err) {
		return res, err
	}

	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return res, err
	}
	defer f.Close()
	enc := json.NewEncoder(f)

	for _, id := range templates.IDs() {
		if _, ok := done[id]; ok {
			res.Skipped++
			continue
		}
		template := templates[id]

		final, err := prompts.Fill(template, meta)
		if err != nil {
			if errors.Is(err, internalerr.ErrMissingKey) {
				res.Skipped++
				continue
			}
			return res, err
		}

		resp, err := r.Provider.Query(ctx, Request{System: r.System, Prompt: final})
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			log.Printf("prompt %s: %v", id, err)
			res.Errors++
			continue
		}

		rec := outputs.Record{
			Timestamp:   r.timeNow().Format(timestampFormat),
			PromptID:    id,
			Prompt:      template,
			Output:      resp.Text,
			FinalPrompt: final,
			Values:      meta,
			RawOutput:   resp.Raw,
		}
		if err := enc.Encode(rec); err != nil {
			return res, err
		}
		res.Performed++

		if r.SleepInterval > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(r.SleepInterval):
			}
		}
	}

	return res, nil
}

func (r *Runner) timeNow() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}
