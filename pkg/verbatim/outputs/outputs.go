// Package outputs reads and writes the raw model-output files: one JSONL
// file per book, one line per prompt response. Query runs append to these
// files; the matcher and the deduplication tool read them back.
package outputs

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// Record is one line of a raw output file.
type Record struct {
	Timestamp   string            `json:"timestamp"`
	PromptID    string            `json:"prompt_id"`
	Prompt      string            `json:"prompt"`
	Output      string            `json:"output"`
	FinalPrompt string            `json:"final_prompt"`
	Values      map[string]string `json:"values,omitempty"`
	// RawOutput preserves the provider's response body for later audits.
	RawOutput json.RawMessage `json:"raw_output,omitempty"`
}

// ReadFile loads a raw output file. A missing file is an error; callers that
// treat absence as "no previous requests" check os.IsNotExist themselves.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	// Model outputs can be long; raise the line limit well past the default.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return records, nil
}

// WriteFile rewrites a raw output file from scratch.
func WriteFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %s: %w", rec.PromptID, err)
		}
	}
	return nil
}

// PromptIDs returns the set of prompt IDs present in records.
func PromptIDs(records []Record) map[string]struct{} {
	ids := make(map[string]struct{}, len(records))
	for _, rec := range records {
		ids[rec.PromptID] = struct{}{}
	}
	return ids
}

// Dedupe keeps the first record per prompt ID, preserving order, and reports
// how many duplicates were dropped. Parallel query runs can record the same
// request twice; later evaluation assumes one response per prompt.
func Dedupe(records []Record) ([]Record, int) {
	seen := make(map[string]struct{}, len(records))
	kept := make([]Record, 0, len(records))
	dropped := 0
	for _, rec := range records {
		if _, ok := seen[rec.PromptID]; ok {
			dropped++
			continue
		}
		seen[rec.PromptID] = struct{}{}
		kept = append(kept, rec)
	}
	return kept, dropped
}
