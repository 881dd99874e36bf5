package main

import (
	"flag"
	"log"
	"path/filepath"
	"sort"

	"github.com/cognicore/verbatim/pkg/verbatim/outputs"
)

// Parallel query runs can record two responses for one prompt. Scan reports
// the duplicates; -fix rewrites the files keeping the first occurrence.
func main() {
	var (
		dir = flag.String("dir", "", "Raw output directory to scan (required)")
		fix = flag.Bool("fix", false, "Rewrite files with duplicates removed")
	)
	flag.Parse()

	if *dir == "" {
		log.Fatal("--dir required")
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.jsonl"))
	if err != nil {
		log.Fatalf("glob: %v", err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		log.Fatalf("no .jsonl files in %s", *dir)
	}

	totalDropped := 0
	for _, file := range files {
		records, err := outputs.ReadFile(file)
		if err != nil {
			log.Fatalf("read %s: %v", file, err)
		}

		kept, dropped := outputs.Dedupe(records)
		if dropped == 0 {
			continue
		}
		totalDropped += dropped
		log.Printf("%s: %d duplicate(s)", filepath.Base(file), dropped)

		if *fix {
			if err := outputs.WriteFile(file, kept); err != nil {
				log.Fatalf("rewrite %s: %v", file, err)
			}
			log.Printf("%s: %d -> %d records", filepath.Base(file), len(records), len(kept))
		}
	}

	if totalDropped == 0 {
		log.Print("no duplicates found")
	} else if !*fix {
		log.Printf("%d duplicate(s) total, re-run with -fix to remove", totalDropped)
	}
}
