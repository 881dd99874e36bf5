package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/cognicore/verbatim/pkg/verbatim/analytics"
	"github.com/cognicore/verbatim/pkg/verbatim/store/sqlite"
)

func main() {
	var (
		dbPath = flag.String("db", "", "SQLite database written by match-outputs (required)")
		top    = flag.Int("top", 0, "Limit each table to the top N rows (0 = all)")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	ctx := context.Background()
	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	stats, err := analytics.Collect(ctx, st)
	if err != nil {
		log.Fatalf("collect: %v", err)
	}

	books := stats.Books
	prompts := stats.Prompts
	if *top > 0 {
		if len(books) > *top {
			books = books[:*top]
		}
		if len(prompts) > *top {
			prompts = prompts[:*top]
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "BOOK\tMATCHES\tWORDS\tMAX CHARS\tPROMPTS")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			b.BookID, b.Matches, b.MatchedWords, b.HighestChars, b.Prompts)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PROMPT\tMATCHES\tWORDS\tMAX CHARS\tBOOKS")
	for _, p := range prompts {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			p.PromptID, p.Matches, p.MatchedWords, p.HighestChars, p.Books)
	}
	w.Flush()
}
