package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/cognicore/verbatim/pkg/verbatim/book"
)

// Fetches a public-domain book and converts it to plain text for corpus
// preparation. The metadata header and chapter delimiters still have to be
// added by hand before the file is usable as a reference book.
func main() {
	var (
		url     = flag.String("url", "", "HTML page to download (e.g. a Project Gutenberg HTML edition)")
		pdfPath = flag.String("pdf", "", "Local PDF file to extract instead of downloading")
		outPath = flag.String("out", "", "Output text file (required)")
	)
	flag.Parse()

	if *outPath == "" {
		log.Fatal("--out required")
	}
	if (*url == "") == (*pdfPath == "") {
		log.Fatal("exactly one of --url or --pdf required")
	}

	var text string
	var err error
	switch {
	case *pdfPath != "":
		text, err = book.ExtractPDF(*pdfPath)
		if err != nil {
			log.Fatalf("extract %s: %v", *pdfPath, err)
		}
	default:
		text, err = fetchHTML(*url)
		if err != nil {
			log.Fatalf("fetch %s: %v", *url, err)
		}
	}

	if err := os.WriteFile(*outPath, []byte(text), 0o644); err != nil {
		log.Fatalf("write %s: %v", *outPath, err)
	}
	log.Printf("wrote %d bytes to %s", len(text), *outPath)
}

func fetchHTML(url string) (string, error) {
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return book.ExtractHTML(resp.Body)
}
