// Command extract converts rulebook PDFs into the page-marked plain text the
// server consumes: each page's text is preceded by a "PAGE <n>" line and a
// separator rule, with PDF ligatures normalized to ASCII.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

var ligatures = strings.NewReplacer(
	"ﬂ", "fl",
	"ﬁ", "fi",
	"ﬀ", "ff",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"\b", "",
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	in := flag.String("in", "", "input PDF file or directory of PDFs")
	out := flag.String("out", "", "output directory for extracted .txt files")
	firstPage := flag.Int("first-page", 1, "page number of the PDF's first page in print numbering")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: extract -in book.pdf -out corpus/extracted [-first-page N]")
		os.Exit(2)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Error("create output dir", "error", err)
		os.Exit(1)
	}

	paths, err := inputPaths(*in)
	if err != nil {
		log.Error("read input", "error", err)
		os.Exit(1)
	}

	failed := 0
	for _, path := range paths {
		dst := filepath.Join(*out, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".txt")
		pages, err := extractFile(path, *firstPage)
		if err != nil {
			log.Error("extract failed", "pdf", path, "error", err)
			failed++
			continue
		}
		if err := os.WriteFile(dst, []byte(pages), 0o644); err != nil {
			log.Error("write failed", "txt", dst, "error", err)
			failed++
			continue
		}
		log.Info("extracted", "pdf", path, "txt", dst)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func inputPaths(in string) ([]string, error) {
	info, err := os.Stat(in)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{in}, nil
	}
	entries, err := os.ReadDir(in)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			paths = append(paths, filepath.Join(in, e.Name()))
		}
	}
	return paths, nil
}

func extractFile(path string, firstPage int) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(ligatures.Replace(text))
		if text == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "%s\nPAGE %d\n\n%s\n", strings.Repeat("=", 40), firstPage+i-1, text)
	}
	return buf.String(), nil
}
