// Command tlog2csv converts TrueBeam trajectory log (.bin) files to CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/linac-data/tlog/internal/tlog"
	"github.com/linac-data/tlog/internal/tlogcsv"
)

var outDir = flag.String("out", "", "Output directory for CSV files (default: alongside each input)")

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: tlog2csv [-out dir] file.bin [file.bin ...]")
	}

	failed := 0
	for _, path := range flag.Args() {
		out, err := convert(path, *outDir)
		if err != nil {
			log.Printf("%s: %v", path, err)
			failed++
			continue
		}
		log.Printf("wrote %s", out)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// convert decodes one log and writes its CSV. Decoding happens before the
// output file is created, so a bad input never leaves a partial CSV behind.
func convert(path, outDir string) (string, error) {
	l, err := tlog.DecodeFile(path)
	if err != nil {
		return "", err
	}

	out := csvPath(path, outDir)
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", out, err)
	}
	if err := tlogcsv.Write(f, path, l); err != nil {
		f.Close()
		os.Remove(out)
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, f.Close()
}

func csvPath(path, outDir string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
	if outDir == "" {
		return filepath.Join(filepath.Dir(path), base)
	}
	return filepath.Join(outDir, base)
}
