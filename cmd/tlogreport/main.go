// Command tlogreport decodes trajectory logs, summarizes expected-vs-actual
// deviation per axis, optionally archives the summaries to sqlite, and
// renders HTML charts (and PNG plots) of the axis traces.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/linac-data/tlog/internal/report"
	"github.com/linac-data/tlog/internal/tlog"
	"github.com/linac-data/tlog/internal/tlogdb"
	"github.com/linac-data/tlog/internal/tlogstats"
)

var (
	dbPath     = flag.String("db", "", "sqlite archive to record deviation stats into (optional)")
	migrateDir = flag.String("migrate", "", "Apply schema migrations from this directory to -db before processing")
	outDir     = flag.String("out", "tlog-report", "Output directory for reports")
	plots      = flag.Bool("plots", false, "Also write per-axis PNG plots")
	axesFlag   = flag.String("axes", "", "Comma-separated axis names to chart (default: principal axes)")
)

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: tlogreport [-db archive.db] [-migrate dir] [-out dir] [-plots] [-axes list] file.bin [file.bin ...]")
	}
	if *migrateDir != "" && *dbPath == "" {
		log.Fatal("-migrate requires -db")
	}

	var axes []string
	if *axesFlag != "" {
		for _, a := range strings.Split(*axesFlag, ",") {
			axes = append(axes, strings.TrimSpace(a))
		}
	}

	var db *tlogdb.DB
	if *dbPath != "" {
		var err error
		db, err = tlogdb.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("failed to open archive database: %v", err)
		}
		defer db.Close()

		if *migrateDir != "" {
			if err := db.MigrateUp(*migrateDir); err != nil {
				log.Fatalf("failed to migrate archive database: %v", err)
			}
		}
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	failed := 0
	for _, path := range flag.Args() {
		if err := run(path, db, axes); err != nil {
			log.Printf("%s: %v", path, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func run(path string, db *tlogdb.DB, axes []string) error {
	l, err := tlog.DecodeFile(path)
	if err != nil {
		return err
	}

	devs, err := tlogstats.ComputeAll(l)
	if err != nil {
		return err
	}

	if db != nil {
		logID, err := db.RecordLog(path, l, devs)
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		log.Printf("archived %s as %s", path, logID)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	htmlPath := filepath.Join(*outDir, stem+".html")
	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", htmlPath, err)
	}
	if err := report.WriteHTMLReport(f, path, l, axes); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", htmlPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("wrote %s", htmlPath)

	if *plots {
		plotDir := filepath.Join(*outDir, stem)
		n, err := report.SaveAxisPlots(plotDir, l, axes)
		if err != nil {
			return fmt.Errorf("plots: %w", err)
		}
		log.Printf("wrote %d plots to %s", n, plotDir)
	}
	return nil
}
