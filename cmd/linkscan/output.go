package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/linkscan/internal/config"
	"github.com/nao1215/linkscan/internal/model"
	"github.com/nao1215/linkscan/internal/report"
)

// openOutputFile creates the report file with parent directories as needed.
// Reports can reveal site structure and unpublished URLs, so the file is
// readable by the owner only.
func openOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// writeOutput renders the crawl result, or its bare link list when
// linksOnly is set, in the configured format and destination.
func writeOutput(cfg *config.Config, result *model.CrawlResult, linksOnly bool) error {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	if linksOnly && len(result.Links) == 0 && format != report.FormatJSON {
		fmt.Println("No results found")
		return nil
	}

	render := func(format report.Format, w io.Writer) error {
		writer, err := report.NewWriter(format, w)
		if err != nil {
			return err
		}
		if linksOnly {
			_, err = writer.WriteLinks(result.Links)
		} else {
			_, err = writer.WriteResult(result)
		}
		return err
	}
	return writeRendered(cfg.OutputFile, format, render)
}

// writeRecordSet renders loosely structured extraction records. JSON
// marshals the typed value directly so field order stays stable; the other
// formats go through the record writers.
func writeRecordSet(cfg *config.Config, value any, set report.RecordSet) error {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	if len(set.Rows) == 0 && format != report.FormatJSON {
		fmt.Println("No results found")
		return nil
	}

	render := func(format report.Format, w io.Writer) error {
		if format == report.FormatJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(value)
		}
		_, err := report.WriteRecords(format, w, set)
		return err
	}
	return writeRendered(cfg.OutputFile, format, render)
}

// writeRendered runs the render callback against the configured
// destination.
//
// Table format is terminal UI: with an output file the table still prints
// to stdout and the file receives a CSV copy of the same data, so the
// on-screen preview never replaces the machine-readable report.
func writeRendered(outputFile string, format report.Format, render func(report.Format, io.Writer) error) error {
	if outputFile == "" {
		return render(format, os.Stdout)
	}

	if format == report.FormatTable {
		if err := render(report.FormatTable, os.Stdout); err != nil {
			return err
		}
		f, err := openOutputFile(outputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := render(report.FormatCSV, f); err != nil {
			return err
		}
		fmt.Printf("\nResults saved to: %s\n", outputFile)
		return nil
	}

	f, err := openOutputFile(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := render(format, f); err != nil {
		return err
	}
	fmt.Printf("Results saved to: %s\n", outputFile)
	return nil
}
