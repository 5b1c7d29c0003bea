package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/muhammadolammi/resumeanalyzer/internal/analysis"
	"github.com/muhammadolammi/resumeanalyzer/internal/extract"
	"github.com/muhammadolammi/resumeanalyzer/internal/render"
)

func fileDocument(path string) (analysis.Document, error) {
	format, err := extract.FormatFromFilename(path)
	if err != nil {
		return analysis.Document{}, err
	}
	return analysis.Document{
		Name:   filepath.Base(path),
		Format: format,
		Fetch: func(context.Context) ([]byte, error) {
			return os.ReadFile(path)
		},
	}, nil
}

// runCheck prints the self-check report of one resume file.
func runCheck(ctx context.Context, analyzer *analysis.Analyzer, out io.Writer, profile string, paths []string) error {
	if len(paths) != 1 {
		return fmt.Errorf("check needs exactly one resume file, got %d", len(paths))
	}
	if profile == "" {
		return fmt.Errorf("--profile is required, one of %q", analyzer.Catalog().Titles())
	}
	doc, err := fileDocument(paths[0])
	if err != nil {
		return err
	}
	report, err := analyzer.SelfCheck(ctx, doc, profile)
	if err != nil {
		return err
	}
	return render.SelfCheck(out, report)
}

// runRank prints the candidate ranking of several resume files.
func runRank(ctx context.Context, analyzer *analysis.Analyzer, out io.Writer, skills string, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("rank needs at least one resume file")
	}
	docs := make([]analysis.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := fileDocument(p)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	ranking, err := analyzer.Rank(ctx, docs, skills)
	if err != nil {
		return err
	}
	return render.Ranking(out, ranking)
}
