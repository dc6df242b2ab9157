package generator

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/frherrer/tcgen/internal/config"
	"github.com/frherrer/tcgen/internal/domain"
	"github.com/frherrer/tcgen/internal/export"
	"github.com/frherrer/tcgen/internal/scanner"
)

// FileExtractor reads a requirement document as plain text.
type FileExtractor interface {
	ExtractFile(path string) (string, error)
}

// Batch generates test cases for every requirement document found under the
// configured input directories, one output set per document.
type Batch struct {
	scanner   scanner.Scanner
	extractor FileExtractor
	gen       Generator
	log       *logrus.Logger
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Documents int
	Skipped   []string
	Written   []string
}

// NewBatch creates a Batch.
func NewBatch(s scanner.Scanner, x FileExtractor, g Generator, log *logrus.Logger) *Batch {
	return &Batch{scanner: s, extractor: x, gen: g, log: log}
}

// Run scans, extracts, generates and exports. Unreadable or empty documents
// are skipped with a warning; model failures stop the run.
func (b *Batch) Run(ctx context.Context, cfg *config.Config) (*BatchResult, error) {
	var files []string
	for _, dir := range cfg.Input.Directories {
		b.log.Debugf("Scanning directory: %s", dir)
		found, err := b.scanner.Scan(dir, cfg.Input.Include, cfg.Input.Exclude)
		if err != nil {
			b.log.Warnf("Failed to scan directory %s: %v", dir, err)
			continue
		}
		files = append(files, found...)
	}

	res := &BatchResult{}
	if len(files) == 0 {
		b.log.Warn("No requirement documents found")
		return res, nil
	}
	b.log.Infof("Found %d requirement document(s)", len(files))

	for _, path := range files {
		text, err := b.extractor.ExtractFile(path)
		if err != nil {
			b.log.Warnf("Skipping %s: %v", path, err)
			res.Skipped = append(res.Skipped, path)
			continue
		}

		req, err := RequestFromConfig(cfg, text)
		if err != nil {
			return res, err
		}

		if cfg.DryRun {
			t := b.gen.Budget(req)
			b.log.Infof("[DRY-RUN] %s: %d requirement token(s), max_tokens %d", path, t.RequirementTokens, t.MaxTokens)
			res.Documents++
			continue
		}

		s, err := b.gen.Generate(ctx, req)
		if errors.Is(err, domain.ErrInput) {
			b.log.Warnf("Skipping %s: %v", path, err)
			res.Skipped = append(res.Skipped, path)
			continue
		}
		if err != nil {
			return res, err
		}
		res.Documents++

		written, err := export.WriteFiles(cfg.Output.Directory, cfg.Output.FilePrefix, stem(path),
			cfg.Output.Formats, s, cfg.Output.StepsSheet)
		res.Written = append(res.Written, written...)
		if err != nil {
			return res, err
		}
		for _, w := range written {
			b.log.Infof("Writing: %s", w)
		}
	}

	b.log.Info("Generation complete")
	return res, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
