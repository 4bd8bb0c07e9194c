// Package corpus loads training text for the BPE trainer: single files,
// or whole directories walked with .gitignore support and binary filtering.
package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/finchlabs/go-bpe-trainer/internal/errors"
)

// WalkStats describes what a directory walk saw and skipped.
type WalkStats struct {
	TotalFiles    int
	SkippedBinary int
	SkippedIgnore int
}

// LoadFile reads one text file as a single corpus document. Binary files
// are rejected.
func LoadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	isBinary, err := IsBinaryFile(path)
	if err != nil {
		return "", errors.IO("checking file", err).WithField("path", path)
	}
	if isBinary {
		return "", errors.Validation("binary files cannot be used as training text").WithField("path", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.IO("reading file", err).WithField("path", path)
	}
	return string(content), nil
}

// LoadDirectory walks root recursively and returns one corpus document per
// text file. The walk honors a .gitignore at the root, skips .git, and
// skips binary files. Context cancellation is checked between files.
func LoadDirectory(ctx context.Context, root string) ([]string, *WalkStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	stats := &WalkStats{}

	gitignoreFile := filepath.Join(root, ".gitignore")
	var gi *gitignore.GitIgnore
	if _, err := os.Stat(gitignoreFile); err == nil {
		gi, err = gitignore.CompileIgnoreFile(gitignoreFile)
		if err != nil {
			return nil, nil, errors.Parse("parsing .gitignore", err).WithField("path", gitignoreFile)
		}
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return err
		}

		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		stats.TotalFiles++

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if gi != nil && gi.MatchesPath(relPath) {
			stats.SkippedIgnore++
			return nil
		}

		isBinary, err := IsBinaryFile(path)
		if err != nil || isBinary {
			stats.SkippedBinary++
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, nil, errors.IO("walking directory", err).WithField("path", root)
	}

	documents := make([]string, 0, len(files))
	for _, file := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, errors.IO("reading file", err).WithField("path", file)
		}
		documents = append(documents, string(content))
	}

	return documents, stats, nil
}

// SplitLines turns documents into one corpus entry per non-empty line.
// Useful when each line of the input is an independent sample.
func SplitLines(documents []string) []string {
	var out []string
	for _, doc := range documents {
		for _, line := range strings.Split(doc, "\n") {
			line = strings.TrimRight(line, "\r")
			if line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}
