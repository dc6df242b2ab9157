package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frherrer/tcgen/internal/domain"
)

// Scanner discovers requirement documents for batch generation.
type Scanner interface {
	Scan(rootDir string, patterns []string, excludes []string) ([]string, error)
}

// FileScanner implements Scanner using filepath.WalkDir.
type FileScanner struct {
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive}
}

// Scan walks rootDir and returns sorted paths of regular files matching any
// include pattern and no exclude pattern. Patterns are matched against the
// path relative to rootDir and against the base name.
func (s *FileScanner) Scan(rootDir string, patterns []string, excludes []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if !s.Recursive || matchAny(rel, excludes) || matchAny(rel+string(filepath.Separator), excludes) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || matchAny(rel, excludes) {
			return nil
		}
		if matchAny(rel, patterns) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewErrorWithSuggestion(domain.KindScan, rootDir,
			"failed to scan directory",
			"check input.directories in tcgen.yaml",
			err)
	}

	sort.Strings(files)
	return files, nil
}

func matchAny(path string, patterns []string) bool {
	for _, p := range patterns {
		if matchGlob(path, p) {
			return true
		}
	}
	return false
}

// matchGlob matches a path against a glob pattern, supporting ** for any
// number of directories.
func matchGlob(path, pattern string) bool {
	sep := string(filepath.Separator)
	if head, tail, ok := strings.Cut(pattern, "**"); ok {
		head = strings.TrimSuffix(head, sep)
		tail = strings.TrimPrefix(tail, sep)

		if head != "" {
			if path != head && !strings.HasPrefix(path, head+sep) {
				return false
			}
			path = strings.TrimPrefix(strings.TrimPrefix(path, head), sep)
		}
		if tail == "" {
			return true
		}

		parts := strings.Split(path, sep)
		for i := range parts {
			if ok, _ := filepath.Match(tail, strings.Join(parts[i:], sep)); ok {
				return true
			}
		}
		return false
	}

	if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
		return true
	}
	ok, _ := filepath.Match(pattern, path)
	return ok
}
