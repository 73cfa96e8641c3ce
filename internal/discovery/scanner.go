package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// Scanner finds files matching glob patterns below a directory
type Scanner struct {
	patterns []string
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given patterns and directories to skip
func NewScanner(patterns []string, skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{patterns: patterns, skipDirs: skipMap}
}

// Scan returns every file under root whose root-relative path matches one of
// the patterns, in walk order.
func (s *Scanner) Scan(root string) ([]string, error) {
	var matches []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		ok, err := s.match(rel)
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})

	return matches, err
}

func (s *Scanner) match(rel string) (bool, error) {
	for _, pattern := range s.patterns {
		ok, err := doublestar.PathMatch(filepath.FromSlash(pattern), rel)
		if err != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
