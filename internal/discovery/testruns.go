package discovery

import (
	"fmt"
	"path/filepath"
	"sort"

	"ddtest/internal/domain"
)

// FindTestRuns lists the .xctestrun descriptors produced by build-for-testing
// under derivedDataPath, sorted by name.
func FindTestRuns(derivedDataPath string) ([]domain.TestRunDescriptor, error) {
	paths, err := filepath.Glob(filepath.Join(derivedDataPath, "Build", "Products", "*.xctestrun"))
	if err != nil {
		return nil, fmt.Errorf("find test runs: %w", err)
	}
	sort.Strings(paths)

	runs := make([]domain.TestRunDescriptor, 0, len(paths))
	for _, p := range paths {
		runs = append(runs, domain.TestRunDescriptor{Path: p, Name: filepath.Base(p)})
	}
	return runs, nil
}
