package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, map[string]string{
		"App.xctestplan":                          "{}",
		"Tests/Plans/Unit.xctestplan":             "{}",
		"Tests/Plans/readme.md":                   "",
		"Pods/Lib/Lib.xctestplan":                 "{}",
		".build/checkouts/Dep/Dep.xctestplan":     "{}",
		".swiftpm/xcode/Package.xctestplan":       "{}",
		"DerivedData/App/Build/Cached.xctestplan": "{}",
	})

	scanner := NewScanner([]string{"**/*.xctestplan"}, []string{"Pods", "DerivedData", ".build"})

	t.Run("finds plans outside skipped and hidden dirs", func(t *testing.T) {
		results, err := scanner.Scan(root)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(root, "App.xctestplan"),
			filepath.Join(root, "Tests", "Plans", "Unit.xctestplan"),
		}, results)
	})

	t.Run("narrow pattern", func(t *testing.T) {
		results, err := NewScanner([]string{"Tests/**/*.xctestplan"}, nil).Scan(root)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "Tests", "Plans", "Unit.xctestplan")}, results)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := scanner.Scan(filepath.Join(root, "missing"))
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("root is a file", func(t *testing.T) {
		_, err := scanner.Scan(filepath.Join(root, "App.xctestplan"))
		assert.ErrorContains(t, err, "not a directory")
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := NewScanner([]string{"[unterminated"}, nil).Scan(root)
		assert.Error(t, err)
	})
}
