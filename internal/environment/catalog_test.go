package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Shape(t *testing.T) {
	names := DefaultCatalog.Names()

	assert.Len(t, PassthroughNames, 36)
	assert.Len(t, names, 38)
	assert.Equal(t, TestRunner, names[0])
	assert.Equal(t, SourceRoot, names[1])

	seen := make(map[string]bool)
	for _, n := range names {
		assert.False(t, seen[n], "duplicate catalog entry %s", n)
		seen[n] = true
	}
}

func TestCatalog_Resolve(t *testing.T) {
	snap := FromMap(map[string]string{
		"GITHUB_WORKSPACE":  "/work/app",
		"GITHUB_RUN_ID":     "42",
		"GITHUB_RUN_NUMBER": "7",
		"DD_SERVICE":        "shop",
		"DD_TAGS":           "",
		"UNRELATED":         "ignored",
	})

	got := DefaultCatalog.Resolve(snap)
	want := []Variable{
		{Name: TestRunner, Value: "1"},
		{Name: SourceRoot, Value: "/work/app"},
		{Name: GitHubWorkspace, Value: "/work/app"},
		{Name: "GITHUB_RUN_ID", Value: "42"},
		{Name: "GITHUB_RUN_NUMBER", Value: "7"},
		{Name: "DD_SERVICE", Value: "shop"},
	}
	assert.Equal(t, want, got)
}

func TestCatalog_ResolveIsDeterministic(t *testing.T) {
	snap := FromEnviron([]string{"DD_SITE=datadoghq.eu", "DD_ENV=ci", "GITHUB_SHA=abc"})
	first := DefaultCatalog.Resolve(snap)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DefaultCatalog.Resolve(snap))
	}
}

func TestSnapshot(t *testing.T) {
	snap := FromEnviron([]string{"A=1", "B=x=y", "malformed", "=nokey", "EMPTY="})

	assert.Equal(t, "1", snap.Get("A"))
	assert.Equal(t, "x=y", snap.Get("B"))
	_, ok := snap.Lookup("malformed")
	assert.False(t, ok)
	v, ok := snap.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	t.Run("overrides win when non-empty", func(t *testing.T) {
		over := snap.WithOverrides(map[string]string{"A": "2", "B": ""})
		assert.Equal(t, "2", over.Get("A"))
		assert.Equal(t, "x=y", over.Get("B"))
		assert.Equal(t, "1", snap.Get("A"), "original snapshot is not modified")
	})

	t.Run("dotenv fills gaps only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("A=from-file\nDD_SERVICE=from-file\n"), 0644))

		merged, err := snap.WithDotenv(path)
		require.NoError(t, err)
		assert.Equal(t, "1", merged.Get("A"))
		assert.Equal(t, "from-file", merged.Get("DD_SERVICE"))
	})

	t.Run("missing dotenv is an error", func(t *testing.T) {
		_, err := snap.WithDotenv(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("environ is sorted", func(t *testing.T) {
		assert.Equal(t, []string{"A=1", "B=x=y", "EMPTY="}, snap.Environ())
	})
}

func TestMergeEnviron(t *testing.T) {
	base := []string{"PATH=/bin", "DD_TEST_RUNNER=0", "HOME=/root"}
	merged := MergeEnviron(base, []Variable{{Name: TestRunner, Value: "1"}, {Name: SourceRoot, Value: "/src"}})
	assert.Equal(t, []string{"PATH=/bin", "HOME=/root", "DD_TEST_RUNNER=1", "SRCROOT=/src"}, merged)
}
