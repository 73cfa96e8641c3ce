package descriptor

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"

	"ddtest/internal/domain"
	"ddtest/internal/process"
)

func copyFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func readRaw(t *testing.T, path string) (map[string]any, int) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var root map[string]any
	format, err := plist.Unmarshal(data, &root)
	require.NoError(t, err)
	return root, format
}

func envOf(t *testing.T, root *Value, target TargetPath) *Value {
	t.Helper()
	node := root
	for _, seg := range splitKeyPath(target.Field(EnvironmentVariablesKey)) {
		if idx, err := strconv.Atoi(seg); err == nil {
			node, _ = node.Index(idx)
			continue
		}
		node, _ = node.Get(seg)
	}
	return node
}

func TestNativeWriter_SetString(t *testing.T) {
	ctx := context.Background()
	w := NewNativeWriter()

	t.Run("writes into existing environment map", func(t *testing.T) {
		path := copyFixture(t, "App.xctestrun")
		require.NoError(t, w.SetString(ctx, path, "AppTests.EnvironmentVariables.DD_SERVICE", "shop"))

		root, err := Decode(path)
		require.NoError(t, err)
		env := envOf(t, root, "AppTests")
		v, _ := env.Get("DD_SERVICE")
		s, _ := v.AsString()
		assert.Equal(t, "shop", s)
		// untouched neighbours survive
		mode, _ := env.Get("OS_ACTIVITY_DT_MODE")
		s, _ = mode.AsString()
		assert.Equal(t, "YES", s)
	})

	t.Run("creates missing environment map", func(t *testing.T) {
		path := copyFixture(t, "App.xctestrun")
		require.NoError(t, w.SetString(ctx, path, "AppUITests.EnvironmentVariables.DD_TEST_RUNNER", "1"))

		root, err := Decode(path)
		require.NoError(t, err)
		v, ok := envOf(t, root, "AppUITests").Get("DD_TEST_RUNNER")
		require.True(t, ok)
		s, _ := v.AsString()
		assert.Equal(t, "1", s)
	})

	t.Run("addresses nested test targets by index", func(t *testing.T) {
		path := copyFixture(t, "App_TestPlan.xctestrun")
		target := TargetPath("TestConfigurations.1.TestTargets.0")
		require.NoError(t, w.SetString(ctx, path, target.Field(EnvironmentVariablesKey, "DD_SITE"), "datadoghq.eu"))

		root, err := Decode(path)
		require.NoError(t, err)
		v, ok := envOf(t, root, target).Get("DD_SITE")
		require.True(t, ok)
		s, _ := v.AsString()
		assert.Equal(t, "datadoghq.eu", s)

		untouched := envOf(t, root, "TestConfigurations.0.TestTargets.0")
		assert.False(t, untouched.Has("DD_SITE"))
	})

	t.Run("index out of range fails", func(t *testing.T) {
		path := copyFixture(t, "App_TestPlan.xctestrun")
		err := w.SetString(ctx, path, "TestConfigurations.7.TestTargets.0.EnvironmentVariables.X", "1")
		assert.Error(t, err)
	})

	t.Run("descending into a scalar fails", func(t *testing.T) {
		path := copyFixture(t, "App.xctestrun")
		err := w.SetString(ctx, path, "AppTests.BlueprintName.EnvironmentVariables.X", "1")
		assert.Error(t, err)
	})

	t.Run("malformed file fails", func(t *testing.T) {
		path := copyFixture(t, "broken.xctestrun")
		assert.Error(t, w.SetString(ctx, path, "A.EnvironmentVariables.X", "1"))
	})

	t.Run("keeps non-string leaves typed", func(t *testing.T) {
		path := copyFixture(t, "App.xctestrun")
		require.NoError(t, w.SetString(ctx, path, "AppTests.EnvironmentVariables.DD_TAGS", "team:ios"))

		raw, format := readRaw(t, path)
		assert.Equal(t, plist.XMLFormat, format)
		meta := raw["__xctestrun_metadata__"].(map[string]any)
		assert.Equal(t, uint64(1), meta["FormatVersion"])
		ui := raw["AppUITests"].(map[string]any)
		assert.Equal(t, true, ui["IsUITestBundle"])
	})
}

func TestNativeWriter_PreservesBinaryFormat(t *testing.T) {
	doc := map[string]any{
		"AppTests": map[string]any{
			"EnvironmentVariables": map[string]any{},
		},
	}
	data, err := plist.Marshal(doc, plist.BinaryFormat)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "App.xctestrun")
	require.NoError(t, os.WriteFile(path, data, 0600))

	require.NoError(t, NewNativeWriter().SetString(context.Background(), path, "AppTests.EnvironmentVariables.DD_ENV", "ci"))

	raw, format := readRaw(t, path)
	assert.Equal(t, plist.BinaryFormat, format)
	env := raw["AppTests"].(map[string]any)["EnvironmentVariables"].(map[string]any)
	assert.Equal(t, "ci", env["DD_ENV"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNativeWriter_Idempotent(t *testing.T) {
	ctx := context.Background()
	w := NewNativeWriter()
	once := copyFixture(t, "App_TestPlan.xctestrun")
	twice := filepath.Join(t.TempDir(), "twice.xctestrun")
	data, err := os.ReadFile(once)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(twice, data, 0644))

	fields := map[string]string{
		"TestConfigurations.0.TestTargets.1.EnvironmentVariables.DD_TEST_RUNNER": "1",
		"TestConfigurations.0.TestTargets.1.EnvironmentVariables.DD_SERVICE":     "shop",
	}
	for k, v := range fields {
		require.NoError(t, w.SetString(ctx, once, k, v))
	}
	for i := 0; i < 2; i++ {
		for k, v := range fields {
			require.NoError(t, w.SetString(ctx, twice, k, v))
		}
	}

	a, _ := readRaw(t, once)
	b, _ := readRaw(t, twice)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("applying twice changed the result (-once +twice):\n%s", diff)
	}
}

func TestNativeWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := copyFixture(t, "App.xctestrun")
	assert.ErrorIs(t, NewNativeWriter().SetString(ctx, path, "AppTests.EnvironmentVariables.X", "1"), context.Canceled)
}

type recordingRunner struct {
	commands []process.Command
	err      error
}

func (r *recordingRunner) Run(ctx context.Context, cmd process.Command) (domain.CommandResult, error) {
	r.commands = append(r.commands, cmd)
	return domain.CommandResult{Success: r.err == nil, Error: r.err}, r.err
}

func TestPlutilWriter_SetString(t *testing.T) {
	runner := &recordingRunner{}
	w := NewPlutilWriter(runner)

	require.NoError(t, w.SetString(context.Background(), "/tmp/App.xctestrun", "AppTests.EnvironmentVariables.DD_API_KEY", "secret"))
	require.Len(t, runner.commands, 1)

	cmd := runner.commands[0]
	assert.Equal(t, "plutil", cmd.Name)
	assert.Equal(t, []string{"-replace", "AppTests.EnvironmentVariables.DD_API_KEY", "-string", "secret", "/tmp/App.xctestrun"}, cmd.Args)
	assert.True(t, cmd.Sensitive)
	assert.NotContains(t, cmd.String(), "secret")

	runner.err = &domain.ExternalToolError{Command: "plutil", ExitCode: 1}
	assert.Error(t, w.SetString(context.Background(), "/tmp/App.xctestrun", "X.EnvironmentVariables.Y", "z"))
}
