package storage

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddtest/internal/config"
	"ddtest/internal/domain"
)

func TestJSONStorage_SaveLoad(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	st := NewJSONStorage(cfg)

	report := &domain.RunReport{
		RunID:     "0b7e",
		Mode:      domain.KindWorkspace,
		Selection: domain.BuildSelection{Kind: domain.KindWorkspace, Path: "/src/App.xcworkspace"},
		Scheme:    "App",
		Platform:  "ios",
		Descriptors: []domain.DescriptorResult{
			{
				Descriptor:     "/derived/Build/Products/App.xctestrun",
				Name:           "App.xctestrun",
				Targets:        []string{"AppTests"},
				InjectedFields: []string{"DD_TEST_RUNNER"},
				Failures: []domain.TestFailure{
					{TestName: "testLogin", Suite: "AppTests.LoginTests", Line: 3},
				},
			},
		},
	}

	require.NoError(t, st.Save(report))
	assert.FileExists(t, cfg.GetReportPath())

	loaded, err := st.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(report, loaded, cmpopts.IgnoreFields(domain.DescriptorResult{}, "Duration")); diff != "" {
		t.Errorf("report mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestJSONStorage_LoadErrors(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	st := NewJSONStorage(cfg)

	_, err := st.Load()
	assert.ErrorContains(t, err, "read report file")

	require.NoError(t, os.MkdirAll(cfg.ProjectPath+"/.ddtest", 0755))
	require.NoError(t, os.WriteFile(st.Path(), []byte("{"), 0644))
	_, err = st.Load()
	assert.ErrorContains(t, err, "parse report")
}
