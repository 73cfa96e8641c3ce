package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	userConfigDir     = ".config/ddtest"
	configFileName    = "config.yaml"
	projectConfigName = ".ddtest.yaml"
	actionInputPrefix = "INPUT_"
)

// For mocking in tests
var userHomeDir = homedir.Dir

// actionInputs maps GitHub Action input names to the config fields they set
var actionInputs = map[string]func(*Config, string){
	"workspace":        func(c *Config, v string) { c.Workspace = v },
	"project":          func(c *Config, v string) { c.Project = v },
	"scheme":           func(c *Config, v string) { c.Scheme = v },
	"platform":         func(c *Config, v string) { c.Platform = v },
	"sdk":              func(c *Config, v string) { c.SDK = v },
	"destination":      func(c *Config, v string) { c.Destination = v },
	"configuration":    func(c *Config, v string) { c.Configuration = v },
	"libraryVersion":   func(c *Config, v string) { c.LibraryVersion = v },
	"extraParameters":  func(c *Config, v string) { c.ExtraParameters = v },
	"api_key":          func(c *Config, v string) { c.APIKey = v },
	"application_key":  func(c *Config, v string) { c.ApplicationKey = v },
	"descriptorWriter": func(c *Config, v string) { c.DescriptorWriter = v },
	"envFile":          func(c *Config, v string) { c.EnvFile = v },
	"keepWorkDir": func(c *Config, v string) {
		if b, err := strconv.ParseBool(v); err == nil {
			c.KeepWorkDir = b
		}
	},
}

// Load builds the configuration by layering, later wins: defaults, the user
// config file, the project config file, GitHub Action inputs, then flags.
// getenv is used for Action inputs and GITHUB_TOKEN.
func Load(flags Flags, getenv func(string) string) (*Config, error) {
	cfg := New()

	if userPath, err := getUserConfigPath(); err == nil {
		if err := mergeFile(cfg, userPath); err != nil {
			return nil, err
		}
	}

	projectPath := flags.ProjectPath
	if projectPath == "" {
		projectPath = cfg.ProjectPath
	}
	if expanded, err := homedir.Expand(projectPath); err == nil {
		projectPath = expanded
	}
	if err := mergeFile(cfg, filepath.Join(projectPath, projectConfigName)); err != nil {
		return nil, err
	}

	cfg.ApplyActionInputs(getenv)
	cfg.ApplyFlags(flags)
	cfg.GitHubToken = getenv("GITHUB_TOKEN")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyActionInputs reads INPUT_<NAME> variables set by the Actions runner.
// Empty inputs are ignored.
func (c *Config) ApplyActionInputs(getenv func(string) string) {
	for name, set := range actionInputs {
		if v := strings.TrimSpace(getenv(ActionInputVariable(name))); v != "" {
			set(c, v)
		}
	}
}

// ActionInputVariable returns the environment variable the Actions runner
// uses for an input name.
func ActionInputVariable(name string) string {
	return actionInputPrefix + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

func getUserConfigPath() (string, error) {
	home, err := userHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, userConfigDir, configFileName), nil
}

// mergeFile overlays a YAML file onto cfg. A missing file is not an error.
func mergeFile(cfg *Config, path string) error {
	overlay, err := loadConfigFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error loading config from %s: %w", path, err)
	}
	mergeConfigs(cfg, overlay)
	return nil
}

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(path string) (Config, error) {
	var overlay Config
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Config{}, err
	}
	return overlay, nil
}

// mergeConfigs merges every non-zero field of overlay into base.
func mergeConfigs(base *Config, overlay Config) {
	setString(&base.ProjectPath, overlay.ProjectPath)
	setString(&base.Workspace, overlay.Workspace)
	setString(&base.Project, overlay.Project)
	setString(&base.Scheme, overlay.Scheme)
	setString(&base.Platform, overlay.Platform)
	setString(&base.SDK, overlay.SDK)
	setString(&base.Destination, overlay.Destination)
	setString(&base.Configuration, overlay.Configuration)
	setString(&base.ExtraParameters, overlay.ExtraParameters)
	setString(&base.LibraryVersion, overlay.LibraryVersion)
	setString(&base.ReleasesURL, overlay.ReleasesURL)
	setString(&base.DescriptorWriter, overlay.DescriptorWriter)
	setString(&base.EnvFile, overlay.EnvFile)
	setString(&base.ReportDir, overlay.ReportDir)
	setString(&base.WorkDir, overlay.WorkDir)
	if len(overlay.TestPlanPatterns) > 0 {
		base.TestPlanPatterns = overlay.TestPlanPatterns
	}
	if len(overlay.PathsToIgnore) > 0 {
		base.PathsToIgnore = overlay.PathsToIgnore
	}
	base.KeepWorkDir = base.KeepWorkDir || overlay.KeepWorkDir
	base.Verbose = base.Verbose || overlay.Verbose
}
