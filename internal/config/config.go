package config

import (
	"path/filepath"

	"github.com/google/shlex"
	"github.com/mitchellh/go-homedir"

	"ddtest/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `yaml:"project_path"`
	Workspace   string `yaml:"workspace"`
	Project     string `yaml:"project"`
	Scheme      string `yaml:"scheme"`

	// Build settings
	Platform        string `yaml:"platform"`
	SDK             string `yaml:"sdk"`
	Destination     string `yaml:"destination"`
	Configuration   string `yaml:"configuration"`
	ExtraParameters string `yaml:"extra_parameters"`

	// Testing framework
	LibraryVersion string `yaml:"library_version"`
	ReleasesURL    string `yaml:"releases_url"`

	// Credentials are never read from config files.
	APIKey         string `yaml:"-"`
	ApplicationKey string `yaml:"-"`
	GitHubToken    string `yaml:"-"`

	// Descriptor handling
	DescriptorWriter string   `yaml:"descriptor_writer"`
	EnvFile          string   `yaml:"env_file"`
	TestPlanPatterns []string `yaml:"test_plan_patterns"`
	PathsToIgnore    []string `yaml:"paths_to_ignore"`

	// Output and housekeeping
	ReportDir   string `yaml:"report_dir"`
	WorkDir     string `yaml:"work_dir"`
	KeepWorkDir bool   `yaml:"keep_work_dir"`
	Verbose     bool   `yaml:"verbose"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// Flags holds command-line flags
type Flags struct {
	ProjectPath      string
	Workspace        string
	Project          string
	Scheme           string
	Platform         string
	SDK              string
	Destination      string
	Configuration    string
	ExtraParameters  string
	LibraryVersion   string
	APIKey           string
	ApplicationKey   string
	DescriptorWriter string
	EnvFile          string
	KeepWorkDir      bool
	Verbose          bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:      DefaultProjectPath,
		Platform:         DefaultPlatform,
		Configuration:    DefaultConfiguration,
		ReleasesURL:      DefaultReleasesURL,
		DescriptorWriter: DefaultDescriptorWriter,
		ReportDir:        DefaultReportDir,
	}
	cfg.TestPlanPatterns = append([]string(nil), DefaultTestPlanPatterns...)
	cfg.PathsToIgnore = append([]string(nil), DefaultPathsToIgnore...)
	return cfg
}

// ApplyFlags overrides the config with every flag that was set
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	setString(&c.ProjectPath, flags.ProjectPath)
	setString(&c.Workspace, flags.Workspace)
	setString(&c.Project, flags.Project)
	setString(&c.Scheme, flags.Scheme)
	setString(&c.Platform, flags.Platform)
	setString(&c.SDK, flags.SDK)
	setString(&c.Destination, flags.Destination)
	setString(&c.Configuration, flags.Configuration)
	setString(&c.ExtraParameters, flags.ExtraParameters)
	setString(&c.LibraryVersion, flags.LibraryVersion)
	setString(&c.APIKey, flags.APIKey)
	setString(&c.ApplicationKey, flags.ApplicationKey)
	setString(&c.DescriptorWriter, flags.DescriptorWriter)
	setString(&c.EnvFile, flags.EnvFile)
	c.KeepWorkDir = c.KeepWorkDir || flags.KeepWorkDir
	c.Verbose = c.Verbose || flags.Verbose
}

// GetPlatform returns the configured platform, iOS when unknown
func (c *Config) GetPlatform() Platform {
	p, _ := LookupPlatform(c.Platform)
	return p
}

// GetSDK returns the explicit SDK or the platform default
func (c *Config) GetSDK() string {
	if c.SDK != "" {
		return c.SDK
	}
	return c.GetPlatform().SDK
}

// GetDestination returns the explicit destination or the platform default
func (c *Config) GetDestination() string {
	if c.Destination != "" {
		return c.Destination
	}
	return c.GetPlatform().Destination
}

// ExtraArgs splits ExtraParameters with shell quoting rules.
func (c *Config) ExtraArgs() ([]string, error) {
	if c.ExtraParameters == "" {
		return nil, nil
	}
	args, err := shlex.Split(c.ExtraParameters)
	if err != nil {
		return nil, domain.NewConfigurationError("invalid extra parameters %q: %v", c.ExtraParameters, err)
	}
	return args, nil
}

// GetProjectPath returns the absolute project directory, with ~ expanded.
func (c *Config) GetProjectPath() string {
	p, err := homedir.Expand(c.ProjectPath)
	if err != nil {
		p = c.ProjectPath
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetReportPath returns the full path of the run report. Run and failures
// resolve the same file regardless of cwd.
func (c *Config) GetReportPath() string {
	dir := c.ReportDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.GetProjectPath(), dir)
	}
	return filepath.Join(dir, DefaultReportFile)
}

// GetEnvFile returns the dotenv path with ~ expanded, or "" when unset.
func (c *Config) GetEnvFile() string {
	if c.EnvFile == "" {
		return ""
	}
	p, err := homedir.Expand(c.EnvFile)
	if err != nil {
		return c.EnvFile
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.GetProjectPath(), p)
	}
	return p
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	switch c.DescriptorWriter {
	case WriterNative, WriterPlutil:
	default:
		return domain.NewConfigurationError("unknown descriptor writer %q (want %s or %s)", c.DescriptorWriter, WriterNative, WriterPlutil)
	}
	if c.Configuration == "" {
		return domain.NewConfigurationError("build configuration must not be empty")
	}
	if c.ReleasesURL == "" {
		return domain.NewConfigurationError("releases URL must not be empty")
	}
	if _, err := c.ExtraArgs(); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
