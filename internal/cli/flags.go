package cli

import "ddtest/internal/config"

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

	// Command specific, not part of the configuration
	OpenFailures bool
	Inject       bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ProjectPath:      f.ProjectPath,
		Workspace:        f.Workspace,
		Project:          f.Project,
		Scheme:           f.Scheme,
		Platform:         f.Platform,
		SDK:              f.SDK,
		Destination:      f.Destination,
		Configuration:    f.Configuration,
		ExtraParameters:  f.ExtraParameters,
		LibraryVersion:   f.LibraryVersion,
		APIKey:           f.APIKey,
		ApplicationKey:   f.ApplicationKey,
		DescriptorWriter: f.DescriptorWriter,
		EnvFile:          f.EnvFile,
		KeepWorkDir:      f.KeepWorkDir,
		Verbose:          f.Verbose,
	}
}
