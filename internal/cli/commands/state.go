package commands

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"ddtest/internal/cli"
	"ddtest/internal/config"
	"ddtest/internal/descriptor"
	"ddtest/internal/environment"
	"ddtest/internal/logging"
	"ddtest/internal/process"
)

// State is filled in by the root command before any subcommand runs
type State struct {
	Config *config.Config
	Logger *zap.Logger

	environ func() []string
	getenv  func(string) string
}

// NewState creates an empty State reading the process environment
func NewState() *State {
	return &State{environ: os.Environ, getenv: os.Getenv}
}

// Setup loads the configuration and builds the logger
func (s *State) Setup(flags *cli.Flags) error {
	cfg, err := config.Load(flags.ToConfigFlags(), s.getenv)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	s.Config = cfg
	s.Logger = logger
	return nil
}

// Sync flushes the logger
func (s *State) Sync() {
	if s.Logger != nil {
		_ = s.Logger.Sync()
	}
}

func (s *State) processRunner() *process.ExecRunner {
	return process.NewExecRunner(s.Logger, process.DefaultTailLines)
}

// snapshot captures the environment once: process variables, then the
// dotenv file for anything unset, then credentials given as flags or inputs.
func (s *State) snapshot() (environment.Snapshot, error) {
	snap := environment.FromEnviron(s.environ())
	if path := s.Config.GetEnvFile(); path != "" {
		var err error
		snap, err = snap.WithDotenv(path)
		if err != nil {
			return snap, fmt.Errorf("read env file %s: %w", path, err)
		}
	}
	return snap.WithOverrides(map[string]string{
		environment.APIKey:         s.Config.APIKey,
		environment.ApplicationKey: s.Config.ApplicationKey,
	}), nil
}

func (s *State) fieldWriter() descriptor.FieldWriter {
	if s.Config.DescriptorWriter == config.WriterPlutil {
		return descriptor.NewPlutilWriter(s.processRunner())
	}
	return descriptor.NewNativeWriter()
}
