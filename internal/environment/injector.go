package environment

import (
	"context"

	"go.uber.org/zap"

	"ddtest/internal/descriptor"
	"ddtest/internal/domain"
)

// Injector writes resolved catalog variables into descriptor targets
type Injector struct {
	writer descriptor.FieldWriter
	logger *zap.Logger
}

// NewInjector creates a new Injector
func NewInjector(writer descriptor.FieldWriter, logger *zap.Logger) *Injector {
	return &Injector{writer: writer, logger: logger}
}

// Inject writes every variable into target's EnvironmentVariables map, one
// field write per variable, in the order given. The first failed write stops
// the injection and is reported as *domain.InjectionError.
func (in *Injector) Inject(ctx context.Context, file string, target descriptor.TargetPath, vars []Variable) error {
	for _, v := range vars {
		field := target.Field(descriptor.EnvironmentVariablesKey, v.Name)
		if err := in.writer.SetString(ctx, file, field, v.Value); err != nil {
			return &domain.InjectionError{Descriptor: file, Field: field, Err: err}
		}
	}
	in.logger.Debug("Injected environment",
		zap.String("descriptor", file),
		zap.String("target", string(target)),
		zap.Int("variables", len(vars)))
	return nil
}

// InjectAll injects vars into every target of a decoded descriptor and
// returns the targets that were written.
func (in *Injector) InjectAll(ctx context.Context, file string, root *descriptor.Value, vars []Variable) ([]descriptor.TargetPath, error) {
	var written []descriptor.TargetPath
	for target := range descriptor.Targets(root) {
		if err := in.Inject(ctx, file, target, vars); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}
