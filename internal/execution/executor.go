package execution

import (
	"context"

	"ddtest/internal/domain"
)

// Executor runs the whole build and test pipeline and returns its report
type Executor interface {
	Run(ctx context.Context) (*domain.RunReport, error)
}
