package parser

import "ddtest/internal/domain"

// Parser extracts test outcomes from a test tool's output
type Parser interface {
	ParseTestCounts(result domain.CommandResult) (passed, failed int)
	ParseFailures(descriptor string, result domain.CommandResult) []domain.TestFailure
}
