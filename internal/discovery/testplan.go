package discovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

const (
	codeCoverageKey   = "codeCoverage"
	defaultOptionsKey = "defaultOptions"
	configurationsKey = "configurations"
	optionsKey        = "options"
)

// StripCoverage removes every codeCoverage override from a test plan so the
// coverage flag passed to xcodebuild applies. It reports whether anything
// was removed; the document is returned unchanged otherwise.
func StripCoverage(data []byte) ([]byte, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var plan map[string]any
	if err := dec.Decode(&plan); err != nil {
		return nil, false, fmt.Errorf("parse test plan: %w", err)
	}

	changed := deleteKey(plan[defaultOptionsKey], codeCoverageKey)
	if configs, ok := plan[configurationsKey].([]any); ok {
		for _, cfg := range configs {
			if m, ok := cfg.(map[string]any); ok {
				if deleteKey(m[optionsKey], codeCoverageKey) {
					changed = true
				}
			}
		}
	}
	if !changed {
		return data, false, nil
	}

	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, false, fmt.Errorf("encode test plan: %w", err)
	}
	return append(out, '\n'), true, nil
}

func deleteKey(node any, key string) bool {
	m, ok := node.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := m[key]; !ok {
		return false
	}
	delete(m, key)
	return true
}

// TestPlanEditor forces code coverage on in every test plan of a project
type TestPlanEditor struct {
	scanner *Scanner
	logger  *zap.Logger
}

// NewTestPlanEditor creates a new TestPlanEditor
func NewTestPlanEditor(scanner *Scanner, logger *zap.Logger) *TestPlanEditor {
	return &TestPlanEditor{scanner: scanner, logger: logger}
}

// StripCoverageOverrides edits every test plan under root and returns the
// plans that were rewritten. Plans that cannot be parsed are skipped with a
// warning.
func (e *TestPlanEditor) StripCoverageOverrides(root string) ([]string, error) {
	plans, err := e.scanner.Scan(root)
	if err != nil {
		return nil, fmt.Errorf("find test plans: %w", err)
	}

	var edited []string
	for _, plan := range plans {
		info, err := os.Stat(plan)
		if err != nil {
			return edited, err
		}
		data, err := os.ReadFile(plan)
		if err != nil {
			return edited, fmt.Errorf("read test plan %s: %w", plan, err)
		}
		out, changed, err := StripCoverage(data)
		if err != nil {
			e.logger.Warn("Skipping test plan", zap.String("plan", plan), zap.Error(err))
			continue
		}
		if !changed {
			continue
		}
		if err := os.WriteFile(plan, out, info.Mode().Perm()); err != nil {
			return edited, fmt.Errorf("write test plan %s: %w", plan, err)
		}
		e.logger.Info("Removed code coverage override", zap.String("plan", plan))
		edited = append(edited, plan)
	}
	return edited, nil
}
