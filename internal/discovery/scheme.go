package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ddtest/internal/domain"
	"ddtest/internal/process"
)

// ResolveScheme picks a scheme for the container: an exact name match, then
// the first candidate containing the name, then the first candidate. It
// returns "" only when there are no candidates.
func ResolveScheme(candidates []string, containerName string) string {
	if len(candidates) == 0 {
		return ""
	}
	for _, c := range candidates {
		if c == containerName {
			return c
		}
	}
	for _, c := range candidates {
		if strings.Contains(c, containerName) {
			return c
		}
	}
	return candidates[0]
}

// SchemeList is what xcodebuild reports for a workspace or project
type SchemeList struct {
	Name    string   `json:"name"`
	Schemes []string `json:"schemes"`
}

type listOutput struct {
	Workspace *SchemeList `json:"workspace"`
	Project   *SchemeList `json:"project"`
}

// SchemeLister asks xcodebuild for the schemes of a container
type SchemeLister struct {
	runner process.Runner
	logger *zap.Logger
}

// NewSchemeLister creates a new SchemeLister
func NewSchemeLister(runner process.Runner, logger *zap.Logger) *SchemeLister {
	return &SchemeLister{runner: runner, logger: logger}
}

// List runs `xcodebuild -list -json` for the selection.
func (l *SchemeLister) List(ctx context.Context, sel domain.BuildSelection) (SchemeList, error) {
	var stdout bytes.Buffer
	args := append(sel.XcodebuildArgs(), "-list", "-json")
	if _, err := l.runner.Run(ctx, process.Command{Name: "xcodebuild", Args: args, Capture: &stdout}); err != nil {
		return SchemeList{}, fmt.Errorf("list schemes: %w", err)
	}
	list, err := ParseSchemeList(stdout.Bytes())
	if err != nil {
		return SchemeList{}, err
	}
	l.logger.Debug("Available schemes", zap.String("container", list.Name), zap.Strings("schemes", list.Schemes))
	return list, nil
}

// ParseSchemeList decodes xcodebuild's -list -json output. Lines before the
// JSON document are ignored.
func ParseSchemeList(data []byte) (SchemeList, error) {
	if i := bytes.IndexByte(data, '{'); i > 0 {
		data = data[i:]
	}
	var out listOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return SchemeList{}, fmt.Errorf("parse xcodebuild -list output: %w", err)
	}
	switch {
	case out.Workspace != nil:
		return *out.Workspace, nil
	case out.Project != nil:
		return *out.Project, nil
	}
	return SchemeList{}, fmt.Errorf("xcodebuild -list output has neither workspace nor project")
}

// Scheme returns the explicit scheme when set, otherwise lists the
// container's schemes and resolves one.
func (l *SchemeLister) Scheme(ctx context.Context, sel domain.BuildSelection, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	list, err := l.List(ctx, sel)
	if err != nil {
		return "", domain.NewConfigurationError("unable to automatically select a scheme, set it explicitly: %v", err)
	}
	name := list.Name
	if name == "" {
		name = sel.ContainerName()
	}
	scheme := ResolveScheme(list.Schemes, name)
	if scheme == "" {
		return "", domain.NewConfigurationError("%s has no schemes", sel.Path)
	}
	return scheme, nil
}
