package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ddtest/internal/domain"
)

const packageManifest = "Package.swift"

// SelectProject chooses what to build, in order of precedence: the explicit
// workspace, the explicit project, the first *.xcworkspace in dir, the first
// *.xcodeproj in dir, then Package.swift. Relative explicit paths are
// resolved against dir.
func SelectProject(dir, workspace, project string) (domain.BuildSelection, error) {
	if workspace != "" {
		return domain.BuildSelection{Kind: domain.KindWorkspace, Path: resolve(dir, workspace)}, nil
	}
	if project != "" {
		return domain.BuildSelection{Kind: domain.KindProject, Path: resolve(dir, project)}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.BuildSelection{}, fmt.Errorf("read project directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if name, ok := firstWithSuffix(names, ".xcworkspace"); ok {
		return domain.BuildSelection{Kind: domain.KindWorkspace, Path: filepath.Join(dir, name)}, nil
	}
	if name, ok := firstWithSuffix(names, ".xcodeproj"); ok {
		return domain.BuildSelection{Kind: domain.KindProject, Path: filepath.Join(dir, name)}, nil
	}
	if _, err := os.Stat(filepath.Join(dir, packageManifest)); err == nil {
		return domain.BuildSelection{Kind: domain.KindSwiftPackage, Path: filepath.Join(dir, packageManifest)}, nil
	}

	return domain.BuildSelection{}, domain.NewConfigurationError(
		"unable to find workspace, project or Swift package in %s; set workspace or project explicitly", dir)
}

func firstWithSuffix(names []string, suffix string) (string, bool) {
	for _, name := range names {
		if strings.HasSuffix(name, suffix) {
			return name, true
		}
	}
	return "", false
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
