package domain

import (
	"path/filepath"
	"strings"
)

// ProjectKind identifies how the project under test is built
type ProjectKind string

const (
	KindWorkspace    ProjectKind = "workspace"
	KindProject      ProjectKind = "project"
	KindSwiftPackage ProjectKind = "swift-package"
)

// BuildSelection is the one buildable container chosen for the run
type BuildSelection struct {
	Kind ProjectKind `json:"kind"`
	Path string      `json:"path"` // Workspace/project path, or Package.swift
}

// ContainerName returns the workspace/project name without its extension.
func (s BuildSelection) ContainerName() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// XcodebuildArgs returns the -workspace/-project selector arguments.
// Swift packages have no selector.
func (s BuildSelection) XcodebuildArgs() []string {
	switch s.Kind {
	case KindWorkspace:
		return []string{"-workspace", s.Path}
	case KindProject:
		return []string{"-project", s.Path}
	}
	return nil
}

// TestRunDescriptor is an .xctestrun file produced by build-for-testing
type TestRunDescriptor struct {
	Path string // Full path to the descriptor file
	Name string // Just the filename
}
