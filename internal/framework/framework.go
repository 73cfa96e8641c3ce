// Package framework downloads the DatadogSDKTesting xcframework and writes
// the build settings that link test bundles against it.
package framework

import (
	"path/filepath"

	"ddtest/internal/config"
)

const (
	// Name is the framework and module name
	Name = "DatadogSDKTesting"

	archiveName = "dd_sdk_testing.zip"
	extractDir  = "dd_sdk_testing"
)

// Framework is an installed copy of the testing framework
type Framework struct {
	Version string
	Archive string
	// Root is the directory the archive was extracted into.
	Root string
}

// XCFrameworkPath returns the path of the .xcframework bundle
func (f Framework) XCFrameworkPath() string {
	return filepath.Join(f.Root, Name+".xcframework")
}

// SlicePath returns the directory holding the framework for a platform
func (f Framework) SlicePath(p config.Platform) string {
	return filepath.Join(f.XCFrameworkPath(), p.Slice)
}
