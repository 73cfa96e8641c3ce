package framework

import (
	"fmt"
	"os"
	"strings"

	"ddtest/internal/config"
)

// XCConfigName is the file name of the generated build settings
const XCConfigName = "ddTesting.xcconfig"

// XCConfig renders build settings that add the framework to every supported
// SDK's search paths and link it into the test bundles.
func XCConfig(fw Framework) string {
	var b strings.Builder
	b.WriteString("// Configuration settings file format documentation can be found at:\n")
	b.WriteString("// https://help.apple.com/xcode/#/dev745c5c974\n\n")
	b.WriteString("DEBUG_INFORMATION_FORMAT = dwarf-with-dsym\n")
	for _, p := range config.Platforms() {
		slice := fw.SlicePath(p) + "/"
		fmt.Fprintf(&b, "FRAMEWORK_SEARCH_PATHS[sdk=%s*] = $(inherited) %q\n", p.SDK, slice)
		fmt.Fprintf(&b, "LD_RUNPATH_SEARCH_PATHS[sdk=%s*] = $(inherited) %q\n", p.SDK, slice)
	}
	fmt.Fprintf(&b, "OTHER_LDFLAGS = $(inherited) -framework %s\n", Name)
	return b.String()
}

// WriteXCConfig writes the build settings for fw to path.
func WriteXCConfig(path string, fw Framework) error {
	if err := os.WriteFile(path, []byte(XCConfig(fw)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", XCConfigName, err)
	}
	return nil
}
