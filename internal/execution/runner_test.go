package execution

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ddtest/internal/config"
	"ddtest/internal/domain"
)

func TestBuildForTestingArgs(t *testing.T) {
	cfg := config.New()
	sel := domain.BuildSelection{Kind: domain.KindWorkspace, Path: "/src/App.xcworkspace"}

	got := BuildForTestingArgs(cfg, sel, "App", "/tmp/w/ddTesting.xcconfig", "/tmp/w/DerivedData", []string{"-quiet"})
	want := []string{
		"build-for-testing", "-enableCodeCoverage", "YES",
		"-xcconfig", "/tmp/w/ddTesting.xcconfig",
		"-workspace", "/src/App.xcworkspace",
		"-configuration", "Debug",
		"-scheme", "App",
		"-sdk", "iphonesimulator",
		"-derivedDataPath", "/tmp/w/DerivedData",
		"-destination", "platform=iOS Simulator,name=iPhone 11",
		"-quiet",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildForTestingArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildForTestingArgs_Overrides(t *testing.T) {
	cfg := config.New()
	cfg.Platform = "tvos"
	cfg.Configuration = "Release"
	cfg.Destination = "id=1234"
	sel := domain.BuildSelection{Kind: domain.KindProject, Path: "App.xcodeproj"}

	got := BuildForTestingArgs(cfg, sel, "App", "x.xcconfig", "dd", nil)
	want := []string{
		"build-for-testing", "-enableCodeCoverage", "YES",
		"-xcconfig", "x.xcconfig",
		"-project", "App.xcodeproj",
		"-configuration", "Release",
		"-scheme", "App",
		"-sdk", "appletvsimulator",
		"-derivedDataPath", "dd",
		"-destination", "id=1234",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildForTestingArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestTestWithoutBuildingArgs(t *testing.T) {
	cfg := config.New()
	cfg.Platform = "macos"

	got := TestWithoutBuildingArgs(cfg, "/dd/Build/Products/App.xctestrun", []string{"-parallel-testing-enabled", "NO"})
	want := []string{
		"test-without-building", "-enableCodeCoverage", "YES",
		"-xctestrun", "/dd/Build/Products/App.xctestrun",
		"-destination", "platform=macOS,arch=x86_64",
		"-parallel-testing-enabled", "NO",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TestWithoutBuildingArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestSwiftTestArgs(t *testing.T) {
	slice := "/w/dd_sdk_testing/DatadogSDKTesting.xcframework/macos-arm64_x86_64"

	got := SwiftTestArgs(slice, nil)
	want := []string{
		"test", "--enable-code-coverage",
		"-Xswiftc", "-F" + slice,
		"-Xswiftc", "-framework", "-Xswiftc", "DatadogSDKTesting",
		"-Xlinker", "-rpath", "-Xlinker", slice,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SwiftTestArgs mismatch (-want +got):\n%s", diff)
	}
}
