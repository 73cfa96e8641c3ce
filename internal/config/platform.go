package config

import "strings"

// Platform describes how to build and test for one Apple platform
type Platform struct {
	Name        string
	SDK         string
	Destination string
	// Slice is the xcframework slice directory for the platform.
	Slice string
}

var (
	platformIOS = Platform{
		Name:        "ios",
		SDK:         "iphonesimulator",
		Destination: "platform=iOS Simulator,name=iPhone 11",
		Slice:       "ios-arm64_x86_64-simulator",
	}
	platformMacOS = Platform{
		Name:        "macos",
		SDK:         "macosx",
		Destination: "platform=macOS,arch=x86_64",
		Slice:       "macos-arm64_x86_64",
	}
	platformTVOS = Platform{
		Name:        "tvos",
		SDK:         "appletvsimulator",
		Destination: "platform=tvOS Simulator,name=Apple TV 4K",
		Slice:       "tvos-arm64_x86_64-simulator",
	}
)

var platformsByName = map[string]Platform{
	"ios":   platformIOS,
	"macos": platformMacOS,
	"mac":   platformMacOS,
	"tvos":  platformTVOS,
}

// LookupPlatform finds a platform by case-insensitive name. Unknown names
// resolve to iOS with ok=false.
func LookupPlatform(name string) (Platform, bool) {
	p, ok := platformsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return platformIOS, false
	}
	return p, true
}

// Platforms returns every supported platform once, in a stable order.
func Platforms() []Platform {
	return []Platform{platformMacOS, platformIOS, platformTVOS}
}
