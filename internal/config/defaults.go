package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultPlatform is used when no platform is configured
	DefaultPlatform = "ios"
	// DefaultConfiguration is the default build configuration
	DefaultConfiguration = "Debug"
	// DefaultDescriptorWriter edits descriptors in-process
	DefaultDescriptorWriter = WriterNative
	// DefaultReportDir is the report directory, relative to the project
	DefaultReportDir = ".ddtest"
	// DefaultReportFile is the report file name
	DefaultReportFile = "last-run.json"
	// DefaultReleasesURL lists the testing framework releases
	DefaultReleasesURL = "https://api.github.com/repos/DataDog/dd-sdk-swift-testing/releases"
)

// Descriptor writer implementations
const (
	WriterNative = "native"
	WriterPlutil = "plutil"
)

// DefaultTestPlanPatterns are the globs used to find test plans
var DefaultTestPlanPatterns = []string{
	"**/*.xctestplan",
}

// DefaultPathsToIgnore are directories never searched for test plans
var DefaultPathsToIgnore = []string{
	".build",
	"Pods",
	"Carthage",
	"DerivedData",
}
