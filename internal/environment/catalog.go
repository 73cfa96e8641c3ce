// Package environment holds the catalog of variables handed to the testing
// framework and writes them into test-run descriptors.
package environment

import "strings"

const (
	APIKey          = "DD_API_KEY"
	ApplicationKey  = "DD_APPLICATION_KEY"
	TestRunner      = "DD_TEST_RUNNER"
	SourceRoot      = "SRCROOT"
	GitHubWorkspace = "GITHUB_WORKSPACE"
)

// Variable is a resolved catalog entry
type Variable struct {
	Name  string
	Value string
}

// Entry is one catalog item: a variable name and how its value is obtained
type Entry struct {
	Name    string
	resolve func(Snapshot) string
}

// Resolve returns the entry's value for the snapshot, possibly empty.
func (e Entry) Resolve(s Snapshot) string {
	return e.resolve(s)
}

// Catalog is an ordered list of entries. Order is fixed so that repeated runs
// produce identical descriptors.
type Catalog []Entry

func constant(name, value string) Entry {
	return Entry{Name: name, resolve: func(Snapshot) string { return value }}
}

func alias(name, source string) Entry {
	return Entry{Name: name, resolve: func(s Snapshot) string { return s.Get(source) }}
}

func passthrough(names ...string) []Entry {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, alias(name, name))
	}
	return entries
}

// bootstrap entries are computed, not read verbatim.
var bootstrap = []Entry{
	constant(TestRunner, "1"),
	alias(SourceRoot, GitHubWorkspace),
}

// PassthroughNames are read from the environment and passed on verbatim.
var PassthroughNames = []string{
	// credentials
	APIKey,
	ApplicationKey,

	// CI provenance
	GitHubWorkspace,
	"GITHUB_REPOSITORY",
	"GITHUB_SERVER_URL",
	"GITHUB_SHA",
	"GITHUB_RUN_ID",
	"GITHUB_RUN_NUMBER",
	"GITHUB_WORKFLOW",
	"GITHUB_HEAD_REF",
	"GITHUB_REF",

	// product configuration
	"DD_SERVICE",
	"DD_TAGS",
	"DD_DISABLE_TEST_INSTRUMENTING",
	"DD_DISABLE_NETWORK_INSTRUMENTATION",
	"DD_DISABLE_HEADERS_INJECTION",
	"DD_INSTRUMENTATION_EXTRA_HEADERS",
	"DD_EXCLUDED_URLS",
	"DD_ENABLE_RECORD_PAYLOAD",
	"DD_DISABLE_NETWORK_CALL_STACK",
	"DD_ENABLE_NETWORK_CALL_STACK_SYMBOLICATED",
	"DD_DISABLE_RUM_INTEGRATION",
	"DD_MAX_PAYLOAD_SIZE",
	"DD_CIVISIBILITY_LOGS_ENABLED",
	"DD_ENABLE_STDOUT_INSTRUMENTATION",
	"DD_ENABLE_STDERR_INSTRUMENTATION",
	"DD_DISABLE_SDKIOS_INTEGRATION",
	"DD_DISABLE_CRASH_HANDLER",
	"DD_SITE",
	"DD_ENDPOINT",
	"DD_DONT_EXPORT",
	"DD_TRACE_DEBUG",
	"DD_DISABLE_GIT_INFORMATION",
	"DD_CIVISIBILITY_EXCLUDED_BRANCHES",
	"DD_CIVISIBILITY_ITR_ENABLED",
	"DD_CIVISIBILITY_CODE_COVERAGE_ENABLED",
}

// DefaultCatalog is the catalog injected into every target.
var DefaultCatalog = append(append(Catalog{}, bootstrap...), passthrough(PassthroughNames...)...)

// Names returns the entry names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, e := range c {
		names = append(names, e.Name)
	}
	return names
}

// Resolve returns the non-empty variables for a snapshot, in catalog order.
// Empty values are dropped, never written as deletions.
func (c Catalog) Resolve(s Snapshot) []Variable {
	var vars []Variable
	for _, e := range c {
		if value := e.Resolve(s); value != "" {
			vars = append(vars, Variable{Name: e.Name, Value: value})
		}
	}
	return vars
}

// MergeEnviron appends vars to an os.Environ style slice, replacing any
// existing definitions of the same names.
func MergeEnviron(base []string, vars []Variable) []string {
	override := make(map[string]bool, len(vars))
	for _, v := range vars {
		override[v.Name] = true
	}
	merged := make([]string, 0, len(base)+len(vars))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if !override[name] {
			merged = append(merged, kv)
		}
	}
	for _, v := range vars {
		merged = append(merged, v.Name+"="+v.Value)
	}
	return merged
}
