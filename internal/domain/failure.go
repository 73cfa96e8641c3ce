package domain

// TestFailure represents a failed test case reported by xcodebuild
type TestFailure struct {
	TestName   string `json:"test_name"`
	Suite      string `json:"suite"`
	Descriptor string `json:"descriptor"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Message    string `json:"message"`
	Resolved   bool   `json:"resolved,omitempty"` // Track if test case is marked as resolved
}
