package parser

import (
	"regexp"
	"strconv"
	"strings"

	"ddtest/internal/domain"
)

var (
	// Executed 12 tests, with 2 failures (0 unexpected) in 0.4 (0.5) seconds
	summaryPattern = regexp.MustCompile(`Executed (\d+) tests?, with (\d+) failures?`)

	// /src/AppTests/LoginTests.swift:42: error: -[AppTests.LoginTests testLogin] : message
	// /src/Tests/CoreTests/MathTests.swift:7: error: MathTests.testAdd : message
	failurePattern = regexp.MustCompile(
		`^(.+?):(\d+): error: (?:-\[([\w.]+) (\w+)\]|([\w.]+)\.(\w+)) : (.*)$`)

	progressPrefixes = []string{"Test Case '", "Test Suite '", "Executed "}
)

// XcodebuildParser parses the console output of xcodebuild and swift test
type XcodebuildParser struct{}

// NewXcodebuildParser creates a new XcodebuildParser
func NewXcodebuildParser() *XcodebuildParser {
	return &XcodebuildParser{}
}

// ParseTestCounts returns passed and failed test case counts. The last
// "Executed" summary wins since it covers all suites. Without a summary the
// whole run counts as one test (1,0) or (0,1) depending on the exit status.
func (p *XcodebuildParser) ParseTestCounts(result domain.CommandResult) (passed, failed int) {
	matches := summaryPattern.FindAllStringSubmatch(result.Output, -1)
	if len(matches) > 0 {
		last := matches[len(matches)-1]
		total, _ := strconv.Atoi(last[1])
		failed, _ = strconv.Atoi(last[2])
		if total >= failed {
			passed = total - failed
		}
		return passed, failed
	}

	if result.Success {
		return 1, 0
	}
	return 0, 1
}

// ParseFailures extracts XCTest assertion failures. Lines that follow a
// failure and are not test progress lines are appended to its message.
func (p *XcodebuildParser) ParseFailures(descriptor string, result domain.CommandResult) []domain.TestFailure {
	var failures []domain.TestFailure
	lines := strings.Split(result.Output, "\n")

	for i := 0; i < len(lines); i++ {
		m := failurePattern.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}

		failure := domain.TestFailure{
			Descriptor: descriptor,
			File:       m[1],
			Suite:      firstNonEmpty(m[3], m[5]),
			TestName:   firstNonEmpty(m[4], m[6]),
		}
		failure.Line, _ = strconv.Atoi(m[2])

		message := []string{m[7]}
		for i+1 < len(lines) && isContinuation(lines[i+1]) {
			i++
			message = append(message, lines[i])
		}
		failure.Message = strings.TrimSpace(strings.Join(message, "\n"))

		failures = append(failures, failure)
	}

	return failures
}

func isContinuation(line string) bool {
	if strings.TrimSpace(line) == "" || failurePattern.MatchString(line) {
		return false
	}
	for _, prefix := range progressPrefixes {
		if strings.HasPrefix(line, prefix) {
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
