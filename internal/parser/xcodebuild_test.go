package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ddtest/internal/domain"
)

const failingOutput = `Test Suite 'All tests' started at 2024-05-02 10:00:00.000.
Test Suite 'LoginTests' started at 2024-05-02 10:00:00.001.
Test Case '-[AppTests.LoginTests testLogin]' started.
Test Case '-[AppTests.LoginTests testLogin]' passed (0.010 seconds).
Test Case '-[AppTests.LoginTests testInvalidPassword]' started.
/src/AppTests/LoginTests.swift:42: error: -[AppTests.LoginTests testInvalidPassword] : XCTAssertEqual failed: ("401") is not equal to ("200")
Test Case '-[AppTests.LoginTests testInvalidPassword]' failed (0.020 seconds).
Test Case '-[AppTests.LoginTests testLockout]' started.
/src/AppTests/LoginTests.swift:58: error: -[AppTests.LoginTests testLockout] : failed - account not locked
expected state: locked
actual state: open
Test Case '-[AppTests.LoginTests testLockout]' failed (0.030 seconds).
Test Suite 'LoginTests' failed at 2024-05-02 10:00:00.100.
	 Executed 3 tests, with 2 failures (0 unexpected) in 0.060 (0.061) seconds
Test Suite 'All tests' failed at 2024-05-02 10:00:00.101.
	 Executed 10 tests, with 2 failures (0 unexpected) in 0.300 (0.310) seconds
** TEST EXECUTE FAILED **`

const swiftTestOutput = `[3/3] Linking CorePackageTests
Test Suite 'All tests' started at 2024-05-02 10:00:00.000
/src/Tests/CoreTests/MathTests.swift:7: error: MathTests.testAdd : XCTAssertEqual failed: ("3") is not equal to ("4") -
Test Suite 'All tests' failed at 2024-05-02 10:00:00.010
	 Executed 1 test, with 1 failure (0 unexpected) in 0.001 (0.001) seconds`

func TestXcodebuildParser_ParseTestCounts(t *testing.T) {
	p := NewXcodebuildParser()

	tests := []struct {
		name       string
		result     domain.CommandResult
		wantPassed int
		wantFailed int
	}{
		{"last summary wins", domain.CommandResult{Output: failingOutput}, 8, 2},
		{"singular summary", domain.CommandResult{Output: swiftTestOutput}, 0, 1},
		{"no summary success", domain.CommandResult{Success: true, Output: "** TEST EXECUTE SUCCEEDED **"}, 1, 0},
		{"no summary failure", domain.CommandResult{Output: "xcodebuild: error: Unable to find a destination"}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, failed := p.ParseTestCounts(tt.result)
			if passed != tt.wantPassed || failed != tt.wantFailed {
				t.Errorf("expected (%d, %d), got (%d, %d)", tt.wantPassed, tt.wantFailed, passed, failed)
			}
		})
	}
}

func TestXcodebuildParser_ParseFailures(t *testing.T) {
	p := NewXcodebuildParser()

	t.Run("xcodebuild", func(t *testing.T) {
		got := p.ParseFailures("App.xctestrun", domain.CommandResult{Output: failingOutput})
		want := []domain.TestFailure{
			{
				TestName:   "testInvalidPassword",
				Suite:      "AppTests.LoginTests",
				Descriptor: "App.xctestrun",
				File:       "/src/AppTests/LoginTests.swift",
				Line:       42,
				Message:    `XCTAssertEqual failed: ("401") is not equal to ("200")`,
			},
			{
				TestName:   "testLockout",
				Suite:      "AppTests.LoginTests",
				Descriptor: "App.xctestrun",
				File:       "/src/AppTests/LoginTests.swift",
				Line:       58,
				Message:    "failed - account not locked\nexpected state: locked\nactual state: open",
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("failures mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("swift test", func(t *testing.T) {
		got := p.ParseFailures("swift test", domain.CommandResult{Output: swiftTestOutput})
		if len(got) != 1 {
			t.Fatalf("expected 1 failure, got %d", len(got))
		}
		if got[0].Suite != "MathTests" || got[0].TestName != "testAdd" || got[0].Line != 7 {
			t.Errorf("unexpected failure: %+v", got[0])
		}
	})

	t.Run("clean output", func(t *testing.T) {
		if got := p.ParseFailures("x", domain.CommandResult{Success: true, Output: "Executed 3 tests, with 0 failures"}); len(got) != 0 {
			t.Errorf("expected no failures, got %v", got)
		}
	})
}
