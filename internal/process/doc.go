// Package process runs the external tools (xcodebuild, swift, plutil) the
// pipeline depends on. Output is streamed line by line to the console and the
// last lines are kept for the run report.
package process
