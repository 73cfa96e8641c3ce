package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar tracks a byte download
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewDownloadBar creates a progress bar for a download of total bytes; total
// is -1 when the size is unknown.
func NewDownloadBar(total int64, description string) *ProgressBar {
	return newDownloadBar(total, description, os.Stderr)
}

func newDownloadBar(total int64, description string, w io.Writer) *ProgressBar {
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Write advances the bar by len(p) bytes
func (p *ProgressBar) Write(b []byte) (int, error) {
	return p.bar.Write(b)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}

// DownloadProgress adapts NewDownloadBar to the installer's progress hook
func DownloadProgress(total int64) io.Writer {
	return NewDownloadBar(total, "Downloading DatadogSDKTesting ")
}
