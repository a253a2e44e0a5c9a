package comm

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/itchio/dragtoinstall/progress"
)

var bar *progress.Bar

var lastProgressAlpha = 0.0

var themes = map[string]*progress.Theme{
	"unicode": {BarStart: "▐", BarEnd: "▌", Current: "▓", Empty: "░", OpSign: "•", StatSign: "✓"},
	"ascii":   {BarStart: "|", BarEnd: "|", Current: "#", Empty: "-", OpSign: ">", StatSign: "<"},
	"cp437":   {BarStart: "▐", BarEnd: "▌", Current: "█", Empty: "░", OpSign: "∙", StatSign: "√"},
}

func getCharset() string {
	if runtime.GOOS == "windows" && os.Getenv("OS") != "CYGWIN" {
		return "cp437"
	}

	var utf8 = ".UTF-8"
	if strings.Contains(os.Getenv("LC_ALL"), utf8) ||
		os.Getenv("LC_CTYPE") == "UTF-8" ||
		strings.Contains(os.Getenv("LANG"), utf8) {
		return "unicode"
	}

	return "ascii"
}

var theme = themes[getCharset()]

// GetTheme returns the theme used to show progress
func GetTheme() *progress.Theme {
	return theme
}

const maxLabelLength = 40

// ProgressLabel sets the string printed next to the progress indicator
func ProgressLabel(label string) {
	if bar == nil {
		return
	}

	if len(label) > maxLabelLength {
		label = fmt.Sprintf("...%s", label[len(label)-(maxLabelLength-3):])
	}
	bar.SetLabel(label)
}

// StartProgress begins a period in which progress is regularly printed
func StartProgress() {
	if bar != nil {
		// already in progress
		return
	}

	silent := settings.noProgress || settings.quiet || settings.json
	bar = progress.NewBar(os.Stdout, theme, silent)
	bar.SetProgress(lastProgressAlpha)
	bar.Start()
}

// PauseProgress temporarily stops printing the progress bar
func PauseProgress() {
	if bar != nil {
		bar.Pause()
	}
}

// ResumeProgress resumes printing the progress bar after PauseProgress was called
func ResumeProgress() {
	if bar != nil {
		bar.Resume()
	}
}

var lastJsonPrintTime time.Time
var maxJsonPrintDuration = 500 * time.Millisecond

// Progress sets the completion of a task whose progress is being printed.
// It only has an effect if StartProgress was already called.
func Progress(alpha float64) {
	lastProgressAlpha = alpha

	if bar == nil {
		return
	}

	bar.SetProgress(alpha)

	if lastJsonPrintTime.IsZero() || alpha >= 1.0 || time.Since(lastJsonPrintTime) > maxJsonPrintDuration {
		lastJsonPrintTime = time.Now()
		send("progress", JsonMessage{
			"progress":   alpha,
			"percentage": alpha * 100.0,
		})
	}
}

// EndProgress stops refreshing the progress bar and erases it.
func EndProgress() {
	if bar != nil {
		bar.SetProgress(1.0)
		bar.Finish()
		bar = nil
	}
	lastProgressAlpha = 0.0
	lastJsonPrintTime = time.Time{}
}
