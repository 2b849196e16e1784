package nativewind

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// DiagnosticPrefix precedes every surfaced compiler diagnostic.
const DiagnosticPrefix = "NativeWind:"

// Reporter prints compiler diagnostics.
type Reporter struct {
	mu        sync.Mutex
	w         io.Writer
	useColors bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, useColors bool) *Reporter {
	return &Reporter{w: w, useColors: useColors}
}

// Diagnostic writes "NativeWind: <text>".
func (r *Reporter) Diagnostic(text string) {
	r.print(StylePrefix, text)
}

// Failure writes a hook failure that did not stop the build.
func (r *Reporter) Failure(err error) {
	r.print(StyleError, err.Error())
}

func (r *Reporter) print(style lipgloss.Style, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "%s %s\n", RenderStyle(style, DiagnosticPrefix, r.useColors), text)
}

// ShouldUseColors determines if colors should be enabled for f.
func ShouldUseColors(force bool, f *os.File) bool {
	// Explicit flag wins
	if force {
		return true
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if f == nil {
		return false
	}
	if fileInfo, err := f.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}
