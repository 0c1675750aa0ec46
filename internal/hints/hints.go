// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
	"time"

	"github.com/alnah/go-html2md/internal/fileutil"
)

// CIVars signal a CI runner when set to any value.
var CIVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// InCI reports whether any of CIVars is set.
func InCI() bool {
	for _, v := range CIVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// IsInContainer reports whether /.dockerenv exists. Tests replace it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for a browser that failed to start.
func ForBrowserConnect() string {
	var hints []string

	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") == "" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "run 'html2md doctor' to check the setup")

	return formatHints(hints)
}

// ForTimeout suggests doubling the rendering timeout that expired.
func ForTimeout(current time.Duration) string {
	if current <= 0 {
		return format("for slow pages, use --timeout flag")
	}
	return format("for slow pages, raise the timeout (current: " + current.String() +
		", e.g. --timeout " + (2 * current).String() + ")")
}

// ForArticleNotFound returns hints when the article selector matched nothing.
// Pages that build their content with scripts only match after rendering.
func ForArticleNotFound(selector string, rendered bool) string {
	hints := []string{"check --article-selector (current: " + selector + ")"}
	if !rendered {
		hints = append(hints, "use --render if the page builds its content with scripts")
	}
	return formatHints(hints)
}

// ForInvalidSelector returns a hint for CSS selector syntax errors.
func ForInvalidSelector() string {
	return format("selectors use CSS syntax, e.g. \"article .content\" or \"#main\"")
}

// ForConfigNotFound suggests --config, or the user config path that was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-html2md") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
