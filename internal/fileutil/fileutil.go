// Package fileutil holds the small path and file helpers shared by the CLI
// and the config loader.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SpoolHTML copies r into a new .html file in the temp directory, so a
// browser can open stdin by path. cleanup removes the file and is safe to
// call more than once.
func SpoolHTML(r io.Reader) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "html2md-stdin-*.html")
	if err != nil {
		return "", nil, fmt.Errorf("spooling HTML: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	_, err = io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("spooling HTML: %w", err)
	}
	return path, cleanup, nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsFilePath reports whether s names a config by path ("./work.yaml",
// "C:\cfg\work.yaml") rather than by bare name ("work").
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, `/\`)
}

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsHTMLFile reports whether path ends in .html or .htm, ignoring case.
func IsHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
