package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	html2md "github.com/alnah/go-html2md"
	"github.com/alnah/go-html2md/internal/config"
	"github.com/alnah/go-html2md/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .html or .htm extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// previewSuffix marks HTML previews written next to Markdown outputs.
// Discovery skips these files so reruns do not convert their own previews.
const previewSuffix = ".preview.html"

// FileToConvert represents a single document to process.
type FileToConvert struct {
	InputPath  string // Path shown to the user ("-" for stdin)
	Source     string // Path actually read, when it differs from InputPath
	HTML       string // Document read from stdin
	OutputDir  string // Directory receiving a title-named output
	OutputPath string // Fixed output path (source naming or explicit -o file)
}

// input builds the library input for f.
func (f FileToConvert) input(render bool) html2md.Input {
	if f.InputPath == stdinPath && f.Source == "" {
		return html2md.Input{HTML: f.HTML}
	}
	path := f.InputPath
	if f.Source != "" {
		path = f.Source
	}
	return html2md.Input{Path: path, Render: render}
}

// discoverFiles finds all HTML files to convert.
func discoverFiles(inputPath, outputDir, naming string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateHTMLExtension(inputPath); err != nil {
			return nil, err
		}
		dir, out := resolveOutput(inputPath, outputDir, "", naming)
		return []FileToConvert{{InputPath: inputPath, OutputDir: dir, OutputPath: out}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsHTMLFile(path) || isPreviewFile(path) {
			return nil
		}
		dir, out := resolveOutput(path, outputDir, inputPath, naming)
		files = append(files, FileToConvert{InputPath: path, OutputDir: dir, OutputPath: out})
		return nil
	})

	return files, err
}

// resolveOutput determines where the Markdown for inputPath goes.
// It returns the output directory, plus a fixed path unless the name must
// come from the article title.
func resolveOutput(inputPath, outputDir, baseInputDir, naming string) (dir, path string) {
	// Explicit output file for a single input
	if baseInputDir == "" && isMarkdownPath(outputDir) {
		return filepath.Dir(outputDir), outputDir
	}

	switch {
	case outputDir == "":
		dir = filepath.Dir(inputPath)
	case baseInputDir != "":
		dir = outputDir
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			dir = filepath.Join(outputDir, filepath.Dir(relPath))
		}
	default:
		dir = outputDir
	}

	if naming == config.NamingSource {
		ext := filepath.Ext(inputPath)
		base := strings.TrimSuffix(filepath.Base(inputPath), ext)
		return dir, filepath.Join(dir, base+".md")
	}
	return dir, ""
}

// isMarkdownPath reports whether p names a Markdown or text output file.
func isMarkdownPath(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".md", ".markdown", html2md.FilenameExtension:
		return true
	}
	return false
}

// isPreviewFile reports whether path is a preview written by --preview.
func isPreviewFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), previewSuffix)
}

// previewPath returns the preview path corresponding to a Markdown path.
func previewPath(mdPath string) string {
	return strings.TrimSuffix(mdPath, filepath.Ext(mdPath)) + previewSuffix
}

// validateHTMLExtension checks that the file has an .html or .htm extension.
func validateHTMLExtension(path string) error {
	if !fileutil.IsHTMLFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > html2md.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, html2md.MaxPoolSize)
	}
	return nil
}
