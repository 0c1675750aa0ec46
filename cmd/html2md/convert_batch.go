package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	html2md "github.com/alnah/go-html2md"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input html2md.Input) (*html2md.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*html2md.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() CLIConverter
	Release(CLIConverter)
	Size() int
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath   string
	OutputPath  string
	PreviewPath string
	Title       string
	Markdown    string // Kept only in --stdout mode
	Summary     html2md.Summary
	Err         error
	Duration    time.Duration
}

// outputNamer hands out unique output paths across concurrent workers.
// Two articles with the same title in one directory get "name.txt" and
// "name-2.txt".
type outputNamer struct {
	mu   sync.Mutex
	used map[string]bool
}

func newOutputNamer() *outputNamer {
	return &outputNamer{used: make(map[string]bool)}
}

// claim reserves path, or the first free numbered variant of it.
func (n *outputNamer) claim(path string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	candidate := path
	for i := 2; n.used[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	n.used[candidate] = true
	return candidate
}

// convertBatch processes files concurrently using the converter pool.
// initErr reports why the pool could not build a converter.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams, initErr func() error) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	namer := newOutputNamer()
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := pool.Acquire()
			if conv == nil {
				// Converter creation failed, mark remaining jobs as failed
				err := ErrConverterInit
				if initErr != nil {
					if cause := initErr(); cause != nil {
						err = fmt.Errorf("%w: %w", ErrConverterInit, cause)
					}
				}
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       err,
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params, namer)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single document and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams, namer *outputNamer) (result ConversionResult) {
	start := time.Now()
	result = ConversionResult{InputPath: f.InputPath}
	defer func() { result.Duration = time.Since(start) }()

	res, err := conv.Convert(ctx, f.input(params.render))
	if err != nil {
		result.Err = err
		return result
	}
	result.Title = res.Title
	result.Summary = res.Summary

	if params.stdout {
		result.Markdown = res.Markdown
		return result
	}

	outPath := f.OutputPath
	if outPath == "" {
		outPath = filepath.Join(f.OutputDir, res.Filename)
	}
	outPath = namer.claim(outPath)
	result.OutputPath = outPath

	if err := os.MkdirAll(filepath.Dir(outPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrOutputDirectory, err)
		return result
	}

	// #nosec G306 -- Markdown files are meant to be readable
	if err := os.WriteFile(outPath, []byte(res.Markdown), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteMarkdown, err)
		return result
	}

	if params.preview && res.PreviewHTML != nil {
		htmlPath := previewPath(outPath)
		// #nosec G306 -- previews are meant to be readable
		if err := os.WriteFile(htmlPath, res.PreviewHTML, filePermissions); err != nil {
			result.Err = fmt.Errorf("%w: preview: %v", ErrWriteMarkdown, err)
			return result
		}
		result.PreviewPath = htmlPath
	}

	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
// In --stdout mode the Markdown itself is the output.
func printResultsWithWriter(results []ConversionResult, params *conversionParams, env *Environment) int {
	summary := countResults(results)
	logger := env.logger()

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err, params))
			continue
		}

		logger.WithFields(logrus.Fields{
			"input":    r.InputPath,
			"title":    r.Title,
			"headings": r.Summary.Headings,
			"tables":   r.Summary.Tables,
			"links":    r.Summary.Links,
			"images":   r.Summary.Images,
		}).Debug("converted")

		if params.stdout {
			fmt.Fprint(env.Stdout, r.Markdown)
			continue
		}

		if params.quiet {
			continue
		}

		if params.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
		if r.PreviewPath != "" {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.PreviewPath)
		}
	}

	if !params.quiet && !params.stdout && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
