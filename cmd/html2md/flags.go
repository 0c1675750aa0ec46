package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// extractFlags holds article location and rendering flags.
type extractFlags struct {
	article string
	title   string
	render  bool
}

// markdownFlags holds Markdown output flags.
type markdownFlags struct {
	baseURL   string
	cellLinks string
	codeLang  string
	align     bool
}

// outputFlags holds output mode flags.
type outputFlags struct {
	naming  string // "title" or "source"
	preview bool   // Write an HTML preview alongside the Markdown
	stdout  bool   // Print Markdown instead of writing files
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	extract    extractFlags
	markdown   markdownFlags
	outputMode outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
}

// addExtractFlags adds article location flags to a FlagSet.
func addExtractFlags(fs *flag.FlagSet, f *extractFlags) {
	fs.StringVar(&f.article, "article-selector", "", "CSS selector of the article root")
	fs.StringVar(&f.title, "title-selector", "", "CSS selector of the article title")
	fs.BoolVarP(&f.render, "render", "r", false, "render the page in headless Chrome first")
}

// addMarkdownFlags adds Markdown output flags to a FlagSet.
func addMarkdownFlags(fs *flag.FlagSet, f *markdownFlags) {
	fs.StringVar(&f.baseURL, "base-url", "", "absolute URL for resolving relative links")
	fs.StringVar(&f.cellLinks, "cell-links", "", "table cell links: verbatim, normalize")
	fs.StringVar(&f.codeLang, "code-lang", "", "code block language: none, class, detect")
	fs.BoolVar(&f.align, "align-tables", false, "pad table columns to a common width")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVar(&f.naming, "naming", "", "output file names: title, source")
	fs.BoolVar(&f.preview, "preview", false, "write an HTML preview alongside the Markdown")
	fs.BoolVar(&f.stdout, "stdout", false, "print Markdown to stdout")
}

// newConvertFlagSet registers every convert flag on a new FlagSet.
// Shared by parseConvertFlags and shell completion.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "browser rendering timeout (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addExtractFlags(fs, &f.extract)
	addMarkdownFlags(fs, &f.markdown)
	addOutputFlags(fs, &f.outputMode)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
// Usage is printed to usageOut when parsing fails.
func parseConvertFlags(args []string, usageOut io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(usageOut)
	fs.Usage = func() { printConvertUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
