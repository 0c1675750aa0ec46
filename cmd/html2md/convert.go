package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	html2md "github.com/alnah/go-html2md"
	"github.com/alnah/go-html2md/internal/config"
	"github.com/alnah/go-html2md/internal/fileutil"
	"github.com/alnah/go-html2md/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput         = errors.New("no input specified")
	ErrReadHTML        = errors.New("failed to read HTML input")
	ErrWriteMarkdown   = errors.New("failed to write Markdown file")
	ErrOutputDirectory = errors.New("failed to create output directory")
	ErrConverterInit   = errors.New("failed to initialize converter")
	ErrInvalidTimeout  = errors.New("invalid timeout")
	ErrInvalidNaming   = errors.New("invalid output naming")
)

// stdinPath selects standard input as the conversion source.
const stdinPath = "-"

// conversionParams groups settings shared across batch/file conversion.
type conversionParams struct {
	cfg     *config.Config
	render  bool
	timeout time.Duration // Zero means html2md.DefaultTimeout
	naming  string
	preview bool
	stdout  bool
	quiet   bool
	verbose bool
	logger  logrus.FieldLogger
}

// articleSelector returns the effective article selector.
func (p *conversionParams) articleSelector() string {
	if p != nil && p.cfg != nil && p.cfg.Selectors.Article != "" {
		return p.cfg.Selectors.Article
	}
	return html2md.DefaultArticleSelector
}

// renderTimeout returns the effective browser timeout.
func (p *conversionParams) renderTimeout() time.Duration {
	if p != nil && p.timeout > 0 {
		return p.timeout
	}
	return html2md.DefaultTimeout
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	logger := env.logger()

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(logger)

	// Load configuration: --config wins over HTML2MD_CONFIG
	cfg := config.DefaultConfig()
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName != "" {
		loaded, err := config.LoadConfig(configName)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	env.Config = cfg

	// CLI flags > env vars > config file > defaults
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	naming, err := resolveNaming(cfg.Output.Naming)
	if err != nil {
		return err
	}

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg.Render.Timeout)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	params := &conversionParams{
		cfg:     cfg,
		render:  cfg.Render.Enabled,
		timeout: timeout,
		naming:  naming,
		preview: cfg.Preview.Enabled && !flags.outputMode.stdout,
		stdout:  flags.outputMode.stdout,
		quiet:   flags.common.quiet,
		verbose: flags.common.verbose,
		logger:  logger,
	}
	if cfg.Preview.Enabled && params.stdout {
		logger.Warn("--preview is ignored with --stdout")
	}

	opts := buildOptions(cfg, params, timeout, logger)

	// Build one converter up front so invalid selectors, modes and base URLs
	// fail before any file is touched. No browser starts until a render.
	probe, err := html2md.NewConverter(opts...)
	if err != nil {
		return err
	}
	_ = probe.Close()

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	var files []FileToConvert
	if inputPath == stdinPath {
		f, cleanup, err := readStdin(env.Stdin, outputDir, params.render)
		if err != nil {
			return err
		}
		defer cleanup()
		files = []FileToConvert{f}
	} else {
		files, err = discoverFiles(inputPath, outputDir, naming)
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("%w: no HTML files found in %s", ErrNoInput, inputPath)
	}

	pool := html2md.NewConverterPool(html2md.ResolvePoolSize(workers), opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.WithError(err).Debug("closing converter pool")
		}
	}()

	logger.WithFields(logrus.Fields{
		"files":   len(files),
		"workers": pool.Size(),
		"render":  params.render,
	}).Debug("starting conversion")

	results := convertBatch(ctx, &poolAdapter{pool: pool}, files, params, pool.InitError)

	failedCount := printResultsWithWriter(results, params, env)
	if failedCount > 0 {
		return newBatchError(results, failedCount)
	}

	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Extraction
	if flags.extract.article != "" {
		cfg.Selectors.Article = flags.extract.article
	}
	if flags.extract.title != "" {
		cfg.Selectors.Title = flags.extract.title
	}
	if flags.extract.render {
		cfg.Render.Enabled = true
	}

	// Markdown
	if flags.markdown.baseURL != "" {
		cfg.Links.BaseURL = flags.markdown.baseURL
	}
	if flags.markdown.cellLinks != "" {
		cfg.Tables.CellLinks = flags.markdown.cellLinks
	}
	if flags.markdown.codeLang != "" {
		cfg.Code.Language = flags.markdown.codeLang
	}
	if flags.markdown.align {
		cfg.Tables.Align = true
	}

	// Output
	if flags.outputMode.naming != "" {
		cfg.Output.Naming = flags.outputMode.naming
	}
	if flags.outputMode.preview {
		cfg.Preview.Enabled = true
	}
}

// resolveNaming normalizes the output naming mode. Empty selects title naming.
func resolveNaming(s string) (string, error) {
	switch n := strings.ToLower(strings.TrimSpace(s)); n {
	case "":
		return config.NamingTitle, nil
	case config.NamingTitle, config.NamingSource:
		return n, nil
	}
	return "", fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidNaming, s, config.NamingTitle, config.NamingSource)
}

// buildOptions translates the merged config into converter options.
func buildOptions(cfg *config.Config, params *conversionParams, timeout time.Duration, logger logrus.FieldLogger) []html2md.Option {
	opts := []html2md.Option{
		html2md.WithSelectors(html2md.Selectors{
			Article: cfg.Selectors.Article,
			Title:   cfg.Selectors.Title,
		}),
		html2md.WithCellLinks(html2md.CellLinkMode(cfg.Tables.CellLinks)),
		html2md.WithCodeLanguage(html2md.CodeLanguageMode(cfg.Code.Language)),
		html2md.WithAlignedTables(cfg.Tables.Align),
		html2md.WithPreview(params.preview),
		html2md.WithLogger(logger),
	}
	if cfg.Links.BaseURL != "" {
		opts = append(opts, html2md.WithBaseURL(cfg.Links.BaseURL))
	}
	if timeout > 0 {
		opts = append(opts, html2md.WithTimeout(timeout))
	}
	return opts
}

// resolveInputPath returns the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// readStdin reads an HTML document from r. With render, the document is
// spooled to a temporary file the browser can open.
func readStdin(r io.Reader, outputDir string, render bool) (FileToConvert, func(), error) {
	noop := func() {}

	f := FileToConvert{InputPath: stdinPath, OutputDir: outputDir}
	if isMarkdownPath(outputDir) {
		f.OutputDir, f.OutputPath = "", outputDir
	}

	if render {
		path, cleanup, err := fileutil.SpoolHTML(r)
		if err != nil {
			return FileToConvert{}, noop, fmt.Errorf("%w: %v", ErrReadHTML, err)
		}
		f.Source = path
		return f, cleanup, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return FileToConvert{}, noop, fmt.Errorf("%w: %v", ErrReadHTML, err)
	}
	f.HTML = string(data)
	return f, noop, nil
}

// hintFor returns an actionable hint for err, or "".
// params may be nil when the failure happened before settings were resolved.
func hintFor(err error, params *conversionParams) string {
	var notFound *config.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Tried)
	case errors.Is(err, html2md.ErrNotFound):
		return hints.ForArticleNotFound(params.articleSelector(), params != nil && params.render)
	case errors.Is(err, html2md.ErrInvalidSelector):
		return hints.ForInvalidSelector()
	case errors.Is(err, html2md.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, html2md.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout(params.renderTimeout())
	case errors.Is(err, ErrOutputDirectory):
		return hints.ForOutputDirectory()
	}
	return ""
}

// batchError reports failed conversions. It unwraps to the first failure so
// the exit code reflects its cause.
type batchError struct {
	failed int
	first  error
}

func newBatchError(results []ConversionResult, failed int) *batchError {
	be := &batchError{failed: failed}
	for _, r := range results {
		if r.Err != nil {
			be.first = r.Err
			break
		}
	}
	return be
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d conversion(s) failed", e.failed)
}

func (e *batchError) Unwrap() error {
	return e.first
}
