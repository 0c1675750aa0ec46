package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	html2md "github.com/alnah/go-html2md"
	"github.com/alnah/go-html2md/internal/config"
	"github.com/alnah/go-html2md/internal/hints"
)

// doctorSample is converted by the self-test.
const doctorSample = `<html><body>` +
	`<div class="editor-title__text">Doctor</div>` +
	`<div class="editor__body-content"><div class="tiptap ProseMirror">` +
	`<p>ok</p><table><tr><th>h</th></tr><tr><td>a</td></tr></table>` +
	`</div></div></body></html>`

// Doctor statuses, in increasing severity.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"`
	Converter converterInfo `json:"converter"`
	Config    configInfo    `json:"config"`
	Selectors selectorInfo  `json:"selectors"`
	Chrome    chromeInfo    `json:"chrome"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// converterInfo holds the self-test result.
type converterInfo struct {
	OK       bool   `json:"ok"`
	Filename string `json:"filename,omitempty"`
}

// configInfo reports the config named by HTML2MD_CONFIG.
type configInfo struct {
	Source string `json:"source,omitempty"`
	Loaded bool   `json:"loaded"`
}

// selectorInfo reports the selectors a conversion would use.
type selectorInfo struct {
	Article string `json:"article"`
	Title   string `json:"title"`
	Valid   bool   `json:"valid"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Warnings exit 0; errors exit ExitGeneral.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
// Config and selectors are resolved the same way convert resolves them.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	envCfg := loadEnvConfig()
	cfg := checkConfig(result, envCfg.ConfigPath)
	applyEnvConfig(envCfg, cfg)

	checkConverter(result)
	checkSelectors(result, cfg.Selectors)
	checkChrome(result)
	checkEnvironment(result)
	checkSystem(result)

	result.Status = statusReady
	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	}
	return result
}

// checkConverter converts a small sample document without a browser.
func checkConverter(result *doctorResult) {
	conv, err := html2md.NewConverter()
	if err != nil {
		result.fail("Converter setup failed: %v", err)
		return
	}
	defer conv.Close()

	res, err := conv.Convert(context.Background(), html2md.Input{HTML: doctorSample})
	if err != nil {
		result.fail("Sample conversion failed: %v", err)
		return
	}
	if res.Summary.Tables != 1 {
		result.fail("Sample conversion produced no table")
		return
	}
	result.Converter.OK = true
	result.Converter.Filename = res.Filename
}

// checkConfig loads the config named by HTML2MD_CONFIG, if any.
// It returns the defaults when nothing is configured or loading fails.
func checkConfig(result *doctorResult, nameOrPath string) *config.Config {
	result.Config.Source = nameOrPath
	if nameOrPath == "" {
		return config.DefaultConfig()
	}

	cfg, err := config.LoadConfig(nameOrPath)
	if err != nil {
		result.fail("Config (HTML2MD_CONFIG): %v", err)
		return config.DefaultConfig()
	}
	result.Config.Loaded = true
	return cfg
}

// checkSelectors compiles the article and title selectors.
func checkSelectors(result *doctorResult, sc config.SelectorsConfig) {
	sel := html2md.DefaultSelectors()
	if sc.Article != "" {
		sel.Article = sc.Article
	}
	if sc.Title != "" {
		sel.Title = sc.Title
	}

	result.Selectors = selectorInfo{Article: sel.Article, Title: sel.Title}
	if err := sel.Validate(); err != nil {
		result.fail("Selectors: %v", err)
		return
	}
	result.Selectors.Valid = true
}

// checkChrome detects Chrome/Chromium installation.
// Chrome is only needed for --render, so a missing browser is a warning.
func checkChrome(result *doctorResult) {
	bin := result.Env.BrowserBin
	if bin == "" {
		var found bool
		if bin, found = launcher.LookPath(); !found {
			result.warn("Chrome/Chromium not found; --render will download Chromium, or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(bin); err != nil {
		result.fail("Chrome not found at %s", bin)
		return
	}

	result.Chrome = chromeInfo{
		Found:   true,
		Path:    bin,
		Sandbox: result.Env.NoSandbox == "",
	}

	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- browser path from env or rod lookup
	if err != nil {
		result.warn("Could not read Chrome version: %v", err)
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	result.Env.CI = hints.InCI()

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox == "" {
		result.warn("Container/CI detected without ROD_NO_SANDBOX; --render needs ROD_NO_SANDBOX=1")
	}
}

// isContainer reports whether the process runs in a container, and the
// signal that revealed it.
func isContainer() (bool, string) {
	if os.Getenv("HTML2MD_CONTAINER") == "1" {
		return true, "HTML2MD_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman and systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for stdin input is writable.
func checkSystem(result *doctorResult) {
	result.System.TempDir = os.TempDir()

	f, err := os.CreateTemp(result.System.TempDir, "html2md-doctor-*")
	if err != nil {
		result.fail("Temp directory not writable: %s", result.System.TempDir)
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.System.TempWritable = true
}

// doctorLine is one line of the human-readable report.
type doctorLine struct {
	level string // OK, WARN, ERROR
	text  string
}

func okLine(format string, args ...any) doctorLine {
	return doctorLine{"OK", fmt.Sprintf(format, args...)}
}

// sections groups the result into titled report sections.
func (r *doctorResult) sections() []struct {
	title string
	lines []doctorLine
} {
	converter := []doctorLine{{"ERROR", "Sample conversion failed"}}
	if r.Converter.OK {
		converter = []doctorLine{okLine("Sample conversion: %s", r.Converter.Filename)}
	}

	var cfg []doctorLine
	switch {
	case r.Config.Source == "":
		cfg = append(cfg, okLine("Config: none (HTML2MD_CONFIG unset)"))
	case r.Config.Loaded:
		cfg = append(cfg, okLine("Config: %s", r.Config.Source))
	default:
		cfg = append(cfg, doctorLine{"ERROR", "Config: " + r.Config.Source})
	}
	selLevel := "OK"
	if !r.Selectors.Valid {
		selLevel = "ERROR"
	}
	cfg = append(cfg,
		doctorLine{selLevel, "Article selector: " + r.Selectors.Article},
		doctorLine{selLevel, "Title selector: " + r.Selectors.Title})

	var chrome []doctorLine
	if r.Chrome.Found {
		chrome = append(chrome, okLine("Found at %s", r.Chrome.Path))
		if r.Chrome.Version != "" {
			chrome = append(chrome, okLine("Version: %s", r.Chrome.Version))
		}
		if r.Chrome.Sandbox {
			chrome = append(chrome, okLine("Sandbox: enabled"))
		} else {
			chrome = append(chrome, okLine("Sandbox: disabled (ROD_NO_SANDBOX)"))
		}
	} else {
		chrome = append(chrome, doctorLine{"WARN", "Not found"})
	}

	environment := []doctorLine{okLine("Platform: %s/%s", r.Env.OS, r.Env.Arch)}
	if r.Env.Container {
		environment = append(environment, okLine("Container: detected (%s)", r.Env.ContainerHint))
	}
	if r.Env.CI {
		environment = append(environment, okLine("CI: detected"))
	}

	system := []doctorLine{{"ERROR", "Temp directory: not writable"}}
	if r.System.TempWritable {
		system = []doctorLine{okLine("Temp directory: writable")}
	}

	return []struct {
		title string
		lines []doctorLine
	}{
		{"Converter", converter},
		{"Extraction", cfg},
		{"Chrome/Chromium (--render)", chrome},
		{"Environment", environment},
		{"System", system},
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "html2md doctor")
	fmt.Fprintln(w)

	for _, s := range r.sections() {
		fmt.Fprintln(w, s.title)
		for _, l := range s.lines {
			fmt.Fprintf(w, "  [%s] %s\n", l.level, l.text)
		}
		fmt.Fprintln(w)
	}

	for _, group := range []struct {
		title string
		level string
		items []string
	}{
		{"Warnings:", "WARN", r.Warnings},
		{"Errors:", "ERROR", r.Errors},
	} {
		if len(group.items) == 0 {
			continue
		}
		fmt.Fprintln(w, group.title)
		for _, item := range group.items {
			fmt.Fprintf(w, "  [%s] %s\n", group.level, item)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
