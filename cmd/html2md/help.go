package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2md <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert HTML articles to Markdown (default)")
	fmt.Fprintln(w, "  doctor     Check the system for --render")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'html2md help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2md convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert the article of saved HTML pages to Markdown.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    HTML file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>           Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>           Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>             Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --naming <s>              Output names: title (default), source")
	fmt.Fprintln(w, "      --stdout                  Print Markdown to stdout")
	fmt.Fprintln(w, "      --preview                 Write an HTML preview next to each output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Extraction:")
	fmt.Fprintln(w, "      --article-selector <s>    CSS selector of the article root")
	fmt.Fprintln(w, "      --title-selector <s>      CSS selector of the article title")
	fmt.Fprintln(w, "  -r, --render                  Render the page in headless Chrome first")
	fmt.Fprintln(w, "  -t, --timeout <d>             Rendering timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markdown:")
	fmt.Fprintln(w, "      --base-url <url>          Resolve relative links against this URL")
	fmt.Fprintln(w, "      --cell-links <s>          Table cell links: verbatim (default), normalize")
	fmt.Fprintln(w, "      --code-lang <s>           Code block language: none (default), class, detect")
	fmt.Fprintln(w, "      --align-tables            Pad table columns to a common width")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                   Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                 Show detailed timing")
	fmt.Fprintln(w, "      --log-format <s>          Log format: text (default), json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HTML2MD_CONFIG, HTML2MD_TIMEOUT, HTML2MD_WORKERS, HTML2MD_INPUT_DIR,")
	fmt.Fprintln(w, "  HTML2MD_OUTPUT_DIR, HTML2MD_ARTICLE_SELECTOR, HTML2MD_TITLE_SELECTOR,")
	fmt.Fprintln(w, "  HTML2MD_BASE_URL")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2md doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, sandbox and temp directory setup, and run a sample conversion.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: html2md version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: html2md help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
