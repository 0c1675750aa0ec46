// Package html2md converts HTML articles to Markdown.
//
// # Quick Start
//
// Create a converter, convert a page, and close when done:
//
//	conv, err := html2md.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, html2md.Input{Path: "page.html"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Filename, []byte(result.Markdown), 0644)
//
// The converter finds the article root with a CSS selector, renders it to
// Markdown and derives a safe file name from the page title. A page without
// an article root fails with ErrNotFound.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Loading: parse the HTML, or render it in headless Chrome first (go-rod)
//  2. Locating: find the article and title nodes (CSS selectors)
//  3. Rendering: walk the article tree and emit Markdown
//  4. Inspection: parse the Markdown back with Goldmark (GFM) to summarize it
//  5. Preview (optional): render the Markdown to standalone HTML
//
// # Markdown Output
//
// Rendering is a single recursive walk with a fixed rule per tag:
//
//	h1-h3      "#"*level + " " + children + "\n\n"
//	p          children + "\n\n"
//	ul, ol     one "* " or "N. " line per li child, then "\n"
//	img        "![alt](src)\n\n"
//	a          "[text](href)", or text alone when href is empty or equals text
//	code       "`" + text + "`"
//	pre        "```\n" + text + "\n```\n\n"
//	table      pipe table: header row, "---" separator row, data rows
//	others     children only
//
// Links prefer a non-empty data-url attribute over href, and absolute http(s)
// links lose their scheme and host. Text is emitted as is; Markdown
// metacharacters are not escaped.
//
// Trees can also be built by hand and rendered without a Converter:
//
//	article := html2md.NewElement("p", nil, html2md.NewText("Hello"))
//	md, err := html2md.ConvertTree(article, nil) // "Hello\n\n"
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := html2md.NewConverter(
//	    html2md.WithSelectors(html2md.Selectors{Article: "article", Title: "h1"}),
//	    html2md.WithBaseURL("https://kb.example/"),
//	    html2md.WithCellLinks(html2md.CellLinksNormalize),
//	    html2md.WithCodeLanguage(html2md.CodeLanguageClass),
//	    html2md.WithTimeout(time.Minute),
//	)
//
// # Parallel Processing
//
// A Converter is not safe for concurrent use. For batch conversion, use
// ConverterPool:
//
//	pool := html2md.NewConverterPool(4)
//	defer pool.Close()
//
//	conv := pool.Acquire()
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Browser Requirements
//
// Only Input.Render needs Chrome/Chromium, for pages that build their content
// with scripts. The go-rod library downloads a managed Chromium instance on
// first use (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package html2md
