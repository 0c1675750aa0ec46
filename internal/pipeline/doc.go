// Package pipeline implements the Markdown stages that run after an HTML
// document has been transduced to Markdown.
//
// This package handles:
//   - Structural inspection of the produced Markdown via Goldmark (GFM)
//   - Optional HTML preview rendering with syntax highlighting
//   - Local path resolution for preview images and links
//   - Code block language detection via chroma
//
// Locating the article, walking the document tree and browser rendering are
// handled by the root html2md package. This package only sees Markdown text
// and the HTML that Goldmark produces from it.
package pipeline
