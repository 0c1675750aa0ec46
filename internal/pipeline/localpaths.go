package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ResolveLocalPaths rewrites relative img src and a href values in an HTML
// fragment to absolute file:// URLs under sourceDir, so a preview opened
// from another directory still finds the article's local assets.
// An empty sourceDir returns the fragment unchanged.
//
// URLs, anchors, absolute paths and paths escaping sourceDir are left as is.
func ResolveLocalPaths(fragment, sourceDir string) (string, error) {
	if sourceDir == "" {
		return fragment, nil
	}

	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		resolveNode(n, absDir)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func resolveNode(n *html.Node, dir string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			resolveAttr(n, "src", dir)
		case atom.A:
			resolveAttr(n, "href", dir)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		resolveNode(c, dir)
	}
}

func resolveAttr(n *html.Node, key, dir string) {
	for i, a := range n.Attr {
		if a.Key != key || !isLocalRelative(a.Val) {
			continue
		}
		abs := filepath.Join(dir, filepath.FromSlash(a.Val))
		if !isUnderDir(abs, dir) {
			continue
		}
		n.Attr[i].Val = fileURL(abs)
	}
}

// isLocalRelative reports whether p is a relative filesystem path.
func isLocalRelative(p string) bool {
	if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "//") {
		return false
	}
	if u, err := url.Parse(p); err != nil || u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(p) && !strings.HasPrefix(p, "/")
}

func isUnderDir(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func fileURL(abs string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}
