package html2md

import (
	"net/url"
	"regexp"
	"strings"
)

// originPrefix matches the scheme and host of an absolute http(s) URL.
var originPrefix = regexp.MustCompile(`^https?://[^/]+`)

// StripOrigin removes a leading http(s)://host prefix, turning absolute
// links into root-relative paths. Other URLs are returned unchanged.
func StripOrigin(href string) string {
	return originPrefix.ReplaceAllString(href, "")
}

// renderLink renders an anchor. The anchor collapses to its text when it has
// no target or when the target equals the text.
func (r *Renderer) renderLink(a *Element) string {
	var sb strings.Builder
	r.renderChildren(&sb, a)
	return formatLink(trimSpace(sb.String()), r.linkHref(a))
}

// linkHref prefers a non-empty data-url over the resolved href.
func (r *Renderer) linkHref(a *Element) string {
	if v, ok := a.Attr("data-url"); ok && v != "" {
		return v
	}
	return r.resolveAttr(a, "href")
}

func formatLink(text, href string) string {
	if href == "" || href == text {
		return text
	}
	return "[" + text + "](" + StripOrigin(href) + ")"
}

// resolveAttr returns a URL attribute resolved against the base URL, the raw
// value when no base is set, or "" when the attribute is missing.
func (r *Renderer) resolveAttr(e *Element, name string) string {
	v, ok := e.Attr(name)
	if !ok {
		return ""
	}
	if r.BaseURL == nil {
		return v
	}
	ref, err := url.Parse(strings.TrimSpace(v))
	if err != nil {
		return v
	}
	return r.BaseURL.ResolveReference(ref).String()
}
