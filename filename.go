package html2md

import "strings"

// Output file naming.
const (
	FilenameExtension = ".txt"
	FallbackFilename  = "article" + FilenameExtension
)

// unsafeFilenameChars replaces characters rejected by common filesystems.
var unsafeFilenameChars = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	`"`, "_",
	"/", "_",
	`\`, "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// Sanitize maps a title to a file name: unsafe characters become '_' and
// FilenameExtension is appended. Everything else is kept as is.
func Sanitize(title string) string {
	return unsafeFilenameChars.Replace(title) + FilenameExtension
}

// Filename returns the output file name for a document title, or
// FallbackFilename when the title is blank.
func Filename(title string) string {
	t := trimSpace(title)
	if t == "" {
		return FallbackFilename
	}
	return Sanitize(t)
}
