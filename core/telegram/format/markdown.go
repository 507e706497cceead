package format

import "strings"

var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"`", "\\`",
	`\`, `\\`,
)

// EscapeMarkdown escapes characters that carry formatting meaning in
// Telegram Markdown so user supplied text renders literally.
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}
