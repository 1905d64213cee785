package chat

import "strings"

var markupStripper = strings.NewReplacer("<", "", ">", "")

// Sanitize removes angle brackets from user supplied text so that clients
// rendering it as HTML cannot be tricked into interpreting markup.
func Sanitize(text string) string {
	return markupStripper.Replace(text)
}
