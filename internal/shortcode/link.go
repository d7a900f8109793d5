package shortcode

import "strings"

const linkPrefix = "/s/"

// Link builds the public redirect link for a code.
func Link(base string, code string) string {
	return strings.TrimRight(base, "/") + linkPrefix + code
}

// Valid reports whether the code could have been produced by a Generator.
func Valid(code string) bool {
	if len(code) == 0 || len(code) > MaxLength {
		return false
	}
	for _, c := range code {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}
