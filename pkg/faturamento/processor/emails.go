package processor

import (
	"regexp"
	"strings"
)

var emailDelimiters = regexp.MustCompile(`[;,\s]+`)

// SplitEmails splits a recipient cell on the usual multi-address
// delimiters and trims each address. Empty fragments are dropped.
func SplitEmails(cell string) []string {
	var out []string
	for _, part := range emailDelimiters.Split(cell, -1) {
		part = strings.Trim(part, " <>")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// CollectRecipients extracts every address from the given cells,
// deduplicated while preserving first-seen order.
func CollectRecipients(cells []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		for _, addr := range SplitEmails(cell) {
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
			out = append(out, addr)
		}
	}
	return out
}
