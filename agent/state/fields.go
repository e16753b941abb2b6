package state

import "strings"

// mergeString applies v only when it carries a non-blank value.
func mergeString(dst *string, v *string) bool {
	if v == nil {
		return false
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return false
	}
	*dst = trimmed
	return true
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
