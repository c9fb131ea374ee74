package app

import (
	"strconv"
	"strings"
)

func itoa(n int) string { return strconv.Itoa(n) }

func join(keys []string) string { return strings.Join(keys, ", ") }

func boolText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
