// SPDX-License-Identifier: Apache-2.0

package asbuilt

import (
	"regexp"
	"strings"
)

// CodeWidth is the width of one configuration code word in hex characters.
const CodeWidth = 4

var hexPattern = regexp.MustCompile(`^[0-9A-Fa-f]+$`)

// IsHex reports whether s is one or more hexadecimal digits.
func IsHex(s string) bool {
	return hexPattern.MatchString(s)
}

// PadCode left-pads a hexadecimal value with zeros to CodeWidth. Values that are
// not purely hexadecimal, or already at least CodeWidth long, are returned as-is.
func PadCode(s string) string {
	if !IsHex(s) || len(s) >= CodeWidth {
		return s
	}
	return strings.Repeat("0", CodeWidth-len(s)) + s
}
