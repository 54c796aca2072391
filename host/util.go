// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strings"
)

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

var hexString = "0123456789ABCDEF"

func addrToBuf(addr uint32, b []byte) {
	for i := 0; i < 8; i++ {
		b[i] = hexString[(addr>>(28-4*i))&0xf]
	}
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	switch {
	case v >= 32 && v < 127:
		return v
	case v >= 160 && v < 255:
		return v - 128
	default:
		return '.'
	}
}

// indentWrap wraps a string to 80 columns with the requested indentation.
func indentWrap(indent int, s string) string {
	var lines []string
	prefix := strings.Repeat(" ", indent)

	words := strings.Fields(s)
	line := prefix
	for _, w := range words {
		if len(line)+1+len(w) > 80 && line != prefix {
			lines = append(lines, line)
			line = prefix
		}
		if line == prefix {
			line += w
		} else {
			line += " " + w
		}
	}
	if line != prefix {
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
