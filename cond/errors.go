// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond

import "fmt"

// An ErrorKind classifies a parse failure so a front end can render a
// precise diagnostic.
type ErrorKind byte

// Parse error kinds.
const (
	ErrSyntax           ErrorKind = iota // malformed or unexpected token
	ErrUnknownRegister                   // name is not in the register set
	ErrUnresolvedSymbol                  // name is neither register nor symbol
	ErrMissingWidth                      // memory operand without a width suffix
	ErrWidthMismatch                     // operand widths disagree, or a width is unusable
	ErrHistoryDisabled                   // history operand beyond the configured depth
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrUnknownRegister:
		return "unknown register"
	case ErrUnresolvedSymbol:
		return "unresolved symbol"
	case ErrMissingWidth:
		return "missing width suffix"
	case ErrWidthMismatch:
		return "width mismatch"
	default:
		return "history not available"
	}
}

// A ParseError describes why an expression failed to compile. Token holds
// the offending substring when one can be identified.
type ParseError struct {
	Kind  ErrorKind
	Token string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: '%s'", e.Kind, e.Token)
}

func parseError(kind ErrorKind, token string) *ParseError {
	return &ParseError{Kind: kind, Token: token}
}
