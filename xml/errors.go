package xml

import (
	"fmt"
	"strings"
)

// ParseErrorKind identifies the specific well-formedness rule a ParseError
// violates (§4.3, §7).
type ParseErrorKind int

const (
	UnterminatedTag ParseErrorKind = iota
	MismatchedEndTag
	InvalidName
	UnterminatedAttribute
	UnterminatedComment
	UnterminatedCData
	UnterminatedDoctype
	UnexpectedEOF
	InvalidChar
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnterminatedTag:
		return "UnterminatedTag"
	case MismatchedEndTag:
		return "MismatchedEndTag"
	case InvalidName:
		return "InvalidName"
	case UnterminatedAttribute:
		return "UnterminatedAttribute"
	case UnterminatedComment:
		return "UnterminatedComment"
	case UnterminatedCData:
		return "UnterminatedCData"
	case UnterminatedDoctype:
		return "UnterminatedDoctype"
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case InvalidChar:
		return "InvalidChar"
	default:
		return "Unknown"
	}
}

// ParseError is returned for any unrecoverable structural error found by the
// parser. It carries the byte offset at which the error was detected,
// generalizing the teacher's *SyntaxError (error.go), whose Line field this
// mirrors via Line().
type ParseError struct {
	Kind   ParseErrorKind
	Offset int
	Msg    string
	source string
}

func (e *ParseError) Error() string {
	line, col := e.Line(), e.Column()
	if line > 0 {
		return fmt.Sprintf("xml: %s at line %d, column %d: %s", e.Kind, line, col, e.Msg)
	}
	return fmt.Sprintf("xml: %s at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

// Line returns the 1-based line number of the error's byte offset within the
// source it was parsed from, or 0 if no source is attached.
func (e *ParseError) Line() int {
	if e.source == "" {
		return 0
	}
	off := e.Offset
	if off > len(e.source) {
		off = len(e.source)
	}
	return 1 + strings.Count(e.source[:off], "\n")
}

// Column returns the 1-based column number (in bytes) of the error's offset
// within its line.
func (e *ParseError) Column() int {
	if e.source == "" {
		return 0
	}
	off := e.Offset
	if off > len(e.source) {
		off = len(e.source)
	}
	nl := strings.LastIndexByte(e.source[:off], '\n')
	return off - nl
}

func newParseError(kind ParseErrorKind, offset int, msg string) *ParseError {
	return &ParseError{Kind: kind, Offset: offset, Msg: msg}
}

// InvalidArgumentError reports a caller error: a nil/detached argument, a
// forbidden target (the document root), or a batch-operation argument set
// that does not share a parent (§7).
type InvalidArgumentError struct {
	Op  string
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("xml: invalid argument to %s: %s", e.Op, e.Msg)
}

func newInvalidArgument(op, msg string) *InvalidArgumentError {
	return &InvalidArgumentError{Op: op, Msg: msg}
}

// InvalidXMLError reports an attempt to construct an element (or other
// named node) with an empty or whitespace-only name (§7).
type InvalidXMLError struct {
	Msg string
}

func (e *InvalidXMLError) Error() string {
	return fmt.Sprintf("xml: invalid xml: %s", e.Msg)
}

func newInvalidXML(msg string) *InvalidXMLError {
	return &InvalidXMLError{Msg: msg}
}

// QuoteStyleError reports a quote-style decode call given a character other
// than '"' or '\'' (§7).
type QuoteStyleError struct {
	Char byte
}

func (e *QuoteStyleError) Error() string {
	return fmt.Sprintf("xml: invalid quote character %q", e.Char)
}
