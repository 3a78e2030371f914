package syntax

import "fmt"

// File error.go contains errors generated from lexing and parsing STL
// requirement text.

// LexError is returned by Lex when it encounters a character that cannot begin
// or continue any token, or a malformed numeric literal.
type LexError struct {
	sourceLine string
	source     string

	// line that error occured on, 1-indexed.
	line int

	// position in line of error, 1-indexed.
	pos     int
	message string
}

func (le LexError) Error() string {
	if le.line == 0 {
		return fmt.Sprintf("lex error: %s", le.message)
	}
	return fmt.Sprintf("lex error: around line %d, char %d: %s", le.line, le.pos, le.message)
}

// Source returns the exact source text that caused the issue.
func (le LexError) Source() string {
	return le.source
}

// Line returns the line the error occured on. Lines are 1-indexed. This will
// return 0 if the line is not set.
func (le LexError) Line() int {
	return le.line
}

// Position returns the character position that the error occured on. Character
// positions are 1-indexed. This will return 0 if the character position is not
// set.
func (le LexError) Position() int {
	return le.pos
}

// FullMessage shows the complete message of the error string along with the
// offending line and a cursor to the problem position in a formatted way.
func (le LexError) FullMessage() string {
	errMsg := le.Error()

	if le.line != 0 {
		errMsg = sourceLineWithCursor(le.sourceLine, le.pos) + "\n" + errMsg
	}

	return errMsg
}

// SyntaxError is returned by Parse when the token sequence does not match any
// production of the STL grammar, including the case of trailing tokens after a
// complete formula.
type SyntaxError struct {
	sourceLine string
	source     string

	// line that error occured on, 1-indexed.
	line int

	// position in line of error, 1-indexed.
	pos     int
	message string
}

func (se SyntaxError) Error() string {
	if se.line == 0 {
		return fmt.Sprintf("syntax error: %s", se.message)
	}
	return fmt.Sprintf("syntax error: around line %d, char %d: %s", se.line, se.pos, se.message)
}

// Source returns the exact text of the specific source code that caused the
// issue. If no particular source was the cause (such as for unexpected
// end-of-text errors), this will return an empty string.
func (se SyntaxError) Source() string {
	return se.source
}

// Line returns the line the error occured on. Lines are 1-indexed. This will
// return 0 if the line is not set.
func (se SyntaxError) Line() int {
	return se.line
}

// Position returns the character position that the error occured on. Character
// positions are 1-indexed. This will return 0 if the character position is not
// set.
func (se SyntaxError) Position() int {
	return se.pos
}

// FullMessage shows the complete message of the error string along with the
// offending line and a cursor to the problem position in a formatted way.
func (se SyntaxError) FullMessage() string {
	errMsg := se.Error()

	if se.line != 0 {
		errMsg = se.SourceLineWithCursor() + "\n" + errMsg
	}

	return errMsg
}

// SourceLineWithCursor returns the source offending code on one line and
// directly under it a cursor showing where the error occured.
//
// Returns a blank string if no source line was provided for the error (such as
// for unexpected end-of-text errors).
func (se SyntaxError) SourceLineWithCursor() string {
	return sourceLineWithCursor(se.sourceLine, se.pos)
}

func sourceLineWithCursor(sourceLine string, pos int) string {
	if sourceLine == "" {
		return ""
	}

	cursorLine := ""
	// pos will be 1-indexed.
	for i := 0; i < pos-1; i++ {
		cursorLine += " "
	}

	return sourceLine + "\n" + cursorLine + "^"
}

func syntaxErrorFromToken(msg string, tok Token) SyntaxError {
	return SyntaxError{
		message:    msg,
		sourceLine: tok.FullLine,
		source:     tok.Lexeme,
		pos:        tok.Pos,
		line:       tok.Line,
	}
}

func lexErrorAt(msg string, sourceLine string, line, pos int, source string) LexError {
	return LexError{
		message:    msg,
		sourceLine: sourceLine,
		source:     source,
		pos:        pos,
		line:       line,
	}
}
