// Package lexor implements the LEXOR scripting language. A program is a fixed
// envelope with a declarations block followed by executable statements:
//
//	SCRIPT AREA
//	START SCRIPT
//	DECLARE INT x = 1, y
//	y = x * 2
//	PRINT: "y is " & y & $
//	END SCRIPT
//
// The package supports:
//   - Typed variables (INT, FLOAT, STRING, BOOL, CHAR) checked on every store.
//   - Arithmetic, comparison, concatenation (&) and logical operators.
//   - IF / ELSE IF / ELSE, FOR and REPEAT WHEN loops.
//   - PRINT and SCAN for line-oriented I/O.
//
// Comments start with `%%`. Escape sequences are written `[x]`. Lexical and
// syntax errors stop a program before it runs; the first runtime error stops
// it where it happens.
package lexor
