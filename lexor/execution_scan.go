package lexor

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var errMinusWithoutNumber = errors.New("invalid input: '-' must precede a number")

// execScan reads one input line, tokenizes it with the source tokenizer and
// assigns the values positionally through the type-checked assign path.
func (exec *Execution) execScan(stmt *ScanStmt, env *Env) error {
	line, err := exec.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return exec.errorAt(stmt.Pos(), "SCAN reached end of input")
		}
		return exec.errorAt(stmt.Pos(), "SCAN read input: %v", err)
	}
	line = strings.TrimRight(line, "\r\n")
	exec.debug("scan input", "line", line, "targets", len(stmt.Names))

	values, err := scanValues(line)
	if err != nil {
		return exec.errorAt(stmt.Pos(), "%s", err.Error())
	}
	if len(values) != len(stmt.Names) {
		return exec.errorAt(stmt.Pos(), "expected %d inputs, but got %d", len(stmt.Names), len(values))
	}

	for i, name := range stmt.Names {
		val := values[i].value
		if typ, ok := env.TypeOf(name.Lexeme); ok && typ == TypeString && values[i].kind != tokenStringLit {
			val = NewString(values[i].text)
		}
		if _, err := env.Assign(name.Lexeme, val); err != nil {
			return exec.wrapError(err, name.Pos, env)
		}
	}
	return nil
}

type scanValue struct {
	kind  TokenType
	text  string
	value Value
}

// scanValues turns one input line into values. Commas are separators,
// identifiers are read as text and a minus sign folds into the number that
// follows it.
func scanValues(line string) ([]scanValue, error) {
	diags := NewDiagnostics()
	diags.attach(line)
	tokens := Tokenize(line, diags)
	if diags.HadStaticError() {
		first := diags.Entries()[0]
		return nil, fmt.Errorf("invalid input: %s", first.Message)
	}

	var out []scanValue
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Type {
		case tokenComma, tokenNewline, tokenEOF:
			continue
		case tokenIntLit, tokenFloatLit, tokenCharLit, tokenStringLit:
			out = append(out, scanValue{kind: tok.Type, text: tok.Lexeme, value: tok.Literal})
		case tokenTrue, tokenFalse:
			out = append(out, scanValue{kind: tok.Type, text: tok.Lexeme, value: NewBool(tok.Type == tokenTrue)})
		case tokenNull:
			out = append(out, scanValue{kind: tok.Type, text: tok.Lexeme, value: NewNull()})
		case tokenMinus:
			if i+1 >= len(tokens) {
				return nil, errMinusWithoutNumber
			}
			next := tokens[i+1]
			switch next.Type {
			case tokenIntLit:
				out = append(out, scanValue{kind: next.Type, text: "-" + next.Lexeme, value: NewInt(-next.Literal.Int())})
			case tokenFloatLit:
				out = append(out, scanValue{kind: next.Type, text: "-" + next.Lexeme, value: NewFloat(-next.Literal.Float())})
			default:
				return nil, errMinusWithoutNumber
			}
			i++
		default:
			if tok.Type == tokenIdent || IsKeyword(tok.Lexeme) {
				out = append(out, scanValue{kind: tok.Type, text: tok.Lexeme, value: NewString(tok.Lexeme)})
				continue
			}
			return nil, fmt.Errorf("invalid input: unexpected %s", tokenLabel(tok))
		}
	}
	return out, nil
}
