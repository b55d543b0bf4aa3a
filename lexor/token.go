package lexor

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"
	tokenNewline TokenType = "NEWLINE"

	tokenIdent      TokenType = "IDENT"
	tokenIntLit     TokenType = "INT_LITERAL"
	tokenFloatLit   TokenType = "FLOAT_LITERAL"
	tokenCharLit    TokenType = "CHAR_LITERAL"
	tokenStringLit  TokenType = "STRING_LITERAL"
	tokenDollar     TokenType = "$"
	tokenLParen     TokenType = "("
	tokenRParen     TokenType = ")"
	tokenComma      TokenType = ","
	tokenColon      TokenType = ":"
	tokenPlus       TokenType = "+"
	tokenMinus      TokenType = "-"
	tokenAsterisk   TokenType = "*"
	tokenSlash      TokenType = "/"
	tokenPercent    TokenType = "%"
	tokenAmpersand  TokenType = "&"
	tokenAssign     TokenType = "="
	tokenEQ         TokenType = "=="
	tokenNotEQ      TokenType = "<>"
	tokenLT         TokenType = "<"
	tokenLTE        TokenType = "<="
	tokenGT         TokenType = ">"
	tokenGTE        TokenType = ">="
	tokenScript     TokenType = "SCRIPT"
	tokenArea       TokenType = "AREA"
	tokenStart      TokenType = "START"
	tokenEnd        TokenType = "END"
	tokenDeclare    TokenType = "DECLARE"
	tokenIntType    TokenType = "INT"
	tokenFloatType  TokenType = "FLOAT"
	tokenStringType TokenType = "STRING"
	tokenBoolType   TokenType = "BOOL"
	tokenCharType   TokenType = "CHAR"
	tokenIf         TokenType = "IF"
	tokenElse       TokenType = "ELSE"
	tokenFor        TokenType = "FOR"
	tokenRepeat     TokenType = "REPEAT"
	tokenWhen       TokenType = "WHEN"
	tokenAnd        TokenType = "AND"
	tokenOr         TokenType = "OR"
	tokenNot        TokenType = "NOT"
	tokenNull       TokenType = "NULL"
	tokenPrint      TokenType = "PRINT"
	tokenScan       TokenType = "SCAN"
	tokenTrue       TokenType = "TRUE"
	tokenFalse      TokenType = "FALSE"
)

// keywords is built once and only read afterwards.
var keywords = map[string]TokenType{
	"SCRIPT":  tokenScript,
	"AREA":    tokenArea,
	"START":   tokenStart,
	"END":     tokenEnd,
	"DECLARE": tokenDeclare,
	"INT":     tokenIntType,
	"FLOAT":   tokenFloatType,
	"STRING":  tokenStringType,
	"BOOL":    tokenBoolType,
	"CHAR":    tokenCharType,
	"IF":      tokenIf,
	"ELSE":    tokenElse,
	"FOR":     tokenFor,
	"REPEAT":  tokenRepeat,
	"WHEN":    tokenWhen,
	"AND":     tokenAnd,
	"OR":      tokenOr,
	"NOT":     tokenNot,
	"NULL":    tokenNull,
	"PRINT":   tokenPrint,
	"SCAN":    tokenScan,
	"TRUE":    tokenTrue,
	"FALSE":   tokenFalse,
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for word := range keywords {
		out = append(out, word)
	}
	return out
}

// IsKeyword reports whether word is reserved. Matching is case-sensitive.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return tokenIdent
}

// Token captures lexical information for the parser. Literal holds the
// decoded value for literal tokens and is the null value otherwise.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal Value
	Pos     Position
}

// HasLiteral reports whether the token carries a decoded literal value.
func (t Token) HasLiteral() bool {
	switch t.Type {
	case tokenIntLit, tokenFloatLit, tokenCharLit, tokenStringLit:
		return true
	default:
		return false
	}
}

// Position identifies a 1-based line and column in the source text.
type Position struct {
	Line   int
	Column int
}
