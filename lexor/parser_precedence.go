package lexor

const (
	lowestPrec = iota
	precAssign
	precOr
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
	precPrefix
)

var precedences = map[TokenType]int{
	tokenAssign:    precAssign,
	tokenOr:        precOr,
	tokenAnd:       precAnd,
	tokenEQ:        precEquality,
	tokenNotEQ:     precEquality,
	tokenLT:        precComparison,
	tokenLTE:       precComparison,
	tokenGT:        precComparison,
	tokenGTE:       precComparison,
	tokenPlus:      precSum,
	tokenMinus:     precSum,
	tokenAmpersand: precSum,
	tokenPercent:   precSum,
	tokenAsterisk:  precProduct,
	tokenSlash:     precProduct,
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowestPrec
}
