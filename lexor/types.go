package lexor

import (
	"fmt"
	"unicode/utf8"
)

// checkType returns value as it should be stored in a variable of type typ.
// NULL is storable in every type. A few lossless conversions apply: BOOL
// takes the text "TRUE"/"FALSE", CHAR takes one-character text and STRING
// takes a CHAR.
func checkType(name string, typ DeclaredType, value Value) (Value, error) {
	if value.IsNull() {
		return value, nil
	}
	switch typ {
	case TypeInt:
		if value.Kind() == KindInt {
			return value, nil
		}
	case TypeFloat:
		if value.Kind() == KindFloat {
			return value, nil
		}
	case TypeBool:
		switch value.Kind() {
		case KindBool:
			return value, nil
		case KindString:
			switch value.Text() {
			case "TRUE":
				return NewBool(true), nil
			case "FALSE":
				return NewBool(false), nil
			}
		}
	case TypeChar:
		switch value.Kind() {
		case KindChar:
			return value, nil
		case KindString:
			if text := value.Text(); utf8.RuneCountInString(text) == 1 {
				r, _ := utf8.DecodeRuneInString(text)
				return NewChar(r), nil
			}
		}
	case TypeString:
		switch value.Kind() {
		case KindString:
			return value, nil
		case KindChar:
			return NewString(string(value.Char())), nil
		}
	}
	return Value{}, &TypeMismatchError{Name: name, Declared: typ, Got: value.Kind()}
}

// TypeMismatchError reports a store into a variable of an incompatible type.
type TypeMismatchError struct {
	Name     string
	Declared DeclaredType
	Got      ValueKind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: variable '%s' is declared %s but got a %s value", e.Name, e.Declared, e.Got)
}
