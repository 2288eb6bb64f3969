// Package calculator implements the four-function calculator page.
package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Op is an arithmetic operation name as shown in the UI.
type Op string

const (
	Add      Op = "Add"
	Subtract Op = "Subtract"
	Multiply Op = "Multiply"
	Divide   Op = "Divide"
)

// Ops lists the operations in display order.
var Ops = []Op{Add, Subtract, Multiply, Divide}

var (
	ErrDivisionByZero   = errors.New("division by zero")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrInvalidNumber    = errors.New("invalid number")
)

// Messages returned by Calculate in place of a number.
const (
	MsgDivisionByZero = "Error: Division by zero!"
	MsgInvalidNumbers = "Error: Please enter valid numbers!"
	MsgUnknownOp      = "Unknown Operation"
)

// Compute applies op to a and b.
func Compute(a, b float64, op Op) (float64, error) {
	switch op {
	case Add:
		return a + b, nil
	case Subtract:
		return a - b, nil
	case Multiply:
		return a * b, nil
	case Divide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	default:
		return 0, ErrUnknownOperation
	}
}

// ParseNumber parses user input as a float. Surrounding whitespace, a
// leading '+', "inf" and "nan" spellings are accepted.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidNumber
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		// out-of-range values parse to ±Inf, which is still a number
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, nil
		}
		return 0, ErrInvalidNumber
	}
	return f, nil
}

// Calculate parses both operands and returns the result as text, or one of
// the Msg* strings. Operands are validated before the operation name.
func Calculate(a, b, op string) string {
	x, errA := ParseNumber(a)
	y, errB := ParseNumber(b)
	if errA != nil || errB != nil {
		return MsgInvalidNumbers
	}
	v, err := Compute(x, y, Op(op))
	switch {
	case errors.Is(err, ErrDivisionByZero):
		return MsgDivisionByZero
	case errors.Is(err, ErrUnknownOperation):
		return MsgUnknownOp
	}
	return FormatFloat(v)
}

// FormatFloat renders v with the shortest exact representation, always
// keeping a fractional part for finite integral values (2 -> "2.0").
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
