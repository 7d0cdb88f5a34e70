package tokenizer

import "github.com/jacoelho/jsonlens/internal/token"

var isSpace = [256]bool{
	' ':  true,
	'\n': true,
	'\t': true,
	'\r': true,
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// number scanner states
const (
	numStart = iota
	numMinus
	numZero
	numInt
	numDot
	numFrac
	numExp
	numExpSign
	numExpDigits
)

func numAccepting(state int) bool {
	return state == numZero || state == numInt || state == numFrac || state == numExpDigits
}

// scanNumber measures the RFC 8259 number at the start of in. A number that
// reaches the end of a non-final window cannot be known to be complete.
func scanNumber(in []byte, final bool) (int, token.Status) {
	state := numStart

	for i, c := range in {
		switch state {
		case numStart:
			switch {
			case c == '-':
				state = numMinus
			case c == '0':
				state = numZero
			case isDigit(c):
				state = numInt
			default:
				return 0, token.StatusBadInput
			}
		case numMinus:
			switch {
			case c == '0':
				state = numZero
			case isDigit(c):
				state = numInt
			default:
				return 0, token.StatusBadInput
			}
		case numZero:
			switch c {
			case '.':
				state = numDot
			case 'e', 'E':
				state = numExp
			default:
				return i, token.StatusOk
			}
		case numInt:
			switch {
			case isDigit(c):
			case c == '.':
				state = numDot
			case c == 'e' || c == 'E':
				state = numExp
			default:
				return i, token.StatusOk
			}
		case numDot:
			if !isDigit(c) {
				return 0, token.StatusBadInput
			}
			state = numFrac
		case numFrac:
			switch {
			case isDigit(c):
			case c == 'e' || c == 'E':
				state = numExp
			default:
				return i, token.StatusOk
			}
		case numExp:
			switch {
			case c == '+' || c == '-':
				state = numExpSign
			case isDigit(c):
				state = numExpDigits
			default:
				return 0, token.StatusBadInput
			}
		case numExpSign:
			if !isDigit(c) {
				return 0, token.StatusBadInput
			}
			state = numExpDigits
		case numExpDigits:
			if !isDigit(c) {
				return i, token.StatusOk
			}
		}
	}

	if !final {
		return 0, token.StatusUnderrun
	}
	if numAccepting(state) {
		return len(in), token.StatusOk
	}
	return 0, token.StatusBadInput
}

// scanLiteral matches one of true, false or null at the start of in.
func scanLiteral(in []byte, literal string, final bool) (int, token.Status) {
	if len(in) < len(literal) {
		if string(in) != literal[:len(in)] {
			return 0, token.StatusBadInput
		}
		if final {
			return 0, token.StatusBadInput
		}
		return 0, token.StatusUnderrun
	}

	if string(in[:len(literal)]) != literal {
		return 0, token.StatusBadInput
	}
	return len(literal), token.StatusOk
}

// scanString looks for the closing quote of a string whose opening quote has
// already been consumed. It returns the index of the quote, or -1 and the
// length of the prefix that does not end inside an escape sequence.
func scanString(in []byte) (quote int, safe int) {
	i := 0
	for i < len(in) {
		switch in[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i, i
		}
		i++
	}

	if i > len(in) {
		return -1, len(in) - 1
	}
	return -1, len(in)
}
