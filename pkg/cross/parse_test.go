package cross

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every malformed line yields exactly one E result carrying the order
// id when it parsed, 0 otherwise, and leaves the book untouched.
func TestActionRejections(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "empty line", line: "", want: "E 0 Empty action"},
		{name: "spaces only", line: "   ", want: "E 0 Empty action"},
		{name: "unknown action", line: "Z 1 IBM B 10 100.00000", want: "E 0 Unknown action"},
		{name: "place too few tokens", line: "O 77 IBM B 10", want: "E 77 Malformed place action"},
		{name: "place too many tokens", line: "O 77 IBM B 10 100.00000 extra", want: "E 77 Malformed place action"},
		{name: "place short with bad oid", line: "O x IBM B", want: "E 0 Malformed place action"},
		{name: "oid not a number", line: "O abc IBM B 10 100.00000", want: "E 0 Invalid order id"},
		{name: "oid zero", line: "O 0 IBM B 10 100.00000", want: "E 0 Invalid order id"},
		{name: "oid too wide", line: "O 4294967296 IBM B 10 100.00000", want: "E 0 Invalid order id"},
		{name: "symbol too long", line: "O 5 ABCDEFGHI B 10 100.00000", want: "E 5 Invalid symbol"},
		{name: "symbol not alphanumeric", line: "O 5 IBM-A B 10 100.00000", want: "E 5 Invalid symbol"},
		{name: "bad side", line: "O 5 IBM Q 10 100.00000", want: "E 5 Invalid side"},
		{name: "side lowercase", line: "O 5 IBM b 10 100.00000", want: "E 5 Invalid side"},
		{name: "qty zero", line: "O 5 IBM B 0 100.00000", want: "E 5 Invalid quantity"},
		{name: "qty too wide", line: "O 5 IBM B 65536 100.00000", want: "E 5 Invalid quantity"},
		{name: "qty not a number", line: "O 5 IBM B ten 100.00000", want: "E 5 Invalid quantity"},
		{name: "price zero", line: "O 5 IBM B 10 0.00000", want: "E 5 Invalid price"},
		{name: "price negative", line: "O 5 IBM B 10 -1.00000", want: "E 5 Invalid price"},
		{name: "price garbage", line: "O 5 IBM B 10 1o0.00000", want: "E 5 Invalid price"},
		{name: "price too fine", line: "O 5 IBM B 10 100.000001", want: "E 5 Invalid price"},
		{name: "price too wide", line: "O 5 IBM B 10 10000000.00000", want: "E 5 Invalid price"},
		{name: "cancel missing oid", line: "X", want: "E 0 Malformed cancel action"},
		{name: "cancel extra tokens", line: "X 5 5", want: "E 5 Malformed cancel action"},
		{name: "cancel bad oid", line: "X abc", want: "E 0 Invalid order id"},
		{name: "print with operands", line: "P IBM", want: "E 0 Malformed print action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := New()
			got := sc.Action(tt.line)
			assert.Equal(t, []string{tt.want}, got)
			// Nothing rested.
			assert.Empty(t, sc.Action("P"))
		})
	}
}

func TestActionAcceptsBoundaryOperands(t *testing.T) {
	sc := New()

	assert.Empty(t, sc.Action("O 1 IBM B 1 0.00001"))
	assert.Empty(t, sc.Action("O 4294967295 IBM B 65535 9999999.99999"))

	got := sc.Action("P")
	assert.Equal(t, []string{
		"P 4294967295 IBM B 65535 9999999.99999",
		"P 1 IBM B 1 0.00001",
	}, got)
}

// Repeated whitespace between tokens is tolerated; the reference
// split-on-space behavior is otherwise preserved.
func TestActionToleratesExtraWhitespace(t *testing.T) {
	sc := New()
	assert.Empty(t, sc.Action("O  1  IBM  B  10  100.00000"))
	assert.Equal(t, []string{"X 1"}, sc.Action("X 1"))
}
