package cross

import (
	"fmt"

	"github.com/budlinville/simplecross/pkg/book"
)

// Result is one outcome record produced by an action. Each record
// knows how to render its own output line.
type Result interface {
	Line() string
}

// Fill reports qty shares of an order executing at price. Every match
// produces two of these: the aggressor's, then the resting order's.
type Fill struct {
	OID    book.OrderID
	Symbol string
	Qty    int64
	Price  book.Price
}

func (f Fill) Line() string {
	return fmt.Sprintf("F %d %s %d %s", f.OID, f.Symbol, f.Qty, f.Price)
}

// CancelAck confirms removal of a resting order.
type CancelAck struct {
	OID book.OrderID
}

func (c CancelAck) Line() string {
	return fmt.Sprintf("X %d", c.OID)
}

// BookEntry is one resting order in a snapshot.
type BookEntry struct {
	book.Entry
}

func (b BookEntry) Line() string {
	return fmt.Sprintf("P %d %s %s %d %s", b.ID, b.Symbol, b.Side, b.Qty, b.Price)
}

// ErrorResult reports a rejected action. OID is zero when the line
// failed before an order id could be parsed.
type ErrorResult struct {
	OID    book.OrderID
	Reason string
}

func (e ErrorResult) Line() string {
	return fmt.Sprintf("E %d %s", e.OID, e.Reason)
}

// Lines renders a result sequence in order.
func Lines(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Line()
	}
	return out
}
