package cross

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budlinville/simplecross/pkg/book"
)

// TestExampleSession replays the canonical session line by line and
// checks every result batch verbatim.
func TestExampleSession(t *testing.T) {
	sc := New()

	steps := []struct {
		line string
		want []string
	}{
		{line: "O 10000 IBM B 10 100.00000"},
		{line: "O 10001 IBM B 10 99.00000"},
		{line: "O 10002 IBM S 5 101.00000"},
		{line: "O 10003 IBM S 5 100.00000", want: []string{
			"F 10003 IBM 5 100.00000",
			"F 10000 IBM 5 100.00000",
		}},
		{line: "O 10004 IBM S 5 100.00000", want: []string{
			"F 10004 IBM 5 100.00000",
			"F 10000 IBM 5 100.00000",
		}},
		{line: "X 10002", want: []string{"X 10002"}},
		{line: "O 10005 IBM B 10 99.00000"},
		{line: "O 10006 IBM B 10 100.00000"},
		{line: "O 10007 IBM S 10 101.00000"},
		{line: "O 10008 IBM S 10 102.00000"},
		{line: "O 10008 IBM S 10 102.00000", want: []string{
			"E 10008 Duplicate order id",
		}},
		{line: "O 10009 IBM S 10 102.00000"},
		{line: "P", want: []string{
			"P 10009 IBM S 10 102.00000",
			"P 10008 IBM S 10 102.00000",
			"P 10007 IBM S 10 101.00000",
			"P 10006 IBM B 10 100.00000",
			"P 10001 IBM B 10 99.00000",
			"P 10005 IBM B 10 99.00000",
		}},
		{line: "O 10010 IBM B 13 102.00000", want: []string{
			"F 10010 IBM 10 101.00000",
			"F 10007 IBM 10 101.00000",
			"F 10010 IBM 3 102.00000",
			"F 10008 IBM 3 102.00000",
		}},
	}

	for _, step := range steps {
		got := sc.Action(step.line)
		if step.want == nil {
			assert.Empty(t, got, "line %q", step.line)
		} else {
			assert.Equal(t, step.want, got, "line %q", step.line)
		}
	}
}

func TestCancelUnknown(t *testing.T) {
	sc := New()
	assert.Equal(t, []string{"E 99999 Order ID not on book"}, sc.Action("X 99999"))
	// Failure is repeatable.
	assert.Equal(t, []string{"E 99999 Order ID not on book"}, sc.Action("X 99999"))
}

func TestCancelAfterCancelFails(t *testing.T) {
	sc := New()
	sc.Action("O 1 IBM B 10 100.00000")
	assert.Equal(t, []string{"X 1"}, sc.Action("X 1"))
	assert.Equal(t, []string{"E 1 Order ID not on book"}, sc.Action("X 1"))
}

func TestCancelAfterFullFillFails(t *testing.T) {
	sc := New()
	sc.Action("O 1 IBM B 10 100.00000")
	sc.Action("O 2 IBM S 10 100.00000")
	// A fully filled order is indistinguishable from one never placed.
	assert.Equal(t, []string{"E 1 Order ID not on book"}, sc.Action("X 1"))
}

// Identifier uniqueness covers the engine's whole history, not just
// live orders.
func TestDuplicateIDAfterRemoval(t *testing.T) {
	sc := New()

	sc.Action("O 1 IBM B 10 100.00000")
	sc.Action("X 1")
	assert.Equal(t, []string{"E 1 Duplicate order id"}, sc.Action("O 1 IBM B 10 100.00000"))

	sc.Action("O 2 IBM B 10 100.00000")
	sc.Action("O 3 IBM S 10 100.00000")
	assert.Equal(t, []string{"E 2 Duplicate order id"}, sc.Action("O 2 IBM S 1 90.00000"))
	assert.Equal(t, []string{"E 3 Duplicate order id"}, sc.Action("O 3 MSFT B 1 90.00000"))
}

func TestDuplicateRejectionMutatesNothing(t *testing.T) {
	sc := New()

	sc.Action("O 1 IBM S 10 100.00000")
	before := sc.Action("P")

	// Would cross if accepted.
	assert.Equal(t, []string{"E 1 Duplicate order id"}, sc.Action("O 1 IBM B 10 100.00000"))
	assert.Equal(t, before, sc.Action("P"))
}

func TestSnapshotIdempotent(t *testing.T) {
	sc := New()
	sc.Action("O 1 IBM B 10 100.00000")
	sc.Action("O 2 IBM S 10 101.00000")
	sc.Action("O 3 MSFT B 5 50.00000")

	first := sc.Action("P")
	second := sc.Action("P")
	assert.Equal(t, first, second)
}

func TestSnapshotEmptyBook(t *testing.T) {
	sc := New()
	assert.Empty(t, sc.Action("P"))
}

func TestMultiSymbolIsolation(t *testing.T) {
	sc := New()

	sc.Action("O 1 MSFT S 10 50.00000")
	// A marketable-looking IBM buy must not touch the MSFT ask.
	assert.Empty(t, sc.Action("O 2 IBM B 10 200.00000"))

	assert.Equal(t, []string{
		"P 2 IBM B 10 200.00000",
		"P 1 MSFT S 10 50.00000",
	}, sc.Action("P"))
}

func TestSnapshotSymbolsSorted(t *testing.T) {
	sc := New()
	sc.Action("O 1 ZZZ B 1 1.00000")
	sc.Action("O 2 AAA B 1 1.00000")
	sc.Action("O 3 MMM B 1 1.00000")

	assert.Equal(t, []string{
		"P 2 AAA B 1 1.00000",
		"P 3 MMM B 1 1.00000",
		"P 1 ZZZ B 1 1.00000",
	}, sc.Action("P"))
}

func TestBoundaryValues(t *testing.T) {
	sc := New()

	// Max oid, max qty, longest symbol, extreme prices.
	assert.Empty(t, sc.Action("O 4294967295 ABCD1234 S 65535 9999999.99999"))
	assert.Empty(t, sc.Action("O 1 A B 1 0.00001"))

	assert.Equal(t, []string{
		"P 1 A B 1 0.00001",
		"P 4294967295 ABCD1234 S 65535 9999999.99999",
	}, sc.Action("P"))
}

// Quantity conservation: every placed order's original quantity equals
// filled + cancelled-open + still-resting quantity.
func TestQuantityConservation(t *testing.T) {
	sc := New()

	placed := map[book.OrderID]int64{}
	place := func(id book.OrderID, side book.Side, qty int64, price string) []Result {
		px, err := book.ParsePrice(price)
		require.NoError(t, err)
		placed[id] = qty
		return sc.Place(book.Order{ID: id, Symbol: "IBM", Side: side, Qty: qty, Price: px})
	}

	filled := map[book.OrderID]int64{}
	record := func(results []Result) {
		for _, r := range results {
			if f, ok := r.(Fill); ok {
				filled[f.OID] += f.Qty
			}
		}
	}

	record(place(1, book.Buy, 10, "100.00000"))
	record(place(2, book.Buy, 7, "101.00000"))
	record(place(3, book.Sell, 12, "100.00000"))
	record(place(4, book.Sell, 20, "99.00000"))
	record(place(5, book.Buy, 3, "99.00000"))

	cancelled := map[book.OrderID]int64{}
	resting := map[book.OrderID]int64{}
	for _, r := range sc.Snapshot() {
		e := r.(BookEntry)
		resting[e.ID] = e.Qty
	}
	for id := range placed {
		if open, ok := resting[id]; ok {
			if ack := sc.Cancel(id); len(ack) == 1 {
				if _, isAck := ack[0].(CancelAck); isAck {
					cancelled[id] = open
				}
			}
		}
	}

	for id, orig := range placed {
		assert.Equal(t, orig, filled[id]+cancelled[id], "order %d", id)
	}
}

// Fill records come in aggressor/passive pairs with matching qty and
// price.
func TestFillSymmetry(t *testing.T) {
	sc := New()

	sc.Action("O 1 IBM S 4 100.00000")
	sc.Action("O 2 IBM S 6 100.00000")
	got := sc.Action("O 3 IBM B 10 100.00000")

	require.Equal(t, []string{
		"F 3 IBM 4 100.00000",
		"F 1 IBM 4 100.00000",
		"F 3 IBM 6 100.00000",
		"F 2 IBM 6 100.00000",
	}, got)
}
