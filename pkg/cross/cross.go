// Package cross implements the matching engine behind the action
// stream: a book per symbol, price-time priority crossing, cancel by
// order id, and the sorted book snapshot.
package cross

import (
	"sort"
	"sync"

	"github.com/budlinville/simplecross/pkg/book"
)

// SimpleCross matches incoming orders against resting ones across all
// symbols.
//
// seen holds every order id ever accepted; the duplicate-id rule
// rejects reuse even after the original order filled or cancelled, so
// tracking live ids alone is not enough. located holds the symbol of
// each currently resting order so cancels find the right book without
// scanning.
//
// One mutex serializes whole actions. Each operation runs to
// completion under it, so the file driver and the HTTP surface can
// share an instance while results keep their per-action ordering.
type SimpleCross struct {
	mu      sync.Mutex
	books   map[string]*book.OrderBook
	located map[book.OrderID]string
	seen    map[book.OrderID]struct{}
}

func New() *SimpleCross {
	return &SimpleCross{
		books:   make(map[string]*book.OrderBook),
		located: make(map[book.OrderID]string),
		seen:    make(map[book.OrderID]struct{}),
	}
}

// Place runs the cross phase against o's symbol book and rests any
// remainder. Every match yields two fills, aggressor first, both at
// the resting price. A duplicate id is rejected before anything
// mutates.
func (sc *SimpleCross) Place(o book.Order) []Result {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if _, dup := sc.seen[o.ID]; dup {
		return []Result{ErrorResult{OID: o.ID, Reason: reasonDuplicateID}}
	}
	sc.seen[o.ID] = struct{}{}

	ob, ok := sc.books[o.Symbol]
	if !ok {
		ob = book.NewOrderBook(o.Symbol)
		sc.books[o.Symbol] = ob
	}

	fills := ob.Place(&o)

	var results []Result
	for _, f := range fills {
		results = append(results,
			Fill{OID: f.TakerID, Symbol: o.Symbol, Qty: f.Qty, Price: f.Price},
			Fill{OID: f.MakerID, Symbol: o.Symbol, Qty: f.Qty, Price: f.Price},
		)
		if !ob.Contains(f.MakerID) {
			delete(sc.located, f.MakerID)
		}
	}
	if ob.Contains(o.ID) {
		sc.located[o.ID] = o.Symbol
	}
	return results
}

// Cancel removes a resting order. An id that was never accepted,
// already filled, or already cancelled reports the same error.
func (sc *SimpleCross) Cancel(oid book.OrderID) []Result {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	symbol, ok := sc.located[oid]
	if !ok {
		return []Result{ErrorResult{OID: oid, Reason: reasonNotOnBook}}
	}
	if !sc.books[symbol].Cancel(oid) {
		return []Result{ErrorResult{OID: oid, Reason: reasonNotOnBook}}
	}
	delete(sc.located, oid)
	return []Result{CancelAck{OID: oid}}
}

// Snapshot lists every resting order, symbols in lexicographic order,
// each symbol rendered asks-above-bids with prices descending.
func (sc *SimpleCross) Snapshot() []Result {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var results []Result
	for _, symbol := range sc.symbolsLocked() {
		for _, e := range sc.books[symbol].Entries() {
			results = append(results, BookEntry{Entry: e})
		}
	}
	return results
}

// Symbols returns the symbols seen so far, sorted.
func (sc *SimpleCross) Symbols() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.symbolsLocked()
}

func (sc *SimpleCross) symbolsLocked() []string {
	symbols := make([]string, 0, len(sc.books))
	for s := range sc.books {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// EntriesFor returns one symbol's resting orders in snapshot order.
// The second result is false for a symbol no order ever touched.
func (sc *SimpleCross) EntriesFor(symbol string) ([]book.Entry, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	ob, ok := sc.books[symbol]
	if !ok {
		return nil, false
	}
	return ob.Entries(), true
}

// Best returns the best bid and ask for a symbol. Zero with false
// means that side is empty.
func (sc *SimpleCross) Best(symbol string) (bid book.Price, hasBid bool, ask book.Price, hasAsk bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	ob, ok := sc.books[symbol]
	if !ok {
		return 0, false, 0, false
	}
	bid, hasBid = ob.BestBid()
	ask, hasAsk = ob.BestAsk()
	return bid, hasBid, ask, hasAsk
}

// Depth returns resting order counts per side for a symbol.
func (sc *SimpleCross) Depth(symbol string) (bids, asks int) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	ob, ok := sc.books[symbol]
	if !ok {
		return 0, 0
	}
	return ob.Depth()
}
