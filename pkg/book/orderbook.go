package book

import (
	"container/heap"
	"sort"
)

type location struct {
	price Price
	side  Side
}

// OrderBook is the two-sided book for one symbol.
//
// Each side keeps a price -> FIFO slice of resting orders plus a heap
// of level prices for O(1) best-price peeks. The index maps every
// resting order id to its level so cancellation never scans the book.
type OrderBook struct {
	symbol string

	bidHeap *maxPriceHeap
	askHeap *minPriceHeap

	// Price level queues, FIFO within each price.
	bids map[Price][]*Order
	asks map[Price][]*Order

	index map[OrderID]location
}

func NewOrderBook(symbol string) *OrderBook {
	bidHeap := &maxPriceHeap{}
	askHeap := &minPriceHeap{}
	heap.Init(bidHeap)
	heap.Init(askHeap)

	return &OrderBook{
		symbol:  symbol,
		bidHeap: bidHeap,
		askHeap: askHeap,
		bids:    make(map[Price][]*Order),
		asks:    make(map[Price][]*Order),
		index:   make(map[OrderID]location),
	}
}

func (ob *OrderBook) Symbol() string { return ob.symbol }

// bestBid returns the highest bid price.
func (ob *OrderBook) bestBid() (Price, bool) {
	if ob.bidHeap.Len() == 0 {
		return 0, false
	}
	return ob.bidHeap.Peek(), true
}

// bestAsk returns the lowest ask price.
func (ob *OrderBook) bestAsk() (Price, bool) {
	if ob.askHeap.Len() == 0 {
		return 0, false
	}
	return ob.askHeap.Peek(), true
}

// BestBid returns the highest resting bid price, if any bid rests.
func (ob *OrderBook) BestBid() (Price, bool) { return ob.bestBid() }

// BestAsk returns the lowest resting ask price, if any ask rests.
func (ob *OrderBook) BestAsk() (Price, bool) { return ob.bestAsk() }

func (ob *OrderBook) addBid(p Price, o *Order) {
	if len(ob.bids[p]) == 0 {
		// New price level
		heap.Push(ob.bidHeap, p)
	}
	ob.bids[p] = append(ob.bids[p], o)
	ob.index[o.ID] = location{price: p, side: Buy}
}

func (ob *OrderBook) addAsk(p Price, o *Order) {
	if len(ob.asks[p]) == 0 {
		// New price level
		heap.Push(ob.askHeap, p)
	}
	ob.asks[p] = append(ob.asks[p], o)
	ob.index[o.ID] = location{price: p, side: Sell}
}

// Contains reports whether an order with this id currently rests.
func (ob *OrderBook) Contains(id OrderID) bool {
	_, ok := ob.index[id]
	return ok
}

// Cancel removes a resting order. Returns false when the id is not on
// the book.
func (ob *OrderBook) Cancel(id OrderID) bool {
	loc, ok := ob.index[id]
	if !ok {
		return false
	}

	levels := ob.bids
	if loc.side == Sell {
		levels = ob.asks
	}

	arr := levels[loc.price]
	for i, o := range arr {
		if o.ID == id {
			levels[loc.price] = append(arr[:i], arr[i+1:]...)
			if len(levels[loc.price]) == 0 {
				delete(levels, loc.price)
				ob.removeLevel(loc.side, loc.price)
			}
			delete(ob.index, id)
			return true
		}
	}
	return false
}

// removeLevel drops a price from the side's heap. O(P) worst case, but
// only runs when a level empties.
func (ob *OrderBook) removeLevel(side Side, price Price) {
	if side == Buy {
		for i := 0; i < ob.bidHeap.Len(); i++ {
			if (*ob.bidHeap)[i] == price {
				heap.Remove(ob.bidHeap, i)
				return
			}
		}
		return
	}
	for i := 0; i < ob.askHeap.Len(); i++ {
		if (*ob.askHeap)[i] == price {
			heap.Remove(ob.askHeap, i)
			return
		}
	}
}

// Place crosses o against the opposite side in price-time priority and
// rests any remainder. Fills execute at the resting order's price.
// Fully consumed makers leave their queue from the front; emptied
// levels leave the map and the heap before the next peek.
func (ob *OrderBook) Place(o *Order) []Fill {
	var fills []Fill

	if o.Side == Buy {
		for o.Qty > 0 {
			askP, ok := ob.bestAsk()
			if !ok || askP > o.Price {
				break
			}
			level := ob.asks[askP]
			if len(level) == 0 {
				delete(ob.asks, askP)
				ob.removeLevel(Sell, askP)
				continue
			}
			maker := level[0]
			match := min(o.Qty, maker.Qty)
			o.Qty -= match
			maker.Qty -= match
			fills = append(fills, Fill{TakerID: o.ID, MakerID: maker.ID, Price: askP, Qty: match})
			if maker.Qty == 0 {
				ob.asks[askP] = level[1:]
				delete(ob.index, maker.ID)
				if len(ob.asks[askP]) == 0 {
					delete(ob.asks, askP)
					ob.removeLevel(Sell, askP)
				}
			}
		}
		if o.Qty > 0 {
			ob.addBid(o.Price, o)
		}
	} else {
		for o.Qty > 0 {
			bidP, ok := ob.bestBid()
			if !ok || bidP < o.Price {
				break
			}
			level := ob.bids[bidP]
			if len(level) == 0 {
				delete(ob.bids, bidP)
				ob.removeLevel(Buy, bidP)
				continue
			}
			maker := level[0]
			match := min(o.Qty, maker.Qty)
			o.Qty -= match
			maker.Qty -= match
			fills = append(fills, Fill{TakerID: o.ID, MakerID: maker.ID, Price: bidP, Qty: match})
			if maker.Qty == 0 {
				ob.bids[bidP] = level[1:]
				delete(ob.index, maker.ID)
				if len(ob.bids[bidP]) == 0 {
					delete(ob.bids, bidP)
					ob.removeLevel(Buy, bidP)
				}
			}
		}
		if o.Qty > 0 {
			ob.addAsk(o.Price, o)
		}
	}
	return fills
}

// Entries lists every resting order in display order: asks from the
// highest price down with the most recent arrival first within a
// level, then bids from the highest price down in arrival order. This
// reproduces the book printer's ladder: reading top to bottom, prices
// never increase and asks sit above bids.
func (ob *OrderBook) Entries() []Entry {
	entries := make([]Entry, 0, len(ob.index))

	// Asks: collect ascending by price in arrival order, then reverse
	// the whole run.
	askPrices := make([]Price, 0, len(ob.asks))
	for p := range ob.asks {
		askPrices = append(askPrices, p)
	}
	sort.Slice(askPrices, func(i, j int) bool { return askPrices[i] < askPrices[j] })

	var askRun []Entry
	for _, p := range askPrices {
		for _, o := range ob.asks[p] {
			askRun = append(askRun, Entry{ID: o.ID, Symbol: o.Symbol, Side: o.Side, Qty: o.Qty, Price: o.Price})
		}
	}
	for i := len(askRun) - 1; i >= 0; i-- {
		entries = append(entries, askRun[i])
	}

	// Bids: descending by price, arrival order within a level.
	bidPrices := make([]Price, 0, len(ob.bids))
	for p := range ob.bids {
		bidPrices = append(bidPrices, p)
	}
	sort.Slice(bidPrices, func(i, j int) bool { return bidPrices[i] > bidPrices[j] })

	for _, p := range bidPrices {
		for _, o := range ob.bids[p] {
			entries = append(entries, Entry{ID: o.ID, Symbol: o.Symbol, Side: o.Side, Qty: o.Qty, Price: o.Price})
		}
	}

	return entries
}

// Depth returns the number of resting orders on each side.
func (ob *OrderBook) Depth() (bids, asks int) {
	for _, level := range ob.bids {
		bids += len(level)
	}
	for _, level := range ob.asks {
		asks += len(level)
	}
	return bids, asks
}
