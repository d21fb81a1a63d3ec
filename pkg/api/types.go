package api

// PlaceOrderRequest is the JSON body for POST /api/v1/orders. Price is
// 7.5-format text so the wire carries exactly what the action stream
// would.
type PlaceOrderRequest struct {
	OID    uint32 `json:"oid"`
	Symbol string `json:"symbol"`
	Side   string `json:"side"`
	Qty    uint32 `json:"qty"`
	Price  string `json:"price"`
}

// CancelOrderRequest is the JSON body for POST /api/v1/orders/cancel.
type CancelOrderRequest struct {
	OID uint32 `json:"oid"`
}

// ResultView is one engine outcome. Type mirrors the result line kind:
// "fill", "cancel", "entry", or "error".
type ResultView struct {
	Type   string `json:"type"`
	OID    uint32 `json:"oid"`
	Symbol string `json:"symbol,omitempty"`
	Side   string `json:"side,omitempty"`
	Qty    int64  `json:"qty,omitempty"`
	Price  string `json:"price,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// ActionResponse wraps the outcomes of one place or cancel.
type ActionResponse struct {
	Results []ResultView `json:"results"`
}

// BookResponse is the full snapshot, in display order.
type BookResponse struct {
	Entries []ResultView `json:"entries"`
}

// SymbolBookResponse is one symbol's snapshot plus best prices.
type SymbolBookResponse struct {
	Symbol  string       `json:"symbol"`
	BestBid string       `json:"best_bid,omitempty"`
	BestAsk string       `json:"best_ask,omitempty"`
	Entries []ResultView `json:"entries"`
}

// ErrorResponse reports a request-level failure (bad JSON, bad field).
type ErrorResponse struct {
	Error string `json:"error"`
}
