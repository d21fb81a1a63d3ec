// Package api exposes the matching engine over HTTP: order entry,
// cancellation, book snapshots, health, and Prometheus metrics. The
// engine itself serializes actions, so handlers stay lock-free.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/budlinville/simplecross/pkg/book"
	"github.com/budlinville/simplecross/pkg/cross"
)

// Server handles the REST surface over one engine instance.
type Server struct {
	engine *cross.SimpleCross
	router *mux.Router
	log    *zap.SugaredLogger
}

func NewServer(engine *cross.SimpleCross, log *zap.SugaredLogger) *Server {
	s := &Server{
		engine: engine,
		router: mux.NewRouter(),
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handlePlaceOrder).Methods("POST")
	api.HandleFunc("/orders/cancel", s.handleCancelOrder).Methods("POST")
	api.HandleFunc("/book", s.handleGetBook).Methods("GET")
	api.HandleFunc("/book/{symbol}", s.handleGetSymbolBook).Methods("GET")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the full middleware-wrapped handler chain.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.instrument(s.router))
}

// Start serves until the listener fails.
func (s *Server) Start(addr string) error {
	s.log.Infow("api_server_starting", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, reason := req.toOrder()
	if reason != "" {
		actionsTotal.WithLabelValues("place", "rejected").Inc()
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: reason})
		return
	}

	results := s.engine.Place(order)

	status := http.StatusOK
	outcome := "ok"
	if len(results) == 1 {
		if _, rejected := results[0].(cross.ErrorResult); rejected {
			// The only engine-level place rejection is a duplicate id.
			status = http.StatusConflict
			outcome = "rejected"
		}
	}
	actionsTotal.WithLabelValues("place", outcome).Inc()
	s.observeBook(order.Symbol, results)

	writeJSON(w, status, ActionResponse{Results: resultViews(results)})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.OID == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "oid must be positive"})
		return
	}

	results := s.engine.Cancel(book.OrderID(req.OID))

	status := http.StatusOK
	outcome := "ok"
	if _, rejected := results[0].(cross.ErrorResult); rejected {
		status = http.StatusNotFound
		outcome = "rejected"
	}
	actionsTotal.WithLabelValues("cancel", outcome).Inc()

	writeJSON(w, status, ActionResponse{Results: resultViews(results)})
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	results := s.engine.Snapshot()
	writeJSON(w, http.StatusOK, BookResponse{Entries: resultViews(results)})
}

func (s *Server) handleGetSymbolBook(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	entries, ok := s.engine.EntriesFor(symbol)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "unknown symbol"})
		return
	}

	resp := SymbolBookResponse{Symbol: symbol}
	bid, hasBid, ask, hasAsk := s.engine.Best(symbol)
	if hasBid {
		resp.BestBid = bid.String()
	}
	if hasAsk {
		resp.BestAsk = ask.String()
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, entryView(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// observeBook refreshes the per-symbol gauges and fill counters after
// an order-changing action.
func (s *Server) observeBook(symbol string, results []cross.Result) {
	fills := 0
	for _, res := range results {
		if _, ok := res.(cross.Fill); ok {
			fills++
		}
	}
	// Two fill records per match.
	if fills > 0 {
		matchesTotal.WithLabelValues(symbol).Add(float64(fills / 2))
	}

	bids, asks := s.engine.Depth(symbol)
	bookDepth.WithLabelValues(symbol, "B").Set(float64(bids))
	bookDepth.WithLabelValues(symbol, "S").Set(float64(asks))
}

// toOrder validates the request the same way the line dispatcher
// validates its operands.
func (req PlaceOrderRequest) toOrder() (book.Order, string) {
	if req.OID == 0 {
		return book.Order{}, "oid must be positive"
	}
	if !validAPISymbol(req.Symbol) {
		return book.Order{}, "symbol must be 1-8 alphanumeric characters"
	}

	var side book.Side
	switch req.Side {
	case "B":
		side = book.Buy
	case "S":
		side = book.Sell
	default:
		return book.Order{}, "side must be B or S"
	}

	if req.Qty == 0 || req.Qty > 65535 {
		return book.Order{}, "qty must be 1-65535"
	}

	px, err := book.ParsePrice(req.Price)
	if err != nil {
		return book.Order{}, "price must be positive 7.5-format decimal"
	}

	return book.Order{
		ID:     book.OrderID(req.OID),
		Symbol: req.Symbol,
		Side:   side,
		Qty:    int64(req.Qty),
		Price:  px,
	}, ""
}

func validAPISymbol(s string) bool {
	if len(s) == 0 || len(s) > 8 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		default:
			return false
		}
	}
	return true
}

func entryView(e book.Entry) ResultView {
	return ResultView{
		Type:   "entry",
		OID:    uint32(e.ID),
		Symbol: e.Symbol,
		Side:   e.Side.String(),
		Qty:    e.Qty,
		Price:  e.Price.String(),
	}
}

func resultViews(results []cross.Result) []ResultView {
	views := make([]ResultView, 0, len(results))
	for _, res := range results {
		switch r := res.(type) {
		case cross.Fill:
			views = append(views, ResultView{
				Type:   "fill",
				OID:    uint32(r.OID),
				Symbol: r.Symbol,
				Qty:    r.Qty,
				Price:  r.Price.String(),
			})
		case cross.CancelAck:
			views = append(views, ResultView{Type: "cancel", OID: uint32(r.OID)})
		case cross.BookEntry:
			views = append(views, entryView(r.Entry))
		case cross.ErrorResult:
			views = append(views, ResultView{Type: "error", OID: uint32(r.OID), Reason: r.Reason})
		}
	}
	return views
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
