package cross

import (
	"strconv"
	"strings"

	"github.com/budlinville/simplecross/pkg/book"
)

// Canonical rejection reasons. The dispatcher reports these verbatim;
// the HTTP surface passes on only the ones the engine itself returns
// (duplicate id, not on book) and words its own field validation.
const (
	reasonEmptyAction     = "Empty action"
	reasonUnknownAction   = "Unknown action"
	reasonMalformedPlace  = "Malformed place action"
	reasonMalformedCancel = "Malformed cancel action"
	reasonMalformedPrint  = "Malformed print action"
	reasonInvalidOrderID  = "Invalid order id"
	reasonInvalidSymbol   = "Invalid symbol"
	reasonInvalidSide     = "Invalid side"
	reasonInvalidQty      = "Invalid quantity"
	reasonInvalidPrice    = "Invalid price"
	reasonDuplicateID     = "Duplicate order id"
	reasonNotOnBook       = "Order ID not on book"
)

// parseOID parses a positive 32-bit order id.
func parseOID(tok string) (book.OrderID, bool) {
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return book.OrderID(v), true
}

// oidHint best-effort parses an order id so an error line can carry it.
func oidHint(fields []string) book.OrderID {
	if len(fields) < 2 {
		return 0
	}
	oid, ok := parseOID(fields[1])
	if !ok {
		return 0
	}
	return oid
}

func validSymbol(s string) bool {
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

// parsePlace validates the five operands of an O action. The returned
// ErrorResult carries the order id whenever it parsed cleanly.
func parsePlace(fields []string) (book.Order, *ErrorResult) {
	if len(fields) != 6 {
		return book.Order{}, &ErrorResult{OID: oidHint(fields), Reason: reasonMalformedPlace}
	}

	oid, ok := parseOID(fields[1])
	if !ok {
		return book.Order{}, &ErrorResult{Reason: reasonInvalidOrderID}
	}
	if !validSymbol(fields[2]) {
		return book.Order{}, &ErrorResult{OID: oid, Reason: reasonInvalidSymbol}
	}

	var side book.Side
	switch fields[3] {
	case "B":
		side = book.Buy
	case "S":
		side = book.Sell
	default:
		return book.Order{}, &ErrorResult{OID: oid, Reason: reasonInvalidSide}
	}

	qty, err := strconv.ParseUint(fields[4], 10, 16)
	if err != nil || qty == 0 {
		return book.Order{}, &ErrorResult{OID: oid, Reason: reasonInvalidQty}
	}

	px, err := book.ParsePrice(fields[5])
	if err != nil {
		return book.Order{}, &ErrorResult{OID: oid, Reason: reasonInvalidPrice}
	}

	return book.Order{
		ID:     oid,
		Symbol: fields[2],
		Side:   side,
		Qty:    int64(qty),
		Price:  px,
	}, nil
}

// Action parses one raw input line, runs it against the engine, and
// renders the result lines. It is total: any failure yields exactly
// one E line and leaves the book untouched.
func (sc *SimpleCross) Action(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return []string{ErrorResult{Reason: reasonEmptyAction}.Line()}
	}

	switch fields[0] {
	case "O":
		order, rej := parsePlace(fields)
		if rej != nil {
			return []string{rej.Line()}
		}
		return Lines(sc.Place(order))
	case "X":
		if len(fields) != 2 {
			return []string{ErrorResult{OID: oidHint(fields), Reason: reasonMalformedCancel}.Line()}
		}
		oid, ok := parseOID(fields[1])
		if !ok {
			return []string{ErrorResult{Reason: reasonInvalidOrderID}.Line()}
		}
		return Lines(sc.Cancel(oid))
	case "P":
		if len(fields) != 1 {
			return []string{ErrorResult{Reason: reasonMalformedPrint}.Line()}
		}
		return Lines(sc.Snapshot())
	default:
		return []string{ErrorResult{Reason: reasonUnknownAction}.Line()}
	}
}
