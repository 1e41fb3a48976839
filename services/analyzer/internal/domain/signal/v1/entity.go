package signalv1

import (
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/payload"
)

// Direction is the outcome of comparing the fast and slow averages.
type Direction string

const (
	// Buy means the fast average is above the slow average.
	Buy Direction = "BUY"
	// Sell means the fast average is below the slow average.
	Sell Direction = "SELL"
	// Hold means both averages are exactly equal. It is never emitted.
	Hold Direction = "HOLD"
)

// Signal is an actionable trading recommendation for one symbol.
type Signal struct {
	Symbol    string
	Direction Direction
	Price     float64
	EmittedAt time.Time
}

// ToPayload converts the signal to its trade-signals wire form.
func (s *Signal) ToPayload() payload.SignalPayload {
	return payload.SignalPayload{
		Symbol:    s.Symbol,
		Signal:    string(s.Direction),
		Price:     s.Price,
		Timestamp: s.EmittedAt.UTC(),
	}
}
