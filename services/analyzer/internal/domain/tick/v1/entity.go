package tickv1

import (
	"math"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/payload"
)

// Tick is one observed trade price for a symbol.
type Tick struct {
	Symbol    string
	Price     float64
	Timestamp time.Time
}

func malformed(message, field string, object any) error {
	return errors.NewErrorDetailsWithObject(message, string(errors.MalformedTickError), field, object)
}

// FromPayload converts a decoded stock-raw message into a Tick. A missing
// timestamp is replaced by fallback.
func FromPayload(p payload.TickPayload, fallback time.Time) (*Tick, error) {
	if p.Price == nil {
		return nil, malformed("tick has no price", "price", p)
	}

	tick := &Tick{
		Symbol:    p.Symbol,
		Price:     *p.Price,
		Timestamp: fallback,
	}
	if p.Timestamp != nil && !p.Timestamp.IsZero() {
		tick.Timestamp = *p.Timestamp
	}

	if err := tick.Validate(); err != nil {
		return nil, err
	}
	return tick, nil
}

// Validate reports a MalformedTick error when the symbol is empty or the
// price is NaN or infinite. Zero and negative prices are accepted.
func (t *Tick) Validate() error {
	if t == nil {
		return malformed("tick is nil", "", nil)
	}
	if t.Symbol == "" {
		return malformed("tick has no symbol", "symbol", t)
	}
	if math.IsNaN(t.Price) || math.IsInf(t.Price, 0) {
		return malformed("tick price is not a finite number", "price", t)
	}
	return nil
}
