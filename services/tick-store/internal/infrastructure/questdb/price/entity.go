package price

import (
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/payload"
	"github.com/segmentio/kafka-go"
)

// Price is one row of the stock_price table.
type Price struct {
	Timestamp time.Time
	Symbol    string
	Price     float64
}

// FromPayload maps a stock-raw message onto a row. Ticks without a symbol
// or price are rejected; a missing timestamp becomes fallback.
func FromPayload(p payload.TickPayload, fallback time.Time) (*Price, bool) {
	if p.Symbol == "" || p.Price == nil {
		return nil, false
	}

	row := &Price{Symbol: p.Symbol, Price: *p.Price, Timestamp: fallback}
	if p.Timestamp != nil && !p.Timestamp.IsZero() {
		row.Timestamp = *p.Timestamp
	}
	return row, true
}

// Decode parses a message value into a row, using the message time when the
// payload carries none.
func Decode(msg kafka.Message) (*Price, bool) {
	p, err := payload.DecodeTick(msg.Value)
	if err != nil {
		return nil, false
	}
	return FromPayload(p, msg.Time)
}
