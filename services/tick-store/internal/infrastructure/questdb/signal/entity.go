package signal

import (
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/payload"
	"github.com/segmentio/kafka-go"
)

// Signal is one row of the trade_signals table.
type Signal struct {
	Timestamp time.Time
	Symbol    string
	Signal    string
	Price     float64
}

// FromPayload maps a trade-signals message onto a row.
func FromPayload(p payload.SignalPayload, fallback time.Time) (*Signal, bool) {
	if p.Symbol == "" || (p.Signal != "BUY" && p.Signal != "SELL") {
		return nil, false
	}

	row := &Signal{Symbol: p.Symbol, Signal: p.Signal, Price: p.Price, Timestamp: p.Timestamp}
	if row.Timestamp.IsZero() {
		row.Timestamp = fallback
	}
	return row, true
}

// Decode parses a message value into a row, using the message time when the
// payload carries none.
func Decode(msg kafka.Message) (*Signal, bool) {
	p, err := payload.DecodeSignal(msg.Value)
	if err != nil {
		return nil, false
	}
	return FromPayload(p, msg.Time)
}
