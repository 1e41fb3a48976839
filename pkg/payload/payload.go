// Package payload holds the JSON messages exchanged over the stock-raw and
// trade-signals topics.
package payload

import (
	"encoding/json"
	"time"
)

const (
	// TopicStockRaw carries price ticks keyed by symbol.
	TopicStockRaw = "stock-raw"
	// TopicTradeSignals carries BUY/SELL signals keyed by symbol.
	TopicTradeSignals = "trade-signals"
)

// TickPayload is a price tick as published on stock-raw. Price and
// Timestamp are pointers so a missing field can be told apart from a zero.
type TickPayload struct {
	Symbol    string     `json:"symbol"`
	Price     *float64   `json:"price"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// SignalPayload is a trading signal as published on trade-signals.
type SignalPayload struct {
	Symbol    string    `json:"symbol"`
	Signal    string    `json:"signal"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTickPayload builds a complete tick.
func NewTickPayload(symbol string, price float64, ts time.Time) TickPayload {
	ts = ts.UTC()
	return TickPayload{
		Symbol:    symbol,
		Price:     &price,
		Timestamp: &ts,
	}
}

// DecodeTick unmarshals a stock-raw message value.
func DecodeTick(data []byte) (TickPayload, error) {
	var tick TickPayload
	err := json.Unmarshal(data, &tick)
	return tick, err
}

// DecodeSignal unmarshals a trade-signals message value.
func DecodeSignal(data []byte) (SignalPayload, error) {
	var sig SignalPayload
	err := json.Unmarshal(data, &sig)
	return sig, err
}

// Encode marshals any payload to its wire form.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
