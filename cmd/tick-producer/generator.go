package main

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/payload"
)

// Quote is a symbol and the price ticks fluctuate around.
type Quote struct {
	Symbol    string
	BasePrice float64
}

// DefaultQuotes is the synthetic universe.
var DefaultQuotes = []Quote{
	{Symbol: "AAPL", BasePrice: 150},
	{Symbol: "GOOGL", BasePrice: 2800},
	{Symbol: "AMZN", BasePrice: 3400},
	{Symbol: "TSLA", BasePrice: 900},
	{Symbol: "MSFT", BasePrice: 300},
}

// Generator produces random ticks within ±1% of each base price.
type Generator struct {
	quotes []Quote
	rnd    *rand.Rand
	now    func() time.Time
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(quotes []Quote, seed uint64) *Generator {
	return &Generator{
		quotes: quotes,
		rnd:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:    time.Now,
	}
}

// Next picks a random symbol and prices it.
func (g *Generator) Next() payload.TickPayload {
	q := g.quotes[g.rnd.IntN(len(g.quotes))]
	price := q.BasePrice + q.BasePrice*0.02*(g.rnd.Float64()-0.5)
	return payload.NewTickPayload(q.Symbol, round2(price), g.now().UTC())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
