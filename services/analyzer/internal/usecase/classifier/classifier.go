package classifier

import signalv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/signal/v1"

// Classify compares the fast and slow averages. Equality is exact; no
// tolerance is applied.
func Classify(fastMA, slowMA float64) signalv1.Direction {
	switch {
	case fastMA > slowMA:
		return signalv1.Buy
	case fastMA < slowMA:
		return signalv1.Sell
	default:
		return signalv1.Hold
	}
}
