// Package indicator computes the moving averages the classifier compares.
package indicator

// Average returns the arithmetic mean of prices, or 0 when prices is empty.
// The sum is recomputed on every call so no error accumulates across ticks.
func Average(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}

	var sum float64
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

// FastSlow returns the mean of the last fast prices and the mean of the
// whole snapshot. A fast window larger than the snapshot uses all of it.
func FastSlow(snapshot []float64, fast int) (fastMA, slowMA float64) {
	if fast > len(snapshot) {
		fast = len(snapshot)
	}
	if fast < 0 {
		fast = 0
	}
	return Average(snapshot[len(snapshot)-fast:]), Average(snapshot)
}
