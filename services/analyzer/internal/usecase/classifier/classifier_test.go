package classifier

import (
	"math"
	"testing"

	signalv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/signal/v1"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		fast     float64
		slow     float64
		expected signalv1.Direction
	}{
		{name: "fast above slow", fast: 102.5, slow: 101.5, expected: signalv1.Buy},
		{name: "fast below slow", fast: 100.5, slow: 101.5, expected: signalv1.Sell},
		{name: "equal", fast: 100, slow: 100, expected: signalv1.Hold},
		{name: "smallest difference still counts", fast: math.Nextafter(100, 101), slow: 100, expected: signalv1.Buy},
		{name: "negative prices", fast: -1, slow: -2, expected: signalv1.Buy},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.fast, tc.slow))
		})
	}
}
