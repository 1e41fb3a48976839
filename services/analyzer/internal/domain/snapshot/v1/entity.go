package snapshotv1

import (
	"time"

	signalv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/signal/v1"
)

// Snapshot is the saved price history of every tracked symbol.
type Snapshot struct {
	TakenAt   time.Time            `json:"takenAt"`
	Histories map[string][]float64 `json:"histories"`
	// Directions holds the last classification per symbol in crossover mode.
	Directions map[string]signalv1.Direction `json:"directions,omitempty"`
}
