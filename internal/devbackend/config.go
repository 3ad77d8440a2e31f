// Package devbackend is a stand-in for the leaderboard backend and the
// milestone document host, for running the view locally.
package devbackend

import (
	"time"

	"github.com/okian/leaderview/internal/domain/types"
)

// Config holds configuration for the development backend.
type Config struct {
	Addr       string            // Listen address
	Milestones []types.Milestone // Published milestone document
	Rows       int               // Rows generated per milestone
	ShareRatio float64           // Fraction of rows that carry a tx_id, 0..1
	NonArray   []string          // Milestone ids answered with a JSON object
	MaxLatency time.Duration     // Upper bound of the random delay per leaderboard request
}

// DefaultConfig returns a backend with two milestones, one with an extended round.
func DefaultConfig() Config {
	return Config{
		Addr: ":8000",
		Milestones: []types.Milestone{
			{ID: "m1", Label: "Milestone 1", Enabled: true, ExtendedEnabled: true},
			{ID: "m2", Label: "Milestone 2", Enabled: true},
			{ID: "m3", Label: "Milestone 3", Enabled: false},
		},
		Rows:       23,
		ShareRatio: 0.7,
	}
}
