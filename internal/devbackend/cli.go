package devbackend

import "os"

// ShowHelp prints usage information for the dev backend.
func ShowHelp() {
	os.Stdout.WriteString(`Leaderboard Dev Backend
=======================

Serves a milestone document and random leaderboards so the view can run
without the real backend.

Usage:
  go run ./cmd/devbackend [options]

Options:
  -addr string
        Listen address (default ":8000")
  -rows int
        Rows generated per milestone (default 23)
  -share float
        Fraction of rows with a tx_id (default 0.7)
  -non-array string
        Comma separated milestone ids answered with a JSON object
  -latency duration
        Upper bound of the random delay per leaderboard request (default 0)
  -help
        Show this help message

Routes:
  GET /milestones.json
  GET /leaderboard?milestone=<id>

Examples:
  # Slow responses to watch stale results being dropped
  go run ./cmd/devbackend -latency 2s

  # Exercise the empty state
  go run ./cmd/devbackend -non-array m2
`)
}
