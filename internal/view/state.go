// Package view is the leaderboard view as a pure state machine.
//
// Update applies one message to a State and returns the next State plus the
// effects (fetches) the runtime must perform. Runtimes deliver messages one
// at a time; effect results come back as ConfigLoaded / LeaderboardLoaded.
package view

import (
	"github.com/okian/leaderview/internal/domain/share"
	"github.com/okian/leaderview/internal/domain/types"
)

// Options configures a view.
type Options struct {
	// FrontendURL is the base of shareable results links.
	FrontendURL string
	// FenceStale drops leaderboard responses that belong to a superseded request.
	// When false, the last response to arrive wins regardless of order.
	FenceStale bool
}

// State is the complete view state. The zero value is not usable; call New.
type State struct {
	opts Options

	mounted bool
	config  types.MilestoneConfig
	options []types.MilestoneOption // derived once from config

	selected string
	seq      uint64 // sequence number of the latest leaderboard request

	rows []types.Entry
	page int

	dialog share.Dialog

	configLoading      bool
	leaderboardLoading bool

	version uint64
}

// New returns the initial, unmounted state.
func New(opts Options) State {
	return State{opts: opts, page: 1}
}

// Selected returns the active milestone id ("" before the config arrives).
func (s State) Selected() string { return s.selected }

// Options returns the selectable milestones.
func (s State) Options() []types.MilestoneOption { return s.options }

// Rows returns the full row set of the active milestone.
func (s State) Rows() []types.Entry { return s.rows }

// Page returns the current 1-based page.
func (s State) Page() int { return s.page }

// Dialog returns the share dialog state.
func (s State) Dialog() share.Dialog { return s.dialog }

// Loading reports whether the config or the leaderboard is being fetched.
func (s State) Loading() bool { return s.configLoading || s.leaderboardLoading }

// LeaderboardLoading reports whether a leaderboard fetch is in flight.
func (s State) LeaderboardLoading() bool { return s.leaderboardLoading }

// ConfigLoading reports whether the milestone document is being fetched.
func (s State) ConfigLoading() bool { return s.configLoading }

// Version increases on every state change.
func (s State) Version() uint64 { return s.version }

// Stale reports whether m answers a request older than the latest one and
// would therefore be dropped by Update.
func (s State) Stale(m LeaderboardLoaded) bool {
	return s.opts.FenceStale && m.Seq != s.seq
}
