package view

import "github.com/okian/leaderview/internal/domain/types"

// Msg is an input to Update. Every message names its kind for logs and metrics.
type Msg interface {
	Kind() string
}

// Mount starts the view: the milestone document is requested once.
type Mount struct{}

// ConfigLoaded carries the outcome of FetchConfig.
type ConfigLoaded struct {
	Config types.MilestoneConfig
	Err    error
}

// SelectMilestone changes the active milestone.
type SelectMilestone struct {
	ID string
}

// LeaderboardLoaded carries the outcome of FetchLeaderboard.
type LeaderboardLoaded struct {
	Milestone string
	Seq       uint64
	Rows      []types.Entry
	Err       error
}

// NextPage moves one page forward.
type NextPage struct{}

// PrevPage moves one page back.
type PrevPage struct{}

// OpenShare opens the share dialog for a row's transaction.
type OpenShare struct {
	TxID string
}

// CloseShare hides the share dialog.
type CloseShare struct{}

func (Mount) Kind() string             { return "mount" }
func (ConfigLoaded) Kind() string      { return "config_loaded" }
func (SelectMilestone) Kind() string   { return "select_milestone" }
func (LeaderboardLoaded) Kind() string { return "leaderboard_loaded" }
func (NextPage) Kind() string          { return "next_page" }
func (PrevPage) Kind() string          { return "prev_page" }
func (OpenShare) Kind() string         { return "open_share" }
func (CloseShare) Kind() string        { return "close_share" }

// Effect is work Update asks the runtime to perform. Results come back as messages.
type Effect interface {
	effect()
}

// FetchConfig requests the milestone document; reply with ConfigLoaded.
type FetchConfig struct{}

// FetchLeaderboard requests rows for Milestone; reply with LeaderboardLoaded carrying Seq.
type FetchLeaderboard struct {
	Milestone string
	Seq       uint64
}

func (FetchConfig) effect()      {}
func (FetchLeaderboard) effect() {}
