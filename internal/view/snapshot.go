package view

import (
	"github.com/okian/leaderview/internal/domain/paging"
	"github.com/okian/leaderview/internal/domain/share"
)

// Snapshot is everything a renderer needs, derived from State.
type Snapshot struct {
	Version            uint64       `json:"version"`
	Options            []Option     `json:"options"`
	Selected           string       `json:"selected"`
	Pagination         Pagination   `json:"pagination"`
	Rows               []Row        `json:"rows"`
	TotalRows          int          `json:"total_rows"`
	Dialog             share.Dialog `json:"dialog"`
	ConfigLoading      bool         `json:"config_loading"`
	LeaderboardLoading bool         `json:"leaderboard_loading"`
	// Empty is true when there is nothing to show and neither fetch is in flight ("No data found").
	Empty bool `json:"empty"`
}

// Option is a dropdown entry.
type Option struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Pagination mirrors paging.Window for renderers.
type Pagination struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	PageSize   int  `json:"page_size"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// Row is a visible leaderboard row.
type Row struct {
	Rank       int    `json:"rank"`
	Name       string `json:"name"`
	Passed     int    `json:"passed"`
	Total      int    `json:"total"`
	TotalTime  string `json:"total_time"`
	TxID       string `json:"tx_id,omitempty"`
	ResultsURL string `json:"results_url,omitempty"`
}

// Snapshot derives the render model of s.
func (s State) Snapshot() Snapshot {
	opts := make([]Option, len(s.options))
	for i, o := range s.options {
		opts[i] = Option{ID: o.ID, Label: o.Label, Selected: o.ID == s.selected}
	}

	w := paging.Compute(len(s.rows), s.page)
	visible := paging.Slice(s.rows, w)
	rows := make([]Row, len(visible))
	for i, e := range visible {
		link, _ := share.ResultsURL(s.opts.FrontendURL, e.TxID)
		rows[i] = Row{
			Rank:       w.Start + i + 1,
			Name:       e.Name,
			Passed:     e.Count,
			Total:      e.Total,
			TotalTime:  e.TotalTime.String(),
			TxID:       e.TxID,
			ResultsURL: link,
		}
	}

	return Snapshot{
		Version:  s.version,
		Options:  opts,
		Selected: s.selected,
		Pagination: Pagination{
			Page:       w.Page,
			TotalPages: w.TotalPages,
			PageSize:   paging.PageSize,
			HasPrev:    w.HasPrev,
			HasNext:    w.HasNext,
		},
		Rows:               rows,
		TotalRows:          len(s.rows),
		Dialog:             s.dialog,
		ConfigLoading:      s.configLoading,
		LeaderboardLoading: s.leaderboardLoading,
		Empty:              len(s.rows) == 0 && !s.leaderboardLoading && !s.configLoading,
	}
}
