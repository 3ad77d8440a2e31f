package view

import (
	"github.com/okian/leaderview/internal/domain/milestone"
	"github.com/okian/leaderview/internal/domain/paging"
	"github.com/okian/leaderview/internal/domain/types"
)

// Update applies msg to s. A message that changes nothing returns s unchanged
// (same Version) and no effects.
func Update(s State, msg Msg) (State, []Effect) {
	switch m := msg.(type) {
	case Mount:
		if s.mounted {
			return s, nil
		}
		s.mounted = true
		s.configLoading = true
		return s.bump(), []Effect{FetchConfig{}}

	case ConfigLoaded:
		s.configLoading = false
		if m.Err != nil {
			s.config = types.MilestoneConfig{}
		} else {
			s.config = m.Config
		}
		s.options = milestone.BuildOptions(s.config)

		var effects []Effect
		if s.selected == "" {
			if id, ok := milestone.DefaultSelection(s.options); ok {
				var eff Effect
				s, eff = s.selectMilestone(id)
				effects = append(effects, eff)
			}
		}
		return s.bump(), effects

	case SelectMilestone:
		if m.ID == s.selected || !milestone.Contains(s.options, m.ID) {
			return s, nil
		}
		var eff Effect
		s, eff = s.selectMilestone(m.ID)
		return s.bump(), []Effect{eff}

	case LeaderboardLoaded:
		if s.Stale(m) {
			return s, nil
		}
		s.leaderboardLoading = false
		if m.Err != nil || m.Rows == nil {
			s.rows = []types.Entry{}
		} else {
			s.rows = m.Rows
		}
		s.page = 1
		return s.bump(), nil

	case NextPage:
		next := paging.Next(s.page, paging.TotalPages(len(s.rows)))
		if next == s.page {
			return s, nil
		}
		s.page = next
		return s.bump(), nil

	case PrevPage:
		prev := paging.Prev(s.page)
		if prev == s.page {
			return s, nil
		}
		s.page = prev
		return s.bump(), nil

	case OpenShare:
		dialog, ok := s.dialog.OpenFor(s.opts.FrontendURL, m.TxID)
		if !ok {
			return s, nil
		}
		s.dialog = dialog
		return s.bump(), nil

	case CloseShare:
		if !s.dialog.Open {
			return s, nil
		}
		s.dialog = s.dialog.Close()
		return s.bump(), nil
	}
	return s, nil
}

func (s State) selectMilestone(id string) (State, Effect) {
	s.selected = id
	s.seq++
	s.leaderboardLoading = true
	return s, FetchLeaderboard{Milestone: id, Seq: s.seq}
}

func (s State) bump() State {
	s.version++
	return s
}
