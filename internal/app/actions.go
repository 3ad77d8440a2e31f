package service

import (
	"fmt"
	"strings"

	"github.com/okian/leaderview/internal/view"
)

// Action types accepted from clients.
const (
	ActionSelectMilestone = "select_milestone"
	ActionNextPage        = "next_page"
	ActionPrevPage        = "prev_page"
	ActionOpenShare       = "open_share"
	ActionCloseShare      = "close_share"
)

// Action is a user interaction sent by a front-end.
type Action struct {
	// ID makes the action idempotent when set; a repeated ID is acknowledged and ignored.
	ID        string `json:"action_id,omitempty"`
	Type      string `json:"type"`
	Milestone string `json:"milestone,omitempty"`
	TxID      string `json:"tx_id,omitempty"`
}

// Msg converts the action into a view message.
func (a Action) Msg() (view.Msg, error) {
	switch strings.TrimSpace(a.Type) {
	case ActionSelectMilestone:
		id := strings.TrimSpace(a.Milestone)
		if id == "" {
			return nil, fmt.Errorf("%w: milestone is required", ErrInvalidAction)
		}
		return view.SelectMilestone{ID: id}, nil
	case ActionNextPage:
		return view.NextPage{}, nil
	case ActionPrevPage:
		return view.PrevPage{}, nil
	case ActionOpenShare:
		return view.OpenShare{TxID: a.TxID}, nil
	case ActionCloseShare:
		return view.CloseShare{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
}
