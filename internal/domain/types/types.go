// Package types contains the wire shapes shared by the fetchers, the view and the HTTP layer.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Milestone describes one round of the challenge as published in the milestone document.
type Milestone struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Enabled         bool   `json:"enabled"`
	ExtendedEnabled bool   `json:"extendedEnabled,omitempty"`
}

// MilestoneConfig is the decoded milestone document.
type MilestoneConfig struct {
	Milestones []Milestone `json:"milestones"`
}

// MilestoneOption is one selectable entry of the milestone dropdown.
type MilestoneOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Entry is a leaderboard row as returned by the backend.
type Entry struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	Total     int     `json:"total"`
	TotalTime Elapsed `json:"total_time"`
	TxID      string  `json:"tx_id,omitempty"`
}

// HasTx reports whether the row can be shared.
func (e Entry) HasTx() bool {
	return strings.TrimSpace(e.TxID) != ""
}

// Elapsed is a total run time in seconds. The backend sends either a JSON
// number or a numeric string.
type Elapsed float64

// UnmarshalJSON accepts 12.5, "12.5" and null.
func (e *Elapsed) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*e = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("total_time %q is not numeric: %w", s, err)
		}
		*e = Elapsed(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*e = Elapsed(f)
	return nil
}

// String renders the elapsed time with two decimals, e.g. "12.30s".
func (e Elapsed) String() string {
	return strconv.FormatFloat(float64(e), 'f', 2, 64) + "s"
}
