// Package milestone validates the milestone document and derives the dropdown options from it.
package milestone

import (
	"github.com/okian/leaderview/internal/domain/types"
)

// Extended variants share the base id and label with these suffixes.
const (
	ExtendedIDSuffix    = "_extended"
	ExtendedLabelSuffix = " Extended"
)

// BuildOptions filters cfg to enabled milestones and emits, in source order,
// the base option followed by the extended option when the milestone enables it.
func BuildOptions(cfg types.MilestoneConfig) []types.MilestoneOption {
	opts := make([]types.MilestoneOption, 0, len(cfg.Milestones))
	for _, m := range cfg.Milestones {
		if !m.Enabled {
			continue
		}
		opts = append(opts, types.MilestoneOption{ID: m.ID, Label: m.Label})
		if m.ExtendedEnabled {
			opts = append(opts, types.MilestoneOption{
				ID:    m.ID + ExtendedIDSuffix,
				Label: m.Label + ExtendedLabelSuffix,
			})
		}
	}
	return opts
}

// DefaultSelection returns the id selected when the options first load.
func DefaultSelection(opts []types.MilestoneOption) (string, bool) {
	if len(opts) == 0 {
		return "", false
	}
	return opts[0].ID, true
}

// Contains reports whether id is one of opts.
func Contains(opts []types.MilestoneOption, id string) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}
