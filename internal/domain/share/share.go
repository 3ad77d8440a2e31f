// Package share builds results links for leaderboard rows and holds the share dialog state.
package share

import (
	"net/url"
	"strings"
)

// ResultsPath is the frontend route that shows a single submission.
const ResultsPath = "/results/"

// ResultsURL joins the frontend base and txID into the public results link.
// Unlike plain concatenation, txID is trimmed and path-escaped, so an id of
// only whitespace yields no link and "a/b" stays one path segment. It
// reports false when the trimmed txID is empty.
func ResultsURL(frontendBase, txID string) (string, bool) {
	txID = strings.TrimSpace(txID)
	if txID == "" {
		return "", false
	}
	return strings.TrimRight(frontendBase, "/") + ResultsPath + url.PathEscape(txID), true
}

// Dialog is the share modal: closed --open(tx)--> open(target), open --close--> closed.
// Closing keeps Target until the next successful Open.
type Dialog struct {
	Open   bool   `json:"open"`
	Target string `json:"target,omitempty"`
}

// OpenFor opens the dialog on the results link for txID. Without a
// transaction id the dialog is left untouched and false is returned.
func (d Dialog) OpenFor(frontendBase, txID string) (Dialog, bool) {
	target, ok := ResultsURL(frontendBase, txID)
	if !ok {
		return d, false
	}
	return Dialog{Open: true, Target: target}, true
}

// Close hides the dialog.
func (d Dialog) Close() Dialog {
	d.Open = false
	return d
}
