package consensus

import "errors"

// ConfirmationThreshold is the scam-vote count at which a report is
// irreversibly confirmed. Mirrors CONFIRMATION_THRESHOLD on the
// PhishBlock contract.
const ConfirmationThreshold = 3

// ErrReportClosed is returned when a vote arrives after confirmation.
var ErrReportClosed = errors.New("report is closed to voting")

// Tally is the vote state of a single report. Callers must serialize
// concurrent applies on the same report (the repo layer does this with
// a row lock).
type Tally struct {
	Upvotes   int
	Downvotes int
	Confirmed bool
}

// Apply records one vote and evaluates the confirmation transition.
// It returns true exactly when this vote moved the report from pending
// to confirmed. Votes on a confirmed report fail with ErrReportClosed,
// so tallies never change after confirmation.
func (t *Tally) Apply(isScam bool) (bool, error) {
	if t.Confirmed {
		return false, ErrReportClosed
	}

	if isScam {
		t.Upvotes++
		return t.Evaluate(), nil
	}

	t.Downvotes++
	return false, nil
}

// Evaluate fires the pending -> confirmed transition once the scam-vote
// count reaches the threshold. Idempotent: evaluating an already
// confirmed tally is a no-op.
func (t *Tally) Evaluate() bool {
	if t.Confirmed {
		return false
	}
	if t.Upvotes >= ConfirmationThreshold {
		t.Confirmed = true
		return true
	}
	return false
}
