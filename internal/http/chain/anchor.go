package chain

import (
	"context"
	"log"
	"time"

	"github.com/bwise1/phishblock/internal/events"
)

const anchorTimeout = 30 * time.Second

// Anchor subscribes to the event bus and mirrors submissions and votes
// to the ledger bridge. Anchoring is best-effort: a bridge failure is
// logged and never fails the originating request.
type Anchor struct {
	client *ChainClient
}

func NewAnchor(client *ChainClient) *Anchor {
	return &Anchor{client: client}
}

func (a *Anchor) Notify(e events.Event) {
	if !a.client.Enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), anchorTimeout)
		defer cancel()

		switch payload := e.Payload.(type) {
		case events.ReportSubmitted:
			if _, err := a.client.SubmitReport(ctx, payload.Fingerprint); err != nil {
				log.Printf("⚠️ chain anchor failed for report %d: %v", payload.ReportID, err)
			}
		case events.VoteCasted:
			if err := a.client.Vote(ctx, payload.ReportID, payload.IsScam); err != nil {
				log.Printf("⚠️ chain anchor failed for vote on report %d: %v", payload.ReportID, err)
			}
		}
	}()
}
