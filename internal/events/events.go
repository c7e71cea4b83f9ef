package events

import (
	"sync"
	"time"
)

type Type string

// Event types mirror the PhishBlock contract events.
const (
	TypeReportSubmitted Type = "ReportSubmitted"
	TypeReportConfirmed Type = "ReportConfirmed"
	TypeVoteCasted      Type = "VoteCasted"
)

type Event struct {
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

type ReportSubmitted struct {
	ReportID    int64     `json:"report_id"`
	Fingerprint string    `json:"fingerprint"`
	Reporter    string    `json:"reporter"`
	Timestamp   time.Time `json:"timestamp"`
}

type ReportConfirmed struct {
	ReportID    int64  `json:"report_id"`
	Fingerprint string `json:"fingerprint"`
}

type VoteCasted struct {
	ReportID int64  `json:"report_id"`
	Voter    string `json:"voter"`
	IsScam   bool   `json:"is_scam"`
}

// Subscriber receives every published event. Notify must not block;
// slow consumers should hand off to their own goroutine.
type Subscriber interface {
	Notify(Event)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(Event)

func (f SubscriberFunc) Notify(e Event) { f(e) }

// Bus fans published events out to subscribers. Core logic publishes
// here; delivery mechanisms (websocket stream, chain bridge) subscribe.
type Bus struct {
	mu   sync.RWMutex
	subs []Subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		s.Notify(e)
	}
}
