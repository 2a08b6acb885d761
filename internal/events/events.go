// Package events publishes catalog mutation events to Kafka. Publishing is
// best-effort and rides the same task runner as index syncs: a broker outage
// never fails the mutation that produced the event.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types for catalog mutations.
const (
	TypeQuestionCreated = "question.created"
	TypeQuestionUpdated = "question.updated"
	TypeQuestionDeleted = "question.deleted"

	TypeInfographicsReconciled = "infographics.reconciled"
)

// Event is the wire shape published to the catalog topic, keyed by RecordID
// so per-record ordering holds within a partition.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	RecordID   string    `json:"recordId"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New builds an event stamped with a fresh ID and the current time.
func New(eventType, recordID, actor string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		RecordID:   recordID,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}
