// Package realtime fans application change events out to websocket clients
// and, optionally, a Kafka topic.
package realtime

import (
	"context"
	"errors"
	"time"
)

// EventType is the kind of change a record went through.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Tables that emit change events.
const (
	TableMessages       = "messages"
	TableAppointments   = "appointments"
	TableMedicalRecords = "medical_records"
	TablePrescriptions  = "prescriptions"
)

// Tables lists every table a client may subscribe to.
var Tables = []string{TableMessages, TableAppointments, TableMedicalRecords, TablePrescriptions}

// Event describes one inserted, updated or deleted row.
type Event struct {
	Type      EventType `json:"type"`
	Table     string    `json:"table"`
	Record    any       `json:"record"`
	Timestamp time.Time `json:"timestamp"`

	// Recipients are the users whose topics receive the event.
	Recipients []string `json:"-"`
}

// NewEvent stamps an event with the current time.
func NewEvent(typ EventType, table string, record any, recipients ...string) Event {
	return Event{
		Type:       typ,
		Table:      table,
		Record:     record,
		Timestamp:  time.Now().UTC(),
		Recipients: recipients,
	}
}

// Topic names the per-user channel for a table, e.g. "messages:<userId>".
func Topic(table, userID string) string {
	return table + ":" + userID
}

// Publisher delivers change events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
