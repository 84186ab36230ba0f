package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxMessageLength bounds the text of a single message.
const MaxMessageLength = 1000

// Message represents a message between a patient and a doctor, optionally
// attached to an appointment.
type Message struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SenderID      string     `gorm:"size:36;index;not null" json:"sender_id"`
	ReceiverID    string     `gorm:"size:36;index;not null" json:"receiver_id"`
	AppointmentID *string    `gorm:"size:36;index" json:"appointment_id,omitempty"`
	Text          string     `gorm:"column:message;type:text;not null" json:"message"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	ReadAt        *time.Time `json:"read_at,omitempty"`

	// Relations
	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// IsRead reports whether the receiver has read the message.
func (m *Message) IsRead() bool {
	return m.ReadAt != nil
}
