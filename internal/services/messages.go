package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"telehealth-app-server/internal/apperr"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/realtime"
	"telehealth-app-server/internal/repositories"
)

// SendMessageInput is a message from the signed-in user.
type SendMessageInput struct {
	ReceiverID    string
	AppointmentID string
	Text          string
}

// MessageService exchanges messages between patients and doctors.
type MessageService struct {
	messages     repositories.MessageRepository
	users        repositories.UserRepository
	appointments repositories.AppointmentRepository
	events       realtime.Publisher
	now          func() time.Time
}

// NewMessageService creates a MessageService.
func NewMessageService(
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	appointments repositories.AppointmentRepository,
	events realtime.Publisher,
) *MessageService {
	return &MessageService{messages: messages, users: users, appointments: appointments, events: events, now: time.Now}
}

// Send stores a message from senderID. When an appointment is given the
// sender and receiver must be its two participants.
func (s *MessageService) Send(ctx context.Context, senderID string, in SendMessageInput) (*models.Message, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, apperr.BadRequest("Message cannot be empty")
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		return nil, apperr.BadRequest(fmt.Sprintf("Message cannot exceed %d characters", models.MaxMessageLength))
	}
	if in.ReceiverID == "" {
		return nil, apperr.BadRequest("Receiver is required")
	}
	if in.ReceiverID == senderID {
		return nil, apperr.BadRequest("You cannot send a message to yourself")
	}

	if _, err := s.users.GetByID(ctx, in.ReceiverID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Recipient not found")
		}
		return nil, err
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: in.ReceiverID,
		Text:       text,
	}
	if in.AppointmentID != "" {
		appointment, err := s.participantAppointment(ctx, in.AppointmentID, senderID)
		if err != nil {
			return nil, err
		}
		if appointment.Counterpart(senderID) != in.ReceiverID {
			return nil, apperr.BadRequest("The receiver is not part of this appointment")
		}
		id := appointment.ID
		message.AppointmentID = &id
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	publish(ctx, s.events, realtime.NewEvent(realtime.EventInsert, realtime.TableMessages,
		message, message.ReceiverID, message.SenderID))
	return message, nil
}

func (s *MessageService) participantAppointment(ctx context.Context, appointmentID, userID string) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, err
	}
	if !appointment.HasParticipant(userID) {
		return nil, apperr.Forbidden("You are not a participant of this appointment")
	}
	return appointment, nil
}

// Conversation returns the messages between userID and otherID, oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	if otherID == "" || otherID == userID {
		return nil, apperr.BadRequest("Invalid conversation partner")
	}
	return s.messages.Conversation(ctx, userID, otherID)
}

// ByAppointment returns an appointment's messages to one of its participants.
func (s *MessageService) ByAppointment(ctx context.Context, appointmentID, userID string) ([]models.Message, error) {
	if _, err := s.participantAppointment(ctx, appointmentID, userID); err != nil {
		return nil, err
	}
	return s.messages.ByAppointment(ctx, appointmentID)
}

// Threads returns the user's messages grouped into conversation threads.
func (s *MessageService) Threads(ctx context.Context, userID string) ([]Thread, error) {
	messages, err := s.messages.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return GroupThreads(userID, messages), nil
}

// MarkRead records that the receiver read a message. Marking an already read
// message again leaves its read time unchanged.
func (s *MessageService) MarkRead(ctx context.Context, id, userID string) (*models.Message, error) {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Message not found")
		}
		return nil, err
	}
	if message.ReceiverID != userID {
		return nil, apperr.Forbidden("Only the receiver can mark a message as read")
	}
	if message.IsRead() {
		return message, nil
	}

	now := s.now().UTC()
	marked, err := s.messages.MarkRead(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("mark message read: %w", err)
	}
	if !marked {
		// Read by a concurrent request, which already announced it.
		current, err := s.messages.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reload message: %w", err)
		}
		return current, nil
	}
	message.ReadAt = &now

	publish(ctx, s.events, realtime.NewEvent(realtime.EventUpdate, realtime.TableMessages,
		message, message.SenderID, message.ReceiverID))
	return message, nil
}
