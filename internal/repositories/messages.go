package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"telehealth-app-server/internal/models"
)

// MessageRepository persists messages. Listings are oldest first.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	Conversation(ctx context.Context, userA, userB string) ([]models.Message, error)
	ByAppointment(ctx context.Context, appointmentID string) ([]models.Message, error)
	// ForUser returns every message the user sent or received.
	ForUser(ctx context.Context, userID string) ([]models.Message, error)
	// MarkRead sets read_at if the message is unread and reports whether
	// this call changed it.
	MarkRead(ctx context.Context, id string, at time.Time) (bool, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a gorm backed MessageRepository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Conversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at asc").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) ByAppointment(ctx context.Context, appointmentID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at asc").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) ForUser(ctx context.Context, userID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at asc").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) MarkRead(ctx context.Context, id string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
