package handlers

import (
	"github.com/gin-gonic/gin"

	"telehealth-app-server/internal/services"
	"telehealth-app-server/internal/utils"
)

// MessageHandler handles messaging between patients and doctors.
type MessageHandler struct {
	messages *services.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	ReceiverID    string `json:"receiver_id" binding:"required"`
	AppointmentID string `json:"appointment_id"`
	Message       string `json:"message" binding:"required"`
}

// SendMessage sends a message from the signed-in user.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	message, err := h.messages.Send(c.Request.Context(), userID, services.SendMessageInput{
		ReceiverID:    req.ReceiverID,
		AppointmentID: req.AppointmentID,
		Text:          req.Message,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, "Message sent successfully", message)
}

// GetConversation returns the messages between the caller and :userId,
// oldest first.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	messages, err := h.messages.Conversation(c.Request.Context(), userID, c.Param("userId"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Messages retrieved successfully", messages)
}

// GetAppointmentMessages returns an appointment's messages to its
// participants.
func (h *MessageHandler) GetAppointmentMessages(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	messages, err := h.messages.ByAppointment(c.Request.Context(), c.Param("appointmentId"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Messages retrieved successfully", messages)
}

// GetThreads returns the caller's conversations, most recent first.
func (h *MessageHandler) GetThreads(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	threads, err := h.messages.Threads(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Conversations retrieved successfully", threads)
}

// MarkMessageAsRead marks a received message as read.
func (h *MessageHandler) MarkMessageAsRead(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	message, err := h.messages.MarkRead(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Message marked as read", message)
}
