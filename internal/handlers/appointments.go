package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/services"
	"telehealth-app-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	appointments *services.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// CreateAppointmentRequest represents the request body for booking.
type CreateAppointmentRequest struct {
	DoctorID string    `json:"doctor_id" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
	Notes    string    `json:"notes" binding:"max=2000"`
}

// UpdateStatusRequest represents the request body for a status change.
type UpdateStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=scheduled in-progress completed cancelled"`
}

// CreateAppointment books an appointment for the signed-in patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.appointments.Create(c.Request.Context(), userID, services.CreateAppointmentInput{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Notes:    req.Notes,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, "Appointment booked successfully", appointment)
}

// GetAppointmentsForUser lists the caller's appointments, newest first.
// Doctors also receive each patient's profile.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	appointments, err := h.appointments.ListForUser(c.Request.Context(), userID, role)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Appointments retrieved successfully", appointments)
}

// GetAppointmentByID returns one appointment to either participant.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	appointment, err := h.appointments.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Appointment retrieved successfully", appointment)
}

// UpdateAppointmentStatus lets the appointment's doctor change its status.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.appointments.UpdateStatus(c.Request.Context(), c.Param("id"), userID, req.Status)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Appointment status updated successfully", appointment)
}

// GetStats returns the caller's appointment counters.
func (h *AppointmentHandler) GetStats(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.appointments.Stats(c.Request.Context(), userID, role)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Appointment stats retrieved successfully", stats)
}

// GetDoctorPatients lists the signed-in doctor's distinct patients,
// optionally only those with appointments in the ?status= values.
func (h *AppointmentHandler) GetDoctorPatients(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	statuses := lo.Map(c.QueryArray("status"), func(s string, _ int) models.AppointmentStatus {
		return models.AppointmentStatus(s)
	})
	if invalid, found := lo.Find(statuses, func(s models.AppointmentStatus) bool { return !s.Valid() }); found {
		utils.BadRequest(c, "Unknown appointment status: "+string(invalid))
		return
	}

	patients, err := h.appointments.DoctorPatients(c.Request.Context(), userID, statuses...)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Patients retrieved successfully", patients)
}
