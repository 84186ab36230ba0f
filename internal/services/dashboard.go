package services

import (
	"context"

	"telehealth-app-server/internal/models"
)

// QuickAction is a shortcut shown on a user's dashboard.
type QuickAction struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Route       string `json:"route"`
}

// Dashboard is the landing view for a signed-in user.
type Dashboard struct {
	User         *models.User     `json:"user"`
	QuickActions []QuickAction    `json:"quick_actions"`
	Stats        AppointmentStats `json:"stats"`
}

var patientActions = []QuickAction{
	{ID: "appointments", Title: "My Appointments", Icon: "calendar", Color: "blue", Description: "Book and manage appointments", Route: "/patient/appointments"},
	{ID: "medical-records", Title: "Medical Records", Icon: "file-text", Color: "green", Description: "View your medical history", Route: "/patient/medical-records"},
	{ID: "messages", Title: "Messages", Icon: "message-square", Color: "purple", Description: "Chat with doctors", Route: "/patient/messages"},
	{ID: "settings", Title: "Settings", Icon: "settings", Color: "orange", Description: "Update your profile", Route: "/patient/settings"},
}

var doctorActions = []QuickAction{
	{ID: "appointments", Title: "Appointments", Icon: "calendar", Color: "blue", Description: "Manage patient appointments", Route: "/doctor/appointments"},
	{ID: "patient-records", Title: "Patient Records", Icon: "file-text", Color: "green", Description: "View patient medical records", Route: "/doctor/patient-records"},
	{ID: "messages", Title: "Messages", Icon: "message-square", Color: "purple", Description: "Chat with patients", Route: "/doctor/messages"},
	{ID: "prescriptions", Title: "Prescriptions", Icon: "file-text", Color: "red", Description: "Upload prescriptions", Route: "/doctor/prescriptions"},
}

// QuickActionsFor returns the dashboard shortcuts for role.
func QuickActionsFor(role models.Role) []QuickAction {
	src := patientActions
	if role == models.RoleDoctor {
		src = doctorActions
	}
	out := make([]QuickAction, len(src))
	copy(out, src)
	return out
}

// DashboardService assembles dashboards.
type DashboardService struct {
	users        *UserService
	appointments *AppointmentService
}

func NewDashboardService(users *UserService, appointments *AppointmentService) *DashboardService {
	return &DashboardService{users: users, appointments: appointments}
}

// Get builds the dashboard for userID.
func (s *DashboardService) Get(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.appointments.Stats(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		User:         user,
		QuickActions: QuickActionsFor(user.Role),
		Stats:        stats,
	}, nil
}
