package services

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"telehealth-app-server/internal/models"
)

// AppointmentStats counts appointments by status. Waiting is scheduled and
// Upcoming is in-progress.
type AppointmentStats struct {
	Total     int `json:"total"`
	Waiting   int `json:"waiting"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// CountByStatus tallies appointments. Each counter equals the length of the
// list filtered by its status.
func CountByStatus(appointments []models.Appointment) AppointmentStats {
	count := func(status models.AppointmentStatus) int {
		return lo.CountBy(appointments, func(a models.Appointment) bool { return a.Status == status })
	}
	return AppointmentStats{
		Total:     len(appointments),
		Waiting:   count(models.StatusScheduled),
		Upcoming:  count(models.StatusInProgress),
		Completed: count(models.StatusCompleted),
		Cancelled: count(models.StatusCancelled),
	}
}

// UniquePatientIDs returns the patient ids of appointments in first-seen
// order. When statuses are given only those appointments are considered.
func UniquePatientIDs(appointments []models.Appointment, statuses ...models.AppointmentStatus) []string {
	if len(statuses) > 0 {
		appointments = lo.Filter(appointments, func(a models.Appointment, _ int) bool {
			return lo.Contains(statuses, a.Status)
		})
	}
	return lo.Uniq(lo.Map(appointments, func(a models.Appointment, _ int) string { return a.PatientID }))
}

// Thread is the messages exchanged within one appointment, or the direct
// messages with one counterpart when AppointmentID is nil.
type Thread struct {
	AppointmentID *string          `json:"appointment_id"`
	CounterpartID string           `json:"counterpart_id"`
	Messages      []models.Message `json:"messages"`
	Unread        int              `json:"unread"`
	LastMessageAt time.Time        `json:"last_message_at"`
}

// GroupThreads groups userID's messages by appointment. Messages without an
// appointment are grouped per counterpart. Threads are ordered by their most
// recent message, newest first; messages keep their input order.
func GroupThreads(userID string, messages []models.Message) []Thread {
	counterpart := func(m models.Message) string {
		if m.SenderID == userID {
			return m.ReceiverID
		}
		return m.SenderID
	}
	key := func(m models.Message) string {
		if m.AppointmentID != nil && *m.AppointmentID != "" {
			return "appointment:" + *m.AppointmentID
		}
		return "direct:" + counterpart(m)
	}

	groups := lo.GroupBy(messages, key)
	threads := make([]Thread, 0, len(groups))
	for _, msgs := range groups {
		first := msgs[0]
		t := Thread{
			AppointmentID: first.AppointmentID,
			CounterpartID: counterpart(first),
			Messages:      msgs,
			Unread: lo.CountBy(msgs, func(m models.Message) bool {
				return m.ReceiverID == userID && !m.IsRead()
			}),
		}
		for _, m := range msgs {
			if m.CreatedAt.After(t.LastMessageAt) {
				t.LastMessageAt = m.CreatedAt
			}
		}
		threads = append(threads, t)
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].LastMessageAt.After(threads[j].LastMessageAt)
	})
	return threads
}
