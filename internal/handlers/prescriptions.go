package handlers

import (
	"path"

	"github.com/gin-gonic/gin"

	"telehealth-app-server/internal/services"
	"telehealth-app-server/internal/utils"
)

// PrescriptionHandler handles prescription uploads and listings.
type PrescriptionHandler struct {
	prescriptions *services.PrescriptionService
	maxBytes      int64
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(prescriptions *services.PrescriptionService, maxBytes int64) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptions: prescriptions, maxBytes: maxBytes}
}

// UploadPrescription issues a prescription from the signed-in doctor.
// Form fields: patient_id, prescription_text and the "file" itself.
func (h *PrescriptionHandler) UploadPrescription(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	file, ok := readUpload(c, "file", h.maxBytes)
	if !ok {
		return
	}

	prescription, err := h.prescriptions.Upload(
		c.Request.Context(),
		userID,
		c.PostForm("patient_id"),
		c.PostForm("prescription_text"),
		file,
	)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, "Prescription uploaded successfully", prescription)
}

// GetPrescriptions lists what a patient received or a doctor issued.
func (h *PrescriptionHandler) GetPrescriptions(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	prescriptions, err := h.prescriptions.ListForUser(c.Request.Context(), userID, role)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Prescriptions retrieved successfully", prescriptions)
}

// DownloadPrescription streams the stored prescription image.
func (h *PrescriptionHandler) DownloadPrescription(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	prescription, obj, err := h.prescriptions.Download(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	sendFile(c, path.Base(prescription.StorageKey), obj)
}

func (h *PrescriptionHandler) GetPrescriptionsForPatient(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	prescriptions, err := h.prescriptions.ListForPatient(c.Request.Context(), userID, role, c.Param("patientId"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Prescriptions retrieved successfully", prescriptions)
}

// GetCandidates lists the patients the doctor can prescribe for.
func (h *PrescriptionHandler) GetCandidates(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	patients, err := h.prescriptions.Candidates(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Patients retrieved successfully", patients)
}
