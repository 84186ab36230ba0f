package handlers

import (
	"github.com/gin-gonic/gin"

	"telehealth-app-server/internal/services"
	"telehealth-app-server/internal/utils"
)

// MedicalRecordHandler handles medical record related requests.
type MedicalRecordHandler struct {
	records  *services.RecordService
	maxBytes int64
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(records *services.RecordService, maxBytes int64) *MedicalRecordHandler {
	return &MedicalRecordHandler{records: records, maxBytes: maxBytes}
}

// UploadMedicalRecord stores the multipart "file" on a patient's record.
// Patients upload to their own record; doctors pass patient_id.
func (h *MedicalRecordHandler) UploadMedicalRecord(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	patientID := c.PostForm("patient_id")
	if patientID == "" {
		patientID = userID
	}

	file, ok := readUpload(c, "file", h.maxBytes)
	if !ok {
		return
	}

	record, err := h.records.Upload(c.Request.Context(), userID, role, patientID, file)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, "Medical record uploaded successfully", record)
}

// DownloadMedicalRecord streams a record's file to a caller who may read the
// patient's records.
func (h *MedicalRecordHandler) DownloadMedicalRecord(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	record, obj, err := h.records.Download(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	sendFile(c, record.FileName, obj)
}

// GetMyMedicalRecords lists the caller's own records, newest first.
func (h *MedicalRecordHandler) GetMyMedicalRecords(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	records, err := h.records.ListForPatient(c.Request.Context(), userID, role, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Medical records retrieved successfully", records)
}

// GetMedicalRecordsForPatient lists a patient's records for the patient or a
// doctor treating them.
func (h *MedicalRecordHandler) GetMedicalRecordsForPatient(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	records, err := h.records.ListForPatient(c.Request.Context(), userID, role, c.Param("patientId"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Medical records retrieved successfully", records)
}

// DeleteMedicalRecord removes a record and its file.
func (h *MedicalRecordHandler) DeleteMedicalRecord(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.records.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Medical record deleted successfully", nil)
}
