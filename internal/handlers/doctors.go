package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"telehealth-app-server/internal/repositories"
	"telehealth-app-server/internal/services"
	"telehealth-app-server/internal/utils"
)

// DoctorHandler serves doctor practice profiles.
type DoctorHandler struct {
	doctors  *services.DoctorService
	maxBytes int64
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(doctors *services.DoctorService, maxBytes int64) *DoctorHandler {
	return &DoctorHandler{doctors: doctors, maxBytes: maxBytes}
}

// CreateDoctorRequest represents the request body for a practice profile.
type CreateDoctorRequest struct {
	HospitalID     string `json:"hospital_id"`
	DepartmentID   string `json:"department_id"`
	Specialization string `json:"specialization" binding:"required,max=100"`
}

type doctorQuery struct {
	Specialization string `form:"specialization"`
	HospitalID     string `form:"hospitalId"`
	DepartmentID   string `form:"departmentId"`
}

// ListDoctors lists doctors, optionally filtered by specialization, hospital
// or department.
func (h *DoctorHandler) ListDoctors(c *gin.Context) {
	var query doctorQuery
	if !utils.BindQuery(c, &query) {
		return
	}

	doctors, err := h.doctors.List(c.Request.Context(), repositories.DoctorFilter{
		Specialization: query.Specialization,
		HospitalID:     query.HospitalID,
		DepartmentID:   query.DepartmentID,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Doctors retrieved successfully", doctors)
}

// CreateDoctor stores the signed-in doctor's practice profile.
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctor, err := h.doctors.Create(c.Request.Context(), userID, services.CreateDoctorInput{
		HospitalID:     req.HospitalID,
		DepartmentID:   req.DepartmentID,
		Specialization: req.Specialization,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, "Doctor profile created successfully", doctor)
}

// GetMyProfile returns the signed-in doctor's practice profile.
func (h *DoctorHandler) GetMyProfile(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	doctor, err := h.doctors.Profile(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Doctor profile retrieved successfully", doctor)
}

// UploadLogo replaces the signed-in doctor's logo with the "logo" file.
func (h *DoctorHandler) UploadLogo(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	file, ok := readUpload(c, "logo", h.maxBytes)
	if !ok {
		return
	}

	doctor, err := h.doctors.UploadLogo(c.Request.Context(), userID, file.ContentType, file.Data)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Logo uploaded successfully", doctor)
}

// GetLogo streams the signed-in doctor's logo, or 204 when none is set.
func (h *DoctorHandler) GetLogo(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	obj, err := h.doctors.Logo(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}
