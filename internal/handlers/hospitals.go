package handlers

import (
	"github.com/gin-gonic/gin"

	"telehealth-app-server/internal/services"
	"telehealth-app-server/internal/utils"
)

// HospitalHandler serves the hospital and department directory.
type HospitalHandler struct {
	hospitals *services.HospitalService
}

// NewHospitalHandler creates a new HospitalHandler.
func NewHospitalHandler(hospitals *services.HospitalService) *HospitalHandler {
	return &HospitalHandler{hospitals: hospitals}
}

func (h *HospitalHandler) ListHospitals(c *gin.Context) {
	hospitals, err := h.hospitals.List(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Hospitals retrieved successfully", hospitals)
}

func (h *HospitalHandler) GetHospital(c *gin.Context) {
	hospital, err := h.hospitals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Hospital retrieved successfully", hospital)
}

func (h *HospitalHandler) GetHospitalDepartments(c *gin.Context) {
	departments, err := h.hospitals.Departments(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Departments retrieved successfully", departments)
}

func (h *HospitalHandler) ListDepartments(c *gin.Context) {
	departments, err := h.hospitals.AllDepartments(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Departments retrieved successfully", departments)
}
