package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirado/clinic-console-api/internal/middleware"
	"github.com/mirado/clinic-console-api/internal/models"
	"github.com/mirado/clinic-console-api/internal/store"
)

type CreateClinicRequest struct {
	ClinicName        string   `json:"clinicName" binding:"required"`
	DoctorName        string   `json:"doctorName" binding:"required"`
	ClinicMail        string   `json:"clinicMail" binding:"required,email"`
	ClinicNumber      string   `json:"clinicNumber"`
	EstablishmentDate string   `json:"establishmentDate"`
	Location          string   `json:"location"`
	Panchakrma        string   `json:"panchakrma"`
	NumberOfPatients  *int     `json:"numberOfPatients"`
	Revenue           *float64 `json:"revenue"`
}

func (h *Handler) CreateClinic(c *gin.Context) {
	var req CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner := middleware.AdminEmailFromContext(c)
	ctx := c.Request.Context()

	clinic := models.Clinic{
		ClinicName:        req.ClinicName,
		DoctorName:        req.DoctorName,
		ClinicMail:        req.ClinicMail,
		ClinicNumber:      req.ClinicNumber,
		EstablishmentDate: req.EstablishmentDate,
		Location:          req.Location,
		Panchakrma:        req.Panchakrma,
		NumberOfPatients:  req.NumberOfPatients,
		Revenue:           req.Revenue,
	}

	id, err := h.Clinics.Create(ctx, clinic, owner)
	if err != nil {
		log.Printf("CreateClinic: insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create clinic"})
		return
	}

	created, err := h.Clinics.GetByOwner(ctx, id, owner)
	if err != nil {
		log.Printf("CreateClinic: readback failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create clinic"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListClinics(c *gin.Context) {
	owner := middleware.AdminEmailFromContext(c)
	clinics, err := h.Clinics.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		log.Printf("ListClinics: query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve clinics"})
		return
	}
	c.JSON(http.StatusOK, clinics)
}

func (h *Handler) GetClinic(c *gin.Context) {
	owner := middleware.AdminEmailFromContext(c)
	clinic, err := h.Clinics.GetByOwner(c.Request.Context(), c.Param("id"), owner)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Clinic not found"})
			return
		}
		log.Printf("GetClinic: lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve clinic"})
		return
	}
	c.JSON(http.StatusOK, clinic)
}

type UpdateClinicRequest struct {
	ClinicName        *string  `json:"clinicName,omitempty"`
	DoctorName        *string  `json:"doctorName,omitempty"`
	ClinicMail        *string  `json:"clinicMail,omitempty" binding:"omitempty,email"`
	ClinicNumber      *string  `json:"clinicNumber,omitempty"`
	EstablishmentDate *string  `json:"establishmentDate,omitempty"`
	Location          *string  `json:"location,omitempty"`
	Panchakrma        *string  `json:"panchakrma,omitempty"`
	NumberOfPatients  *int     `json:"numberOfPatients,omitempty"`
	Revenue           *float64 `json:"revenue,omitempty"`
}

func (r UpdateClinicRequest) empty() bool {
	return r.ClinicName == nil && r.DoctorName == nil && r.ClinicMail == nil &&
		r.ClinicNumber == nil && r.EstablishmentDate == nil && r.Location == nil &&
		r.Panchakrma == nil && r.NumberOfPatients == nil && r.Revenue == nil
}

func (h *Handler) UpdateClinic(c *gin.Context) {
	var req UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	owner := middleware.AdminEmailFromContext(c)
	patch := store.ClinicPatch{
		ClinicName:        req.ClinicName,
		DoctorName:        req.DoctorName,
		ClinicMail:        req.ClinicMail,
		ClinicNumber:      req.ClinicNumber,
		EstablishmentDate: req.EstablishmentDate,
		Location:          req.Location,
		Panchakrma:        req.Panchakrma,
		NumberOfPatients:  req.NumberOfPatients,
		Revenue:           req.Revenue,
	}

	if err := h.Clinics.Update(c.Request.Context(), c.Param("id"), owner, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Clinic not found"})
			return
		}
		log.Printf("UpdateClinic: update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update clinic"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Clinic updated successfully"})
}

// DeleteClinic removes one of the calling admin's clinics. The console asks
// the user to confirm before issuing this call.
func (h *Handler) DeleteClinic(c *gin.Context) {
	owner := middleware.AdminEmailFromContext(c)
	if err := h.Clinics.Delete(c.Request.Context(), c.Param("id"), owner); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Clinic not found"})
			return
		}
		log.Printf("DeleteClinic: delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete clinic"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Clinic deleted successfully"})
}
