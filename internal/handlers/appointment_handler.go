package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Miguel-EMC/clinic-api/internal/models"
)

type createAppointmentRequest struct {
	DoctorID  string `json:"doctorId" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Service   string `json:"service" binding:"required,max=120"`
	Notes     string `json:"notes" binding:"omitempty,max=5000"`
}

// CreateAppointment books a slot with a doctor for the authenticated patient.
func (h *Handler) CreateAppointment(c *gin.Context) {
	if c.GetString("userRole") != models.RolePatient {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only patients can book appointments."})
		return
	}

	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startTime, err1 := time.Parse(time.RFC3339, req.StartTime)
	endTime, err2 := time.Parse(time.RFC3339, req.EndTime)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time format, use RFC3339"})
		return
	}
	if !endTime.After(startTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endTime must be after startTime"})
		return
	}
	if startTime.Before(time.Now().Add(-5 * time.Minute)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot book in the past"})
		return
	}

	var doctor models.Doctor
	if err := h.DB.WithContext(c).First(&doctor, "id = ?", req.DoctorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}
	if doctor.IsOnVacation {
		c.JSON(http.StatusConflict, gin.H{"error": "Doctor is not accepting appointments"})
		return
	}

	patient, err := h.patientForUser(c, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not find patient details"})
		return
	}

	overlap, err := h.hasOverlap(c, req.DoctorID, startTime, endTime, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		return
	}
	if overlap {
		c.JSON(http.StatusConflict, gin.H{"error": "Time conflicts with an existing appointment"})
		return
	}

	apt := models.Appointment{
		ID:        uuid.NewString(),
		PatientID: patient.ID,
		DoctorID:  req.DoctorID,
		StartTime: startTime,
		EndTime:   endTime,
		Service:   req.Service,
		Notes:     req.Notes,
		Status:    models.StatusScheduled,
	}

	if err := h.DB.WithContext(c).Create(&apt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		return
	}

	h.NotificationSvc.SendAppointmentConfirmation(patient, &apt)

	c.JSON(http.StatusCreated, apt)
}

// GetAppointments lists appointments with date-range and status filtering.
// Patients only ever see their own bookings; staff and doctors can also narrow
// by patientId or doctorId.
func (h *Handler) GetAppointments(c *gin.Context) {
	q := h.DB.WithContext(c).Model(&models.Appointment{})

	if c.GetString("userRole") == models.RolePatient {
		var patient models.Patient
		err := h.DB.WithContext(c).First(&patient, "user_id = ?", c.GetString("userID")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// no patient record yet means nothing booked yet
			c.JSON(http.StatusOK, []models.Appointment{})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointments"})
			return
		}
		q = q.Where("patient_id = ?", patient.ID)
	} else {
		if patientID := c.Query("patientId"); patientID != "" {
			q = q.Where("patient_id = ?", patientID)
		}
		if doctorID := c.Query("doctorId"); doctorID != "" {
			q = q.Where("doctor_id = ?", doctorID)
		}
	}

	if startDateStr := c.Query("startDate"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			q = q.Where("start_time >= ?", startDate)
		}
	}
	if endDateStr := c.Query("endDate"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			// include the entire end day
			q = q.Where("start_time <= ?", endDate.Add(23*time.Hour+59*time.Minute))
		}
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	appointments := make([]models.Appointment, 0)
	if err := q.Order("start_time").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointments"})
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// UpdateAppointment applies a partial update; when the slot moves, the overlap
// check runs again excluding the appointment itself.
func (h *Handler) UpdateAppointment(c *gin.Context) {
	var apt models.Appointment
	err := h.DB.WithContext(c).First(&apt, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointment"})
		return
	}

	var req struct {
		StartTime *string `json:"startTime,omitempty"`
		EndTime   *string `json:"endTime,omitempty"`
		Service   *string `json:"service,omitempty" binding:"omitempty,max=120"`
		Notes     *string `json:"notes,omitempty" binding:"omitempty,max=5000"`
		Status    *string `json:"status,omitempty" binding:"omitempty,oneof=Scheduled Confirmed Completed Cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, end := apt.StartTime, apt.EndTime
	if req.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time format, use RFC3339"})
			return
		}
		start = t
	}
	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time format, use RFC3339"})
			return
		}
		end = t
	}
	if !end.After(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endTime must be after startTime"})
		return
	}

	updates := map[string]any{}
	if req.StartTime != nil || req.EndTime != nil {
		overlap, err := h.hasOverlap(c, apt.DoctorID, start, end, apt.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment"})
			return
		}
		if overlap {
			c.JSON(http.StatusConflict, gin.H{"error": "Time conflicts with an existing appointment"})
			return
		}
		updates["start_time"] = start
		updates["end_time"] = end
	}
	if req.Service != nil {
		updates["service"] = *req.Service
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Status != nil {
		next := models.AppointmentStatus(*req.Status)
		if next != apt.Status && !canTransition(apt.Status, next) {
			c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
			return
		}
		updates["status"] = next
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.DB.WithContext(c).Model(&apt).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment"})
		return
	}

	c.JSON(http.StatusOK, apt)
}

// CancelAppointment flips the status to Cancelled and notifies the patient.
func (h *Handler) CancelAppointment(c *gin.Context) {
	var apt models.Appointment
	err := h.DB.WithContext(c).First(&apt, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointment"})
		return
	}

	if apt.Status == models.StatusCancelled || apt.Status == models.StatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Appointment can no longer be cancelled"})
		return
	}

	if err := h.DB.WithContext(c).Model(&apt).
		Update("status", models.StatusCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel appointment"})
		return
	}

	var patient models.Patient
	if err := h.DB.WithContext(c).First(&patient, "id = ?", apt.PatientID).Error; err == nil {
		apt.Status = models.StatusCancelled
		h.NotificationSvc.SendAppointmentCancellation(&patient, &apt)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled successfully"})
}

// canTransition enforces the one-way appointment lifecycle:
// Scheduled -> Confirmed -> Completed / Cancelled. Completed and Cancelled
// are terminal; nothing moves backwards.
func canTransition(from, to models.AppointmentStatus) bool {
	rank := func(s models.AppointmentStatus) int {
		switch s {
		case models.StatusScheduled:
			return 0
		case models.StatusConfirmed:
			return 1
		default: // Completed, Cancelled
			return 2
		}
	}
	return rank(from) < 2 && rank(to) > rank(from)
}

// hasOverlap reports whether the doctor already has a live appointment that
// intersects [start, end). Adjacent slots do not conflict.
func (h *Handler) hasOverlap(c *gin.Context, doctorID string, start, end time.Time, excludeID string) (bool, error) {
	q := h.DB.WithContext(c).Model(&models.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Where("status <> ?", models.StatusCancelled).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// patientForUser resolves the patient record linked to a user account,
// creating a thin one from the account fields on first booking.
func (h *Handler) patientForUser(c *gin.Context, userID string) (*models.Patient, error) {
	var patient models.Patient
	err := h.DB.WithContext(c).First(&patient, "user_id = ?", userID).Error
	if err == nil {
		return &patient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user models.User
	if err := h.DB.WithContext(c).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	first, last := splitName(user.FullName)
	patient = models.Patient{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		FirstName:     first,
		LastName:      last,
		ContactNumber: user.Phone,
		Email:         user.Email,
	}
	if err := h.DB.WithContext(c).Create(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func splitName(full string) (first, last string) {
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return full, ""
}
