package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-gomail/gomail"

	"github.com/Miguel-EMC/clinic-api/internal/models"
)

// NotificationService sends booking confirmations and cancellations over SMS
// and email. Sends happen in goroutines and never block the API response;
// failures are only logged.
type NotificationService struct {
	SMSAPIURL string
	SMSAPIKey string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	HTTP *http.Client
}

func NewNotificationService(smsURL, smsKey, smtpHost string, smtpPort int, smtpUser, smtpPassword string) *NotificationService {
	return &NotificationService{
		SMSAPIURL:    smsURL,
		SMSAPIKey:    smsKey,
		SMTPHost:     smtpHost,
		SMTPPort:     smtpPort,
		SMTPUser:     smtpUser,
		SMTPPassword: smtpPassword,
		HTTP:         &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *NotificationService) SendAppointmentConfirmation(patient *models.Patient, apt *models.Appointment) {
	msg := fmt.Sprintf(
		"Appointment Confirmed: %s on %s.",
		apt.Service,
		apt.StartTime.Format("Jan 2 at 3:04 PM"),
	)
	s.dispatch(patient, "Appointment confirmation", msg)
}

func (s *NotificationService) SendAppointmentCancellation(patient *models.Patient, apt *models.Appointment) {
	msg := fmt.Sprintf(
		"Appointment Cancelled: %s on %s. Please contact the clinic to reschedule.",
		apt.Service,
		apt.StartTime.Format("Jan 2 at 3:04 PM"),
	)
	s.dispatch(patient, "Appointment cancellation", msg)
}

func (s *NotificationService) dispatch(patient *models.Patient, subject, msg string) {
	if patient.ContactNumber != "" {
		go s.sendSMS(patient.ContactNumber, msg)
	} else {
		log.Println("SMS not sent: patient has no phone number.")
	}
	if patient.Email != "" {
		go s.sendEmail(patient.Email, subject, msg)
	}
}

func (s *NotificationService) sendSMS(phone, message string) {
	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.SMSAPIKey,
	})

	resp, err := s.HTTP.Post(s.SMSAPIURL, "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		log.Printf("Failed to send SMS request for number %s: %v", phone, err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)

	success, _ := result["success"].(bool)
	if !success {
		errorMsg, _ := result["error"].(string)
		log.Printf("Failed to send SMS to %s. Reason: %s", phone, errorMsg)
	} else {
		log.Printf("Successfully sent SMS to %s", phone)
	}
}

func (s *NotificationService) sendEmail(to, subject, body string) {
	if s.SMTPUser == "" {
		log.Println("Email not sent: SMTP is not configured.")
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.SMTPUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.SMTPHost, s.SMTPPort, s.SMTPUser, s.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return
	}
	log.Printf("Successfully sent email to %s", to)
}
