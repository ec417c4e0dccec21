package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Resume struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type JobStatus string

const (
	JobStatusApplied      JobStatus = "Applied"
	JobStatusInterviewing JobStatus = "Interviewing"
	JobStatusOffer        JobStatus = "Offer"
	JobStatusRejected     JobStatus = "Rejected"
)

// * ParseJobStatus accepts both the display form ("Offer") and the lower-case
// enum name ("offer").
func ParseJobStatus(s string) (JobStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "applied":
		return JobStatusApplied, true
	case "interviewing":
		return JobStatusInterviewing, true
	case "offer":
		return JobStatusOffer, true
	case "rejected":
		return JobStatusRejected, true
	}

	return "", false
}

type Job struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Company   string     `json:"company"`
	Role      string     `json:"role"`
	Link      *string    `json:"link"`
	Status    JobStatus  `json:"status"`
	AppliedAt *time.Time `json:"applied_at"`
	Notes     *string    `json:"notes"`
}

// * JobPatch carries a partial update; nil fields are left untouched.
type JobPatch struct {
	Company   *string
	Role      *string
	Link      *string
	Status    *JobStatus
	AppliedAt *time.Time
	Notes     *string
}

type Message struct {
	Email   string    `json:"to"`
	UserID  int64     `json:"user_id"`
	Purpose string    `json:"purpose"`
	SentAt  time.Time `json:"sent_at"`
}
