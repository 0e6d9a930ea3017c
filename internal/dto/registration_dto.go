package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProjectRegistrationRequest keeps dates as strings so that malformed dates
// produce a validation message instead of a body-parse error.
type ProjectRegistrationRequest struct {
	Firstname          string `json:"firstname"`
	Lastname           string `json:"lastname"`
	Email              string `json:"email"`
	MobileNumber       string `json:"mobileNumber"`
	CollegeName        string `json:"collegeName"`
	Degree             string `json:"degree"`
	Semester           string `json:"semester"`
	ProjectName        string `json:"projectName"`
	ProjectDescription string `json:"projectDescription"`
	DateGiven          string `json:"dateGiven"`
	Deadline           string `json:"deadline"`
	Queries            string `json:"queries"`
}

type InternshipRegistrationRequest struct {
	Firstname          string `json:"firstname"`
	Lastname           string `json:"lastname"`
	Email              string `json:"email"`
	MobileNumber       string `json:"mobileNumber"`
	InternshipField    string `json:"internshipField"`
	Availability       string `json:"availability"`
	Skills             string `json:"skills"`
	ProjectDescription string `json:"projectDescription"`
}

type StatusHistoryItem struct {
	Status     string    `json:"status"`
	Percentage int       `json:"percentage"`
	Timestamp  time.Time `json:"timestamp"`
}

type ProjectStatusResponse struct {
	ID                   uuid.UUID `json:"id"`
	ProjectName          string    `json:"projectName"`
	Status               string    `json:"status"`
	CompletionPercentage int       `json:"completionPercentage"`
}

// ProjectStatusOverview is one row of the admin status board.
type ProjectStatusOverview struct {
	ID                   uuid.UUID `json:"id"`
	Firstname            string    `json:"firstname"`
	Lastname             string    `json:"lastname"`
	Email                string    `json:"email"`
	ProjectName          string    `json:"projectName"`
	Status               string    `json:"status"`
	CompletionPercentage int       `json:"completionPercentage"`
}
