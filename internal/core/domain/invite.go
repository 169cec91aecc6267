package domain

import "time"

// InviteRequest is what a recruiter adds to an invitation.
type InviteRequest struct {
	Message  string `json:"message,omitempty"`
	Date     string `json:"interview_date,omitempty"`
	Location string `json:"interview_location,omitempty"`
}

// Invite is an interview invitation for a scored candidate.
type Invite struct {
	ID        string    `json:"id"`
	ResumeID  string    `json:"resume_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Score     float64   `json:"score"`
	Message   string    `json:"message"`
	Date      string    `json:"interview_date,omitempty"`
	Location  string    `json:"interview_location,omitempty"`
	Subject   string    `json:"subject"`
	HTMLBody  string    `json:"html_body"`
	CreatedAt time.Time `json:"created_at"`
}
