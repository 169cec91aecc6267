package domain

import "time"

type ResumeStatus string

const (
	StatusUploaded   ResumeStatus = "uploaded"
	StatusProcessing ResumeStatus = "processing"
	StatusVerifying  ResumeStatus = "verifying"
	StatusReady      ResumeStatus = "ready"
	StatusFailed     ResumeStatus = "failed"
)

// Resume is the persisted record of one submission.
type Resume struct {
	ID           string              `json:"id"`
	Filename     string              `json:"filename"`
	MimeType     string              `json:"mime_type"`
	StoragePath  string              `json:"storage_path"`
	Usernames    Usernames           `json:"usernames"`
	Status       ResumeStatus        `json:"status"`
	Error        string              `json:"error,omitempty"`
	Claims       *Claims             `json:"claims,omitempty"`
	Verification *VerificationResult `json:"verification,omitempty"`
	Score        *ScoreBreakdown     `json:"score,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// RawDocument is an uploaded file held in memory for a single extraction call.
type RawDocument struct {
	Content   []byte
	Extension string
}

// ExtractedText keeps the raw backend output next to the cleaned text.
type ExtractedText struct {
	Cleaned string
	Raw     string
}
