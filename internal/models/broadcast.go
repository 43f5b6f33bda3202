package models

import "time"

// RecipientResult is the delivery outcome for one subscriber.
type RecipientResult struct {
	Email     string `json:"email"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// BroadcastResult aggregates a whole calendar broadcast.
type BroadcastResult struct {
	PDFGenerated bool              `json:"pdfGenerated"`
	EmailsSent   int               `json:"emailsSent"`
	EmailsFailed int               `json:"emailsFailed"`
	Results      []RecipientResult `json:"results"`
}

// BroadcastJob is the message the scheduler publishes to request a broadcast.
type BroadcastJob struct {
	RequestedAt time.Time `json:"requested_at"`
	Reason      string    `json:"reason"`
}
