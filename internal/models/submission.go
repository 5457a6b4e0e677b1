package models

import "time"

// Submission is a reader-submitted question or opinion. The editorial
// process flips Used once a submission inspired a column.
type Submission struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Used      bool      `json:"used"`
}

// NewSubmission is the insert payload. The store assigns id and created_at.
type NewSubmission struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Body  string  `json:"body"`
	Used  bool    `json:"used"`
}
