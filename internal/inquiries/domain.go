package inquiries

import "time"

// Inquiry is a message sent through the public contact form. Quote
// requests are inquiries flagged for follow-up with an estimate.
type Inquiry struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Message        string    `json:"message"`
	IsQuoteRequest bool      `json:"isQuoteRequest"`
	CreatedAt      time.Time `json:"createdAt"`
}
