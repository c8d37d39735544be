package inquiries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/verdantfield/portal/internal/recaptcha"
	"github.com/verdantfield/portal/jobs"
)

// ErrCaptchaRejected marks a submission whose reCAPTCHA verification failed
// or scored below the acceptance threshold.
var ErrCaptchaRejected = errors.New("inquiries: captcha verification rejected")

// RepositoryPort defines data access methods for inquiries.
type RepositoryPort interface {
	Create(ctx context.Context, inquiry *Inquiry) (*Inquiry, error)
	List(ctx context.Context, quotesOnly bool) ([]Inquiry, error)
	Update(ctx context.Context, inquiry *Inquiry) (*Inquiry, error)
	Delete(ctx context.Context, id int64) error
}

// Verifier checks reCAPTCHA tokens.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (*recaptcha.Result, error)
}

// Enqueuer submits notification email tasks.
type Enqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error)
}

// SubmitInquiryInput is the contact form payload.
type SubmitInquiryInput struct {
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Phone          string `json:"phone" validate:"max=50"`
	Message        string `json:"message" validate:"required,min=10,max=2000"`
	IsQuoteRequest bool   `json:"isQuoteRequest"`
	CaptchaToken   string `json:"captchaToken" validate:"required"`
}

// UpdateInquiryInput carries the editable contact fields.
type UpdateInquiryInput struct {
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Phone          string `json:"phone" validate:"max=50"`
	Message        string `json:"message" validate:"required,min=10,max=2000"`
	IsQuoteRequest bool   `json:"isQuoteRequest"`
}

// Service handles inquiry business logic.
type Service struct {
	repo     RepositoryPort
	verifier Verifier
	enqueuer Enqueuer
	logger   *slog.Logger
	minScore float64
	notifyTo string
}

// NewService builds Service instance. enqueuer may be nil, which disables
// notification emails.
func NewService(repo RepositoryPort, verifier Verifier, enqueuer Enqueuer, logger *slog.Logger, minScore float64, notifyTo string) *Service {
	return &Service{
		repo:     repo,
		verifier: verifier,
		enqueuer: enqueuer,
		logger:   logger,
		minScore: minScore,
		notifyTo: notifyTo,
	}
}

// Submit verifies the captcha token, stores the inquiry and enqueues a
// notification email for quote requests. The enqueue is best effort: a
// queue failure is logged, never surfaced to the visitor.
func (s *Service) Submit(ctx context.Context, input SubmitInquiryInput, remoteIP string) (*Inquiry, error) {
	result, err := s.verifier.Verify(ctx, input.CaptchaToken, remoteIP)
	if err != nil {
		return nil, fmt.Errorf("inquiries: verify captcha: %w", err)
	}
	if !result.Success || result.Score < s.minScore {
		return nil, ErrCaptchaRejected
	}

	inquiry, err := s.repo.Create(ctx, &Inquiry{
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Message:        input.Message,
		IsQuoteRequest: input.IsQuoteRequest,
	})
	if err != nil {
		return nil, err
	}

	if inquiry.IsQuoteRequest && s.enqueuer != nil && s.notifyTo != "" {
		payload := jobs.SendEmailPayload{
			To:      s.notifyTo,
			Subject: "New quote request from " + inquiry.Name,
			Body: fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\n%s",
				inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.Message),
		}
		if _, err := s.enqueuer.EnqueueSendEmail(ctx, payload); err != nil {
			s.logger.Warn("enqueue quote notification", slog.Any("error", err), slog.Int64("inquiry_id", inquiry.ID))
		}
	}

	return inquiry, nil
}

// ListQuotes returns quote requests only, newest first.
func (s *Service) ListQuotes(ctx context.Context) ([]Inquiry, error) {
	return s.repo.List(ctx, true)
}

// ListAll returns every inquiry, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Inquiry, error) {
	return s.repo.List(ctx, false)
}

// Update replaces an inquiry's contact fields.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInquiryInput) (*Inquiry, error) {
	return s.repo.Update(ctx, &Inquiry{
		ID:             id,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Message:        input.Message,
		IsQuoteRequest: input.IsQuoteRequest,
	})
}

// Delete removes an inquiry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
