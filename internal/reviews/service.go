package reviews

import "context"

// RepositoryPort defines data access methods for reviews.
type RepositoryPort interface {
	Create(ctx context.Context, review *Review) (*Review, error)
	List(ctx context.Context) ([]Review, error)
	Update(ctx context.Context, review *Review) (*Review, error)
	Delete(ctx context.Context, id int64) error
}

// SubmitReviewInput is a new review as posted from the public site.
type SubmitReviewInput struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=5,max=2000"`
}

// UpdateReviewInput carries an admin edit of a published review.
type UpdateReviewInput struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=5,max=2000"`
}

// Service handles review business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Submit stores a new review.
func (s *Service) Submit(ctx context.Context, input SubmitReviewInput) (*Review, error) {
	return s.repo.Create(ctx, &Review{
		Name:    input.Name,
		Rating:  input.Rating,
		Comment: input.Comment,
	})
}

// List returns all reviews, newest first.
func (s *Service) List(ctx context.Context) ([]Review, error) {
	return s.repo.List(ctx)
}

// Update replaces a review's content.
func (s *Service) Update(ctx context.Context, id int64, input UpdateReviewInput) (*Review, error) {
	return s.repo.Update(ctx, &Review{
		ID:      id,
		Name:    input.Name,
		Rating:  input.Rating,
		Comment: input.Comment,
	})
}

// Delete removes a review by ID.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
