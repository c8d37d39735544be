package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verdantfield/portal/internal/platform/httpx"
)

type memoryReviewRepo struct {
	reviews []Review
	nextID  int64
}

func (r *memoryReviewRepo) Create(ctx context.Context, review *Review) (*Review, error) {
	r.nextID++
	stored := *review
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	r.reviews = append([]Review{stored}, r.reviews...)
	return &stored, nil
}

func (r *memoryReviewRepo) List(ctx context.Context) ([]Review, error) {
	return r.reviews, nil
}

func (r *memoryReviewRepo) Update(ctx context.Context, review *Review) (*Review, error) {
	for i := range r.reviews {
		if r.reviews[i].ID == review.ID {
			stored := *review
			stored.CreatedAt = r.reviews[i].CreatedAt
			r.reviews[i] = stored
			return &stored, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (r *memoryReviewRepo) Delete(ctx context.Context, id int64) error {
	for i := range r.reviews {
		if r.reviews[i].ID == id {
			r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
			return nil
		}
	}
	return httpx.ErrNotFound
}

func TestSubmitStoresReview(t *testing.T) {
	svc := NewService(&memoryReviewRepo{})

	review, err := svc.Submit(context.Background(), SubmitReviewInput{
		Name:    "Priya",
		Rating:  5,
		Comment: "Lawn looks brand new, crew was on time.",
	})
	require.NoError(t, err)
	require.NotZero(t, review.ID)
	require.Equal(t, 5, review.Rating)
}

func TestListNewestFirst(t *testing.T) {
	svc := NewService(&memoryReviewRepo{})

	_, err := svc.Submit(context.Background(), SubmitReviewInput{Name: "First", Rating: 4, Comment: "Good job overall."})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), SubmitReviewInput{Name: "Second", Rating: 5, Comment: "Even better second time."})
	require.NoError(t, err)

	reviews, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.Equal(t, "Second", reviews[0].Name)
}

func TestUpdateReplacesContent(t *testing.T) {
	svc := NewService(&memoryReviewRepo{})

	created, err := svc.Submit(context.Background(), SubmitReviewInput{
		Name:    "Priya",
		Rating:  2,
		Comment: "Crew showed up an hour late.",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateReviewInput{
		Name:    "Priya S.",
		Rating:  4,
		Comment: "Late start, but the work itself was solid.",
	})
	require.NoError(t, err)
	require.Equal(t, 4, updated.Rating)
	require.Equal(t, "Priya S.", updated.Name)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)

	reviews, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, 4, reviews[0].Rating)
}

func TestUpdateMissingReview(t *testing.T) {
	svc := NewService(&memoryReviewRepo{})

	_, err := svc.Update(context.Background(), 404, UpdateReviewInput{
		Name:    "Nobody",
		Rating:  3,
		Comment: "This review does not exist.",
	})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteRemovesReview(t *testing.T) {
	svc := NewService(&memoryReviewRepo{})

	created, err := svc.Submit(context.Background(), SubmitReviewInput{
		Name:    "Priya",
		Rating:  5,
		Comment: "Lawn looks brand new.",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	reviews, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, reviews)
}

func TestDeleteMissingReview(t *testing.T) {
	svc := NewService(&memoryReviewRepo{})

	err := svc.Delete(context.Background(), 404)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
