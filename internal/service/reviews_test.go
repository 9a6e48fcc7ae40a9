package service

// Тесты отзывов и пересчёта рейтинга (internal/service/reviews.go).

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
)

func validReview(tourID, userID primitive.ObjectID) *models.Review {
	return &models.Review{
		Review: "Loved every minute of it",
		Rating: 5,
		TourID: tourID,
		UserID: userID,
	}
}

func TestCreateReview_RecalculatesRating(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	tourID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	review := validReview(tourID, userID)

	sm.reviews.EXPECT().
		InsertOne(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *models.Review) (*models.Review, error) {
			require.False(t, doc.CreatedAt.IsZero())
			stored := *doc
			stored.ID = primitive.NewObjectID()
			return &stored, nil
		})
	// Средний рейтинг округляется до одного знака: 14/3 -> 4.7.
	sm.reviews.EXPECT().
		RatingStats(gomock.Any(), tourID).
		Return(models.RatingStats{Quantity: 3, Average: 14.0 / 3.0}, nil)
	sm.tours.EXPECT().
		UpdateRatings(gomock.Any(), tourID, models.RatingStats{Quantity: 3, Average: 4.7}).
		Return(nil)

	created, err := svc.CreateReview(context.Background(), review)
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())
}

func TestCreateReview_DuplicatePair(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	review := validReview(primitive.NewObjectID(), primitive.NewObjectID())
	sm.reviews.EXPECT().InsertOne(gomock.Any(), gomock.Any()).Return(nil, storage.ErrAlreadyExists)

	_, err := svc.CreateReview(context.Background(), review)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateReview_Validation(t *testing.T) {
	svc, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	review := validReview(primitive.NewObjectID(), primitive.NewObjectID())
	review.Rating = 6

	_, err := svc.CreateReview(context.Background(), review)
	require.ErrorIs(t, err, ErrValidation)
}

// Последний отзыв удалён: обе метрики обнуляются.
func TestDeleteReview_LastReviewZeroesStats(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	tourID := primitive.NewObjectID()
	review := validReview(tourID, primitive.NewObjectID())
	review.ID = primitive.NewObjectID()

	sm.reviews.EXPECT().FindByID(gomock.Any(), review.ID.Hex()).Return(review, nil)
	sm.reviews.EXPECT().DeleteByID(gomock.Any(), review.ID.Hex()).Return(nil)
	sm.reviews.EXPECT().RatingStats(gomock.Any(), tourID).Return(models.RatingStats{}, nil)
	sm.tours.EXPECT().UpdateRatings(gomock.Any(), tourID, models.RatingStats{}).Return(nil)

	require.NoError(t, svc.DeleteReview(context.Background(), review.ID.Hex()))
}

// Сбой пересчёта не откатывает операцию над отзывом.
func TestCreateReview_RecalcFailureIsNotFatal(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	tourID := primitive.NewObjectID()
	review := validReview(tourID, primitive.NewObjectID())

	sm.reviews.EXPECT().InsertOne(gomock.Any(), gomock.Any()).Return(review, nil)
	sm.reviews.EXPECT().RatingStats(gomock.Any(), tourID).Return(models.RatingStats{}, errors.New("aggregate failed"))

	_, err := svc.CreateReview(context.Background(), review)
	require.NoError(t, err)
}

func TestUpdateReview_RecalculatesRating(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	tourID := primitive.NewObjectID()
	review := validReview(tourID, primitive.NewObjectID())
	review.ID = primitive.NewObjectID()

	sm.reviews.EXPECT().
		UpdateByID(gomock.Any(), review.ID.Hex(), map[string]any{"rating": 3}).
		Return(review, nil)
	sm.reviews.EXPECT().RatingStats(gomock.Any(), tourID).Return(models.RatingStats{Quantity: 1, Average: 3}, nil)
	sm.tours.EXPECT().UpdateRatings(gomock.Any(), tourID, models.RatingStats{Quantity: 1, Average: 3}).Return(nil)

	_, err := svc.UpdateReview(context.Background(), review.ID.Hex(), map[string]any{"rating": 3})
	require.NoError(t, err)
}
