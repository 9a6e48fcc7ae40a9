package service

// Тесты универсальной CRUD-фабрики (internal/service/resource.go) на ресурсе
// туров: валидация create/patch, явные хуки (slug, expand), маппинг ошибок
// хранилища в канонические ошибки сервиса.

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/query"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
)

func validTour() *models.Tour {
	return &models.Tour{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   models.DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	}
}

func TestResourceCreate_SlugAndDefaults(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	sm.tours.EXPECT().
		InsertOne(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *models.Tour) (*models.Tour, error) {
			require.Equal(t, "the-forest-hiker", doc.Slug)
			require.Equal(t, 4.5, doc.RatingsAverage)
			require.False(t, doc.CreatedAt.IsZero())
			return doc, nil
		})

	created, err := svc.Tours().Create(context.Background(), validTour())
	require.NoError(t, err)
	require.Equal(t, "the-forest-hiker", created.Slug)
}

func TestResourceCreate_Validation(t *testing.T) {
	svc, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	t.Run("name too short", func(t *testing.T) {
		tour := validTour()
		tour.Name = "Ab"
		_, err := svc.Tours().Create(context.Background(), tour)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("bad difficulty", func(t *testing.T) {
		tour := validTour()
		tour.Difficulty = "impossible"
		_, err := svc.Tours().Create(context.Background(), tour)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("discount above price", func(t *testing.T) {
		tour := validTour()
		tour.PriceDiscount = tour.Price + 1
		_, err := svc.Tours().Create(context.Background(), tour)
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestResourceCreate_Duplicate(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	sm.tours.EXPECT().InsertOne(gomock.Any(), gomock.Any()).Return(nil, storage.ErrAlreadyExists)

	_, err := svc.Tours().Create(context.Background(), validTour())
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestResourceGetByID_ErrorMapping(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	sm.tours.EXPECT().FindByID(gomock.Any(), "not-hex").Return(nil, storage.ErrInvalidID)
	_, err := svc.Tours().GetByID(context.Background(), "not-hex")
	require.ErrorIs(t, err, ErrInvalidID)

	missing := primitive.NewObjectID().Hex()
	sm.tours.EXPECT().FindByID(gomock.Any(), missing).Return(nil, storage.ErrNotFound)
	_, err = svc.Tours().GetByID(context.Background(), missing)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResourceGetByID_ExpandsGuidesAndReviews(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	guideID := primitive.NewObjectID()
	tour := validTour()
	tour.ID = primitive.NewObjectID()
	tour.GuideIDs = []primitive.ObjectID{guideID}

	guide := models.User{ID: guideID, Name: "Guide", Role: models.RoleGuide}
	review := models.Review{ID: primitive.NewObjectID(), Review: "great", Rating: 5, TourID: tour.ID}

	sm.tours.EXPECT().FindByID(gomock.Any(), tour.ID.Hex()).Return(tour, nil)
	sm.tours.EXPECT().UsersByIDs(gomock.Any(), tour.GuideIDs).Return([]models.User{guide}, nil)
	sm.reviews.EXPECT().
		FindMany(gomock.Any(), gomock.Any(), storage.Scope{"tour_id": tour.ID}).
		Return([]models.Review{review}, nil)

	got, err := svc.Tours().GetByID(context.Background(), tour.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, []models.User{guide}, got.Guides)
	require.Equal(t, []models.Review{review}, got.Reviews)
}

func TestResourceUpdate_PatchRules(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	id := primitive.NewObjectID().Hex()

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := svc.Tours().Update(context.Background(), id, map[string]any{"ratings_average": 5})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		_, err := svc.Tours().Update(context.Background(), id, map[string]any{"difficulty": "impossible"})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty patch rejected", func(t *testing.T) {
		_, err := svc.Tours().Update(context.Background(), id, map[string]any{})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("name change rebuilds slug", func(t *testing.T) {
		sm.tours.EXPECT().
			UpdateByID(gomock.Any(), id, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, patch map[string]any) (*models.Tour, error) {
				require.Equal(t, "the-sea-explorer", patch["slug"])
				return validTour(), nil
			})

		_, err := svc.Tours().Update(context.Background(), id, map[string]any{"name": "The Sea Explorer"})
		require.NoError(t, err)
	})
}

func TestResourceDelete_NotFound(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	id := primitive.NewObjectID().Hex()
	sm.tours.EXPECT().DeleteByID(gomock.Any(), id).Return(storage.ErrNotFound)

	require.ErrorIs(t, svc.Tours().Delete(context.Background(), id), ErrNotFound)
}

func TestResourceList_PassesPlanAndScope(t *testing.T) {
	svc, sm, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	plan := query.Parse(nil, query.Limits{Default: 100, Max: 500})
	scope := PublicTourScope()

	sm.tours.EXPECT().
		FindMany(gomock.Any(), plan, scope).
		Return([]models.Tour{*validTour()}, nil)

	docs, err := svc.Tours().List(context.Background(), plan, scope)
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestMapStorageErr_UnknownIsInternal(t *testing.T) {
	err := mapStorageErr(errors.New("driver exploded"))
	require.ErrorIs(t, err, ErrInternal)
}
