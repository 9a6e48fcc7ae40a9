package http

// Маршрутные тесты tours-service: собираем настоящий роутер поверх
// сервиса с мок-хранилищем и гоняем запросы через httptest.
//
// Подготовка окружения:
//   mockgen -source=./internal/storage/storage.go -destination=./mocks/storage.go -package=mocks
//   go test ./internal/transport/http -v -race -count=1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-tour-booking/internal/config"
	"github.com/pribylovaa/go-tour-booking/internal/mail"
	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/query"
	"github.com/pribylovaa/go-tour-booking/internal/service"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
	"github.com/pribylovaa/go-tour-booking/mocks"
)

func routerCfg() *config.Config {
	return &config.Config{
		Env:  "local",
		HTTP: config.HTTPConfig{BasePath: "/api/v1"},
		Auth: config.AuthConfig{
			JWTSecret:     "router-test-secret",
			TokenTTL:      24 * time.Hour,
			Issuer:        "tours-service",
			CookieName:    "jwt",
			ResetTokenTTL: 10 * time.Minute,
		},
		Limits: config.LimitsConfig{Default: 100, Max: 500},
	}
}

type routerMocks struct {
	tours    *mocks.MockTourStorage
	users    *mocks.MockUserStorage
	reviews  *mocks.MockReviewStorage
	bookings *mocks.MockCollection[models.Booking]
}

func newTestRouter(t *testing.T) (http.Handler, *service.Service, routerMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	rm := routerMocks{
		tours:    mocks.NewMockTourStorage(ctrl),
		users:    mocks.NewMockUserStorage(ctrl),
		reviews:  mocks.NewMockReviewStorage(ctrl),
		bookings: mocks.NewMockCollection[models.Booking](ctrl),
	}

	st := mocks.NewMockStorage(ctrl)
	st.EXPECT().Tours().Return(rm.tours).AnyTimes()
	st.EXPECT().Users().Return(rm.users).AnyTimes()
	st.EXPECT().Reviews().Return(rm.reviews).AnyTimes()
	st.EXPECT().Bookings().Return(rm.bookings).AnyTimes()

	cfg := routerCfg()
	svc, err := service.New(st, nil, mail.NewSMTP(cfg.SMTP), mocks.NewMockProvider(ctrl), cfg)
	require.NoError(t, err)

	return NewRouter(svc, cfg, Options{}), svc, rm
}

// envelope — универсальный разбор конвертов успеха и ошибки.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Results *int            `json:"results"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

// tokenFor выпускает валидный токен и настраивает резолв пользователя
// в цепочке аутентификации.
func tokenFor(t *testing.T, svc *service.Service, rm routerMocks, role string) (string, *models.User) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("pass12345"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           primitive.NewObjectID(),
		Name:         "Ada",
		Email:        "ada@example.com",
		Role:         role,
		PasswordHash: string(hash),
		Active:       true,
	}

	token, err := svc.IssueToken(user.ID.Hex(), time.Now().UTC())
	require.NoError(t, err)

	rm.users.EXPECT().FindByID(gomock.Any(), user.ID.Hex()).Return(user, nil).AnyTimes()

	return token, user
}

func sampleTour() *models.Tour {
	return &models.Tour{
		ID:           primitive.NewObjectID(),
		Name:         "The Forest Hiker",
		Slug:         "the-forest-hiker",
		Duration:     5,
		MaxGroupSize: 10,
		Difficulty:   models.DifficultyEasy,
		Price:        397,
		Summary:      "summary",
		ImageCover:   "cover.jpg",
	}
}

func TestRouter_ListTours_PublicWithScope(t *testing.T) {
	h, _, rm := newTestRouter(t)

	var gotScope storage.Scope
	rm.tours.EXPECT().
		FindMany(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, plan *query.Plan, scope storage.Scope) ([]models.Tour, error) {
			gotScope = scope
			require.EqualValues(t, 100, plan.Limit)
			return []models.Tour{*sampleTour()}, nil
		})

	rec, env := doRequest(t, h, http.MethodGet, "/api/v1/tours", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "success", env.Status)
	require.NotNil(t, env.Results)
	require.Equal(t, 1, *env.Results)
	require.Equal(t, storage.Scope{"secret": false}, gotScope)

	var tours []models.Tour
	require.NoError(t, json.Unmarshal(env.Data, &tours))
	require.Len(t, tours, 1)
	require.Equal(t, "The Forest Hiker", tours[0].Name)
}

func TestRouter_ListTours_EmptyPageIsArray(t *testing.T) {
	h, _, rm := newTestRouter(t)

	rm.tours.EXPECT().
		FindMany(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	rec, env := doRequest(t, h, http.MethodGet, "/api/v1/tours", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", string(bytes.TrimSpace(env.Data)))
}

func TestRouter_GetTour_InvalidID(t *testing.T) {
	h, _, rm := newTestRouter(t)

	rm.tours.EXPECT().
		FindByID(gomock.Any(), "not-a-hex").
		Return(nil, storage.ErrInvalidID)

	rec, env := doRequest(t, h, http.MethodGet, "/api/v1/tours/not-a-hex", "", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "error", env.Status)
}

func TestRouter_CreateTour_RequiresAuth(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec, env := doRequest(t, h, http.MethodPost, "/api/v1/tours", "", map[string]any{"name": "x"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "error", env.Status)
}

func TestRouter_CreateTour_ForbiddenForRegularUser(t *testing.T) {
	h, svc, rm := newTestRouter(t)
	token, _ := tokenFor(t, svc, rm, models.RoleUser)

	rec, _ := doRequest(t, h, http.MethodPost, "/api/v1/tours", token, map[string]any{"name": "x"})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_CreateTour_Staff(t *testing.T) {
	h, svc, rm := newTestRouter(t)
	token, _ := tokenFor(t, svc, rm, models.RoleLeadGuide)

	rm.tours.EXPECT().
		InsertOne(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *models.Tour) (*models.Tour, error) {
			require.Equal(t, "the-forest-hiker", doc.Slug)
			out := *doc
			out.ID = primitive.NewObjectID()
			return &out, nil
		})

	body := map[string]any{
		"name":           "The Forest Hiker",
		"duration":       5,
		"max_group_size": 10,
		"difficulty":     "easy",
		"price":          397,
		"summary":        "summary",
		"image_cover":    "cover.jpg",
	}

	rec, env := doRequest(t, h, http.MethodPost, "/api/v1/tours", token, body)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "success", env.Status)
}

func TestRouter_NestedReviews_AncestorScope(t *testing.T) {
	h, _, rm := newTestRouter(t)

	tourID := primitive.NewObjectID()

	var gotScope storage.Scope
	rm.reviews.EXPECT().
		FindMany(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *query.Plan, scope storage.Scope) ([]models.Review, error) {
			gotScope = scope
			return nil, nil
		})

	rec, _ := doRequest(t, h, http.MethodGet, "/api/v1/tours/"+tourID.Hex()+"/reviews", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, storage.Scope{"tour_id": tourID}, gotScope)
}

func TestRouter_NestedReviews_BadAncestorID(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec, env := doRequest(t, h, http.MethodGet, "/api/v1/tours/zzz/reviews", "", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "error", env.Status)
}

func TestRouter_SignUp(t *testing.T) {
	h, _, rm := newTestRouter(t)

	rm.users.EXPECT().
		InsertOne(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *models.User) (*models.User, error) {
			out := *doc
			out.ID = primitive.NewObjectID()
			return &out, nil
		})

	body := map[string]any{
		"name":             "Ada",
		"email":            "ada@example.com",
		"password":         "pass12345",
		"password_confirm": "pass12345",
	}

	rec, env := doRequest(t, h, http.MethodPost, "/api/v1/auth/signup", "", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "success", env.Status)
	require.NotEmpty(t, env.Token)

	// Кука с токеном должна быть выставлена.
	var jwtCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" {
			jwtCookie = c
		}
	}
	require.NotNil(t, jwtCookie)
	require.Equal(t, env.Token, jwtCookie.Value)
	require.True(t, jwtCookie.HttpOnly)
}

func TestRouter_SignUp_RejectsUnknownFields(t *testing.T) {
	h, _, _ := newTestRouter(t)

	body := map[string]any{
		"name":             "Ada",
		"email":            "ada@example.com",
		"password":         "pass12345",
		"password_confirm": "pass12345",
		"role":             "admin",
	}

	rec, _ := doRequest(t, h, http.MethodPost, "/api/v1/auth/signup", "", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Me(t *testing.T) {
	h, svc, rm := newTestRouter(t)
	token, user := tokenFor(t, svc, rm, models.RoleUser)

	rec, env := doRequest(t, h, http.MethodGet, "/api/v1/users/me", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Equal(t, user.Email, got.Email)
}

func TestRouter_Me_CookieAuth(t *testing.T) {
	h, svc, rm := newTestRouter(t)
	token, _ := tokenFor(t, svc, rm, models.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UsersAdminOnly(t *testing.T) {
	h, svc, rm := newTestRouter(t)
	token, _ := tokenFor(t, svc, rm, models.RoleUser)

	rec, _ := doRequest(t, h, http.MethodGet, "/api/v1/users", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_DeleteTour_NoContent(t *testing.T) {
	h, svc, rm := newTestRouter(t)
	token, _ := tokenFor(t, svc, rm, models.RoleAdmin)

	id := primitive.NewObjectID().Hex()
	rm.tours.EXPECT().DeleteByID(gomock.Any(), id).Return(nil)

	rec, _ := doRequest(t, h, http.MethodDelete, "/api/v1/tours/"+id, token, nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Zero(t, rec.Body.Len())
}

func TestRouter_RequestIDHeader(t *testing.T) {
	h, _, rm := newTestRouter(t)

	rm.tours.EXPECT().
		FindMany(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	rec, _ := doRequest(t, h, http.MethodGet, "/api/v1/tours", "", nil)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
