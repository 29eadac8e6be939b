package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"github.com/anna-sampada/spoilage-backend/constants"
	"github.com/anna-sampada/spoilage-backend/internal/auth"
	"github.com/anna-sampada/spoilage-backend/internal/chat"
	"github.com/anna-sampada/spoilage-backend/internal/common"
	"github.com/anna-sampada/spoilage-backend/internal/foods"
	"github.com/anna-sampada/spoilage-backend/internal/metrics"
	"github.com/anna-sampada/spoilage-backend/internal/ngo"
	"github.com/anna-sampada/spoilage-backend/internal/predict"
	"github.com/anna-sampada/spoilage-backend/internal/repository"
	"github.com/anna-sampada/spoilage-backend/internal/verdict"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubPredictor struct {
	food    constants.FoodType
	verdict *verdict.Verdict
	err     error
}

func (s *stubPredictor) Food() constants.FoodType { return s.food }
func (s *stubPredictor) Predict(context.Context, map[string]any) (*verdict.Verdict, error) {
	return s.verdict, s.err
}

type fakeGenerator struct {
	raw string
	err error
}

func (f *fakeGenerator) Generate(context.Context, string, []chat.Turn, string) (string, error) {
	return f.raw, f.err
}

func newRouter(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	return New(testLogger(), opts).Router()
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func predictService(ps ...foods.Predictor) *predict.Service {
	return predict.NewServiceWithPredictors(ps, slog.New(slog.NewTextHandler(io.Discard, nil)), predict.Options{})
}

func TestPredictSuccess(t *testing.T) {
	r := newRouter(t, Options{Predictions: predictService(&stubPredictor{
		food: constants.FoodRice,
		verdict: &verdict.Verdict{
			Status:     constants.StatusFresh,
			Message:    "Fresh - Safe to consume",
			IsSafe:     verdict.Safe(true),
			Confidence: "91.00%",
		},
	})})

	w := doJSON(t, r, http.MethodPost, "/api/predict", `{"hours_since_cooking": 4}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Fresh", body["status"])
	assert.Equal(t, "Fresh - Safe to consume", body["message"])
	assert.Equal(t, true, body["is_safe"])
	assert.Equal(t, "91.00%", body["confidence"])
}

func TestPredictEmptyBody(t *testing.T) {
	r := newRouter(t, Options{Predictions: predictService()})

	for _, body := range []string{"", "{}", "not json"} {
		w := doJSON(t, r, http.MethodPost, "/api/predict", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.Equal(t, "No input data provided for rice", decodeBody(t, w)["error"])
	}
}

func TestPredictValidationEnvelope(t *testing.T) {
	r := newRouter(t, Options{Predictions: predictService(&stubPredictor{
		food: constants.FoodMilk,
		err:  common.FieldError("days_since_purchase", "must be a number"),
	})})

	w := doJSON(t, r, http.MethodPost, "/api/predict_milk", `{"days_since_purchase": "x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, `field "days_since_purchase" must be a number`, body["error"])
	assert.Equal(t, "Error", body["status"])
	assert.Equal(t, false, body["is_safe"])
}

func TestPredictModelUnavailable(t *testing.T) {
	r := newRouter(t, Options{Predictions: predictService()})

	w := doJSON(t, r, http.MethodPost, "/api/predict_dal", `{"Ingredient_type": "Toor"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Dal prediction model is not available", decodeBody(t, w)["error"])
}

func TestPredictNilService(t *testing.T) {
	r := newRouter(t, Options{})

	w := doJSON(t, r, http.MethodPost, "/api/predict_roti", `{"hours_since_cooked": 2}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "roti prediction model is not available", decodeBody(t, w)["error"])
}

func TestPredictTriStateNull(t *testing.T) {
	r := newRouter(t, Options{Predictions: predictService(&stubPredictor{
		food: constants.FoodMilk,
		verdict: &verdict.Verdict{
			Status:  constants.StatusStarting,
			Message: "⚠️ Starting to Spoil - Consume soon only after re-boiling thoroughly.",
		},
	})})

	w := doJSON(t, r, http.MethodPost, "/api/predict_milk", `{"days_since_purchase": 3}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_safe":null`)
}

func TestHealthz(t *testing.T) {
	r := newRouter(t, Options{Predictions: predictService(
		&stubPredictor{food: constants.FoodRice},
		&stubPredictor{food: constants.FoodPaneer},
	)})

	w := doJSON(t, r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])

	models, ok := body["models"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, models["Rice"])
	assert.Equal(t, true, models["Paneer"])
	assert.Equal(t, false, models["Milk"])
	assert.Equal(t, false, models["Dal"])
	assert.Equal(t, false, models["Roti"])
}

func TestMetricsRoute(t *testing.T) {
	r := newRouter(t, Options{Metrics: metrics.New()})

	w := doJSON(t, r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatNotConfigured(t *testing.T) {
	r := newRouter(t, Options{})

	w := doJSON(t, r, http.MethodPost, "/api/chat", `{"message": "hi"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Gemini API not configured on server.", decodeBody(t, w)["error"])
}

func TestChatSuccess(t *testing.T) {
	gen := &fakeGenerator{raw: `{"replyText": "Use the rice within a day.", "recipes": [], "safetyTips": [], "command": null}`}
	r := newRouter(t, Options{Chat: chat.NewService(gen, testLogger(), chat.Options{})})

	w := doJSON(t, r, http.MethodPost, "/api/chat", `{"message": "leftover rice ideas?", "mode": "Veg"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Use the rice within a day.", body["text"])

	structured, ok := body["structured"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Use the rice within a day.", structured["replyText"])
}

func TestChatUpstreamFailure(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("%w: connection refused", chat.ErrUpstream)}
	r := newRouter(t, Options{Chat: chat.NewService(gen, testLogger(), chat.Options{})})

	w := doJSON(t, r, http.MethodPost, "/api/chat", `{"message": "hello"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Failed to reach Gemini service.", decodeBody(t, w)["error"])
}

func TestChatEmptyMessage(t *testing.T) {
	gen := &fakeGenerator{raw: `{"replyText": "hi"}`}
	r := newRouter(t, Options{Chat: chat.NewService(gen, testLogger(), chat.Options{})})

	w := doJSON(t, r, http.MethodPost, "/api/chat", `{"message": "   "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Empty message", decodeBody(t, w)["error"])
}

type memUserRepo struct {
	users map[string]*repository.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*repository.User)}
}

func (m *memUserRepo) Create(_ context.Context, email, passwordHash, role string) (*repository.User, error) {
	u := &repository.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, Role: role}
	m.users[email] = u
	return u, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) Exists(_ context.Context, email string) (bool, error) {
	_, ok := m.users[email]
	return ok, nil
}

func TestSignupAndLogin(t *testing.T) {
	r := newRouter(t, Options{Auth: auth.NewService(newMemUserRepo(), testLogger())})

	w := doJSON(t, r, http.MethodPost, "/api/signup", `{"email": "Anna@Example.com", "password": "secret"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "anna@example.com", body["email"])
	assert.Equal(t, "user", body["role"])

	w = doJSON(t, r, http.MethodPost, "/api/login", `{"email": "anna@example.com", "password": "secret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	w = doJSON(t, r, http.MethodPost, "/api/login", `{"email": "anna@example.com", "password": "wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, w)["error"])
}

func TestSignupDuplicate(t *testing.T) {
	repo := newMemUserRepo()
	r := newRouter(t, Options{Auth: auth.NewService(repo, testLogger())})

	w := doJSON(t, r, http.MethodPost, "/api/signup", `{"email": "dup@example.com", "password": "secret"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/signup", `{"email": "dup@example.com", "password": "secret"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User with this email already exists", decodeBody(t, w)["error"])
}

func TestAuthNotConfigured(t *testing.T) {
	r := newRouter(t, Options{})

	for _, path := range []string{"/api/signup", "/api/login"} {
		w := doJSON(t, r, http.MethodPost, path, `{"email": "a@b.c", "password": "x"}`)
		require.Equal(t, http.StatusServiceUnavailable, w.Code, path)
		assert.Equal(t, "Database not initialized", decodeBody(t, w)["error"])
	}
}

type fakePlaces struct {
	resp maps.PlacesSearchResponse
	err  error
}

func (f *fakePlaces) NearbySearch(context.Context, *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error) {
	return f.resp, f.err
}

func TestGetNGOs(t *testing.T) {
	fake := &fakePlaces{resp: maps.PlacesSearchResponse{
		Results: []maps.PlacesSearchResult{{
			PlaceID:  "p1",
			Name:     "Seva Kitchen",
			Vicinity: "4 Link Road",
		}},
	}}
	r := newRouter(t, Options{Locator: ngo.NewLocatorWithClient(fake, 0, testLogger())})

	w := doJSON(t, r, http.MethodGet, "/api/get-ngos?lat=12.97&lng=77.59", "")
	require.Equal(t, http.StatusOK, w.Code)

	var ngos []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ngos))
	require.Len(t, ngos, 1)
	assert.Equal(t, "Seva Kitchen", ngos[0]["name"])
	assert.Equal(t, "4 Link Road", ngos[0]["address"])
}

func TestGetNGOsMissingCoordinates(t *testing.T) {
	r := newRouter(t, Options{Locator: ngo.NewLocatorWithClient(&fakePlaces{}, 0, testLogger())})

	for _, path := range []string{"/api/get-ngos", "/api/get-ngos?lat=12.97", "/api/get-ngos?lat=abc&lng=77.59"} {
		w := doJSON(t, r, http.MethodGet, path, "")
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "Latitude and longitude are required", decodeBody(t, w)["error"])
	}
}

func TestGetNGOsNotConfigured(t *testing.T) {
	r := newRouter(t, Options{})

	w := doJSON(t, r, http.MethodGet, "/api/get-ngos?lat=1&lng=2", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Google Maps service is not configured", decodeBody(t, w)["error"])
}

func TestNotifyNGOMissingFields(t *testing.T) {
	cfg := common.MailConfig{Host: "smtp.example.com", Port: 465, Sender: "a@b.c", Password: "pw"}
	notifier, err := ngo.NewNotifier(cfg, testLogger())
	require.NoError(t, err)
	r := newRouter(t, Options{Notifier: notifier})

	w := doJSON(t, r, http.MethodPost, "/api/notify-ngo", `{"ngo_name": "Seva Kitchen"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "Missing key in request")
}

func TestNotifyNGONotConfigured(t *testing.T) {
	r := newRouter(t, Options{})

	w := doJSON(t, r, http.MethodPost, "/api/notify-ngo", `{"ngo_name": "x", "donorContact": "y", "foodDetails": "z", "pickupAddress": "w"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Email service not configured on server.", decodeBody(t, w)["error"])
}

func TestRequestIDHeaderEchoed(t *testing.T) {
	r := newRouter(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-123", w.Header().Get("X-Request-ID"))
}
