package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prokaiwa/lesson-booking/internal/handler"
	"github.com/prokaiwa/lesson-booking/internal/model"
	"github.com/prokaiwa/lesson-booking/internal/router"
	"github.com/prokaiwa/lesson-booking/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// Минимальные фейки хранилищ для чтения слотов через HTTP

type emptyBookingStore struct{}

func (emptyBookingStore) Create(context.Context, *model.Booking) error { return nil }
func (emptyBookingStore) GetByIDForUser(context.Context, int64, string) (*model.Booking, error) {
	return nil, nil
}
func (emptyBookingStore) CountOverlapping(context.Context, time.Time, time.Time) (int, error) {
	return 0, nil
}
func (emptyBookingStore) Cancel(context.Context, int64, string, string, model.RefundStatus, time.Time) (bool, error) {
	return false, nil
}

type oneWindowStore struct{}

func (oneWindowStore) GetActiveByWeekday(_ context.Context, day time.Weekday) ([]*model.AvailabilityWindow, error) {
	if day != time.Monday {
		return nil, nil
	}
	return []*model.AvailabilityWindow{
		{DayOfWeek: time.Monday, StartHour: 9, EndHour: 11, IsAvailable: true},
	}, nil
}

func newTestServer(t *testing.T, windows service.AvailabilityStore) *httptest.Server {
	t.Helper()

	logger := zap.NewNop()
	jst := time.FixedZone("JST", 9*60*60)
	availability := service.NewAvailabilityChecker(emptyBookingStore{}, windows, jst, 50, logger)
	svc := service.NewBookingService(
		nil, emptyBookingStore{}, nil, nil, availability,
		nil, nil, nil, nil, jst, 50, logger,
	)

	e := router.New(handler.NewBookingHandler(svc, logger), nil, testSecret)
	// health не регистрируем в этом тесте
	return httptest.NewServer(e)
}

func bearerToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func post(t *testing.T, srv *httptest.Server, auth, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/lesson-booking", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func TestHandleRequiresToken(t *testing.T) {
	srv := newTestServer(t, oneWindowStore{})
	defer srv.Close()

	resp, body := post(t, srv, "", `{"action":"getAvailableSlots","bookingData":{"date":"2026-09-07"}}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestHandleInvalidAction(t *testing.T) {
	srv := newTestServer(t, oneWindowStore{})
	defer srv.Close()

	resp, body := post(t, srv, bearerToken(t, "user-1"), `{"action":"reschedule","bookingData":{}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid action", body["error"])
}

func TestHandleGetAvailableSlots(t *testing.T) {
	srv := newTestServer(t, oneWindowStore{})
	defer srv.Close()

	// 2026-09-07 - понедельник
	resp, body := post(t, srv, bearerToken(t, "user-1"), `{"action":"getAvailableSlots","bookingData":{"date":"2026-09-07"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	slots, ok := body["slots"].([]any)
	require.True(t, ok)
	require.Len(t, slots, 2)
	first := slots[0].(map[string]any)
	assert.Equal(t, "9:00", first["display"])
	assert.Equal(t, true, first["available"])
}

func TestHandleGetAvailableSlotsEmptyDay(t *testing.T) {
	srv := newTestServer(t, oneWindowStore{})
	defer srv.Close()

	// 2026-09-08 - вторник, окон нет: успех с пустым списком
	resp, body := post(t, srv, bearerToken(t, "user-1"), `{"action":"getAvailableSlots","bookingData":{"date":"2026-09-08"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	slots, ok := body["slots"].([]any)
	require.True(t, ok)
	assert.Empty(t, slots)
}

func TestHandleInvalidDate(t *testing.T) {
	srv := newTestServer(t, oneWindowStore{})
	defer srv.Close()

	resp, body := post(t, srv, bearerToken(t, "user-1"), `{"action":"getAvailableSlots","bookingData":{"date":"next monday"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}
