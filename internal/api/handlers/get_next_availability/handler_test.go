package get_next_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	findNextAvailability "github.com/m04kA/SalonBookingService/internal/usecase/find_next_availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	resp *findNextAvailability.Response
	err  error
}

func (f *fakeUseCase) Execute(context.Context, *findNextAvailability.Request) (*findNextAvailability.Response, error) {
	return f.resp, f.err
}

func serve(uc FindNextAvailabilityUseCase, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/salons/{salonId}/next-availability", NewHandler(uc, nopLogger{}).Handle)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_Found(t *testing.T) {
	uc := &fakeUseCase{resp: &findNextAvailability.Response{Found: true, Date: "2025-03-11", Time: "09:00", DayLabel: "Tue"}}
	rec := serve(uc, "/salons/1/next-availability?duration=60")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp NextAvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, NextAvailabilityResponse{SalonID: 1, Available: true, Date: "2025-03-11", Time: "09:00", Day: "Tue"}, resp)
}

func TestHandler_NotFoundWithinHorizon(t *testing.T) {
	uc := &fakeUseCase{resp: &findNextAvailability.Response{Found: false}}
	rec := serve(uc, "/salons/1/next-availability")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"salonId":1,"available":false}`, rec.Body.String())
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, serve(&fakeUseCase{err: findNextAvailability.ErrSalonNotFound}, "/salons/1/next-availability").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, "/salons/1/next-availability?duration=abc").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeUseCase{err: findNextAvailability.ErrInternal}, "/salons/1/next-availability").Code)
}
