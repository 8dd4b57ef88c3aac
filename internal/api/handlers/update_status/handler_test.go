package update_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SalonBookingService/internal/domain"
	updateStatus "github.com/m04kA/SalonBookingService/internal/usecase/update_status"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got *updateStatus.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *updateStatus.Request) (*updateStatus.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &updateStatus.Response{
		Appointment:    &domain.Appointment{ID: req.AppointmentID, Status: domain.Status(req.Status)},
		From:           domain.StatusInProgress,
		To:             domain.Status(req.Status),
		RevenueCreated: 2,
	}, nil
}

func serve(uc UpdateStatusUseCase, id string, userID int64, payload string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/appointments/{appointmentId}/status", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+id+"/status", strings.NewReader(payload))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Completed(t *testing.T) {
	uc := &fakeUseCase{}
	id := uuid.New()

	rec := serve(uc, id.String(), 77, `{"status":"Completed","salonNotes":"ok"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, uc.got.AppointmentID)
	assert.Equal(t, int64(77), uc.got.UserID)

	var resp UpdateStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "In-Progress", resp.PreviousStatus)
	assert.Equal(t, "Completed", resp.Appointment.Status)
	assert.Equal(t, 2, resp.RevenueCreated)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{updateStatus.ErrAppointmentNotFound, http.StatusNotFound},
		{updateStatus.ErrAccessDenied, http.StatusForbidden},
		{fmt.Errorf("%w: Completed -> Pending", updateStatus.ErrInvalidTransition), http.StatusConflict},
		{updateStatus.ErrVersionConflict, http.StatusConflict},
		{updateStatus.ErrInvalidInput, http.StatusBadRequest},
		{updateStatus.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, uuid.NewString(), 77, `{"status":"Approved"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandler_BadPath(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, "not-a-uuid", 77, `{"status":"Approved"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(&fakeUseCase{}, uuid.NewString(), 0, `{"status":"Approved"}`).Code)
}
