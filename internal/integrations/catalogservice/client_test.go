package catalogservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, nopLogger{})
}

func TestClient_GetService(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/salons/3/services/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":42,"salon_id":3,"name":"Manicure","price":30,"discounted_price":24.5,"duration":45,"is_active":true}`))
	})

	service, err := client.GetService(context.Background(), 3, 42)
	require.NoError(t, err)

	assert.Equal(t, "Manicure", service.Name)
	assert.Equal(t, 45, service.Duration)
	assert.Equal(t, 24.5, service.EffectivePrice())
	assert.True(t, service.IsActive)
}

func TestClient_GetService_NoDiscount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"salon_id":3,"name":"Haircut","price":20,"duration":30,"is_active":true}`))
	})

	service, err := client.GetService(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 20.0, service.EffectivePrice())
}

func TestClient_GetService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: ErrServiceNotFound},
		{name: "server error", status: http.StatusBadGateway, body: "upstream", wantErr: ErrUnavailable},
		{name: "bad request", status: http.StatusBadRequest, body: `{"code":400,"message":"bad id"}`, wantErr: ErrInvalidResponse},
		{name: "broken json", status: http.StatusOK, body: `{"id":`, wantErr: ErrInvalidResponse},
		{name: "other salon", status: http.StatusOK, body: `{"id":1,"salon_id":99,"name":"x","price":1,"duration":30}`, wantErr: ErrServiceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GetService(context.Background(), 3, 1)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_GetService_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond, nopLogger{})

	_, err := client.GetService(context.Background(), 3, 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}
