package get_salon_appointments

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	query := url.Values{
		"startDate":       {"2025-03-01"},
		"endDate":         {"2025-03-31"},
		"status":          {"Pending,Approved", "Completed"},
		"staffId":         {"7"},
		"includeInactive": {"true"},
	}

	req, err := ToServiceRequest(2, 1, query)
	require.NoError(t, err)

	assert.Equal(t, int64(2), req.UserID)
	assert.Equal(t, int64(1), req.SalonID)
	assert.Equal(t, "2025-03-01", *req.StartDate)
	assert.Equal(t, "2025-03-31", *req.EndDate)
	assert.Equal(t, []string{"Pending", "Approved", "Completed"}, req.Statuses)
	assert.Equal(t, int64(7), *req.StaffID)
	assert.True(t, req.IncludeInactive)
}

func TestToServiceRequest_Empty(t *testing.T) {
	req, err := ToServiceRequest(2, 1, url.Values{})
	require.NoError(t, err)

	assert.Nil(t, req.StartDate)
	assert.Nil(t, req.StaffID)
	assert.Empty(t, req.Statuses)
	assert.False(t, req.IncludeInactive)
}

func TestToServiceRequest_Invalid(t *testing.T) {
	_, err := ToServiceRequest(2, 1, url.Values{"staffId": {"x"}})
	assert.Error(t, err)

	_, err = ToServiceRequest(2, 1, url.Values{"includeInactive": {"maybe"}})
	assert.Error(t, err)
}
