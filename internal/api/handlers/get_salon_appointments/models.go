package get_salon_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/m04kA/SalonBookingService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос к сервису из query параметров.
// status можно передать несколько раз или через запятую.
func ToServiceRequest(userID, salonID int64, query url.Values) (*models.GetSalonAppointmentsRequest, error) {
	req := &models.GetSalonAppointmentsRequest{
		UserID:  userID,
		SalonID: salonID,
	}

	if v := query.Get("startDate"); v != "" {
		req.StartDate = &v
	}
	if v := query.Get("endDate"); v != "" {
		req.EndDate = &v
	}

	for _, raw := range query["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				req.Statuses = append(req.Statuses, s)
			}
		}
	}

	if v := query.Get("staffId"); v != "" {
		staffID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid staffId %q", v)
		}
		req.StaffID = &staffID
	}

	if v := query.Get("includeInactive"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive %q", v)
		}
		req.IncludeInactive = include
	}

	return req, nil
}
