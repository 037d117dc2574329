package attendance

import (
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/validator"
)

// MarkPresentRequest is the one-shot geolocation result from the device.
// GeolocationError is set when the device refused or could not resolve a fix.
type MarkPresentRequest struct {
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	GeolocationError string   `json:"geolocation_error,omitempty"`
}

func (r *MarkPresentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListByDateRequest struct {
	Date string
}

func (r *ListByDateRequest) Validate() error {
	if r.Date == "" {
		return nil
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		return validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return nil
}

type RecordResponse struct {
	UserID    string             `json:"user_id"`
	Name      string             `json:"name"`
	Date      string             `json:"date"`
	Status    Status             `json:"status"`
	Location  *utils.Coordinates `json:"location,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		UserID:    r.UserID,
		Name:      r.Name,
		Date:      r.Date,
		Status:    r.Status,
		Location:  r.Location,
		Timestamp: r.Timestamp,
	}
}

func NewRecordResponses(records []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewRecordResponse(r))
	}
	return out
}

// MarkPresentResponse echoes the stored record and the measured distance.
type MarkPresentResponse struct {
	Record   RecordResponse `json:"record"`
	Distance float64        `json:"distance_meters"`
}

type TodayResponse struct {
	Date   string          `json:"date"`
	Status Status          `json:"status"`
	Record *RecordResponse `json:"record,omitempty"`
}
