package attendance

import (
	"errors"
	"fmt"
	"math"
)

// Attendance domain errors
var (
	ErrGeolocationUnavailable = errors.New("geolocation is not available on this device")
	ErrOutsideGeofence        = errors.New("outside the campus geofence")
	ErrAlreadyMarked          = errors.New("attendance already marked for today")
	ErrWriteFailed            = errors.New("failed to save attendance")

	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidStatus      = errors.New("invalid attendance status")
)

// OutsideGeofenceError carries the measured distance. It matches
// ErrOutsideGeofence with errors.Is.
type OutsideGeofenceError struct {
	Distance float64
	Radius   float64
}

func (e *OutsideGeofenceError) Error() string {
	return fmt.Sprintf("Too far: You are %dm away", int(math.Round(e.Distance)))
}

func (e *OutsideGeofenceError) Is(target error) bool {
	return target == ErrOutsideGeofence
}
