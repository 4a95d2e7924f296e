package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"vehiclecare/models"
)

var contactPattern = regexp.MustCompile(`^\+?[0-9][0-9 -]{5,18}[0-9]$`)

// pastTolerance absorbs clock skew between client and server for estimatedStartAt.
const pastTolerance = time.Minute

// validateInput trims and normalises a booking request, collecting every field
// problem into one ValidationError.
func validateInput(in models.BookingInput, now time.Time) (models.BookingInput, error) {
	out := models.BookingInput{
		VehicleType:      strings.TrimSpace(in.VehicleType),
		VehicleMake:      strings.TrimSpace(in.VehicleMake),
		VehicleModel:     strings.TrimSpace(in.VehicleModel),
		VehicleNo:        strings.ToUpper(strings.TrimSpace(in.VehicleNo)),
		ContactNo:        strings.TrimSpace(in.ContactNo),
		StationID:        strings.TrimSpace(in.StationID),
		EstimatedStartAt: in.EstimatedStartAt,
		ServiceTypes:     dedupServices(in.ServiceTypes),
	}

	var problems []string
	required := []struct{ name, value string }{
		{"vehicleType", out.VehicleType},
		{"vehicleMake", out.VehicleMake},
		{"vehicleModel", out.VehicleModel},
		{"vehicleNo", out.VehicleNo},
		{"contactNo", out.ContactNo},
		{"serviceStationId", out.StationID},
	}
	for _, f := range required {
		if f.value == "" {
			problems = append(problems, f.name+" is required")
		}
	}
	if out.ContactNo != "" && !contactPattern.MatchString(out.ContactNo) {
		problems = append(problems, "contactNo is not a valid phone number")
	}
	if len(out.ServiceTypes) == 0 {
		problems = append(problems, "at least one serviceType is required")
	}
	if out.EstimatedStartAt != nil && out.EstimatedStartAt.Before(now.Add(-pastTolerance)) {
		problems = append(problems, "estimatedStartAt is in the past")
	}

	if len(problems) > 0 {
		return out, NewError(ErrValidation, strings.Join(problems, "; "))
	}
	return out, nil
}

func dedupServices(services []string) []string {
	seen := make(map[string]bool, len(services))
	out := make([]string, 0, len(services))
	for _, s := range services {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// checkStationAccepts verifies the station can take this request right now.
func checkStationAccepts(st *models.ServiceStation, in models.BookingInput) error {
	if !st.Approved {
		return NewError(ErrStationClosed, "service station is not yet approved")
	}
	if st.Status != models.StationOpen {
		return NewError(ErrStationClosed, "Service Station Closed")
	}
	if !st.Serves(in.VehicleType) {
		return NewError(ErrValidation, fmt.Sprintf("service station does not serve %s vehicles", in.VehicleType))
	}
	var missing []string
	for _, svc := range in.ServiceTypes {
		if !st.Offers(svc) {
			missing = append(missing, svc)
		}
	}
	if len(missing) > 0 {
		return NewError(ErrValidation, "service station does not offer: "+strings.Join(missing, ", "))
	}
	return nil
}
