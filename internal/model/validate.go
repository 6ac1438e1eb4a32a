package model

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError is one field-level validation failure returned to the client
// alongside the generic validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// emailPattern is deliberately loose: one @, something on both sides, a dot
// in the domain. Anything stricter rejects real addresses.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minSecretLen = 8

// nameBounds returns the allowed given/family name length range for a
// kind. Driver names allow a little more room than rider names.
func nameBounds(k Kind) (int, int) {
	if k == KindDriver {
		return 3, 20
	}
	return 3, 15
}

// NormalizeEmail lowercases and trims an address so uniqueness checks and
// lookups agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks the common registration fields for a
// principal of kind k and returns every violation found. The caller is
// expected to have normalized the email first.
func ValidateRegistration(k Kind, firstName, lastName, email, secret string) []FieldError {
	var errs []FieldError
	lo, hi := nameBounds(k)

	if n := len(strings.TrimSpace(firstName)); n < lo || n > hi {
		errs = append(errs, FieldError{
			Field:   "firstName",
			Message: fmt.Sprintf("first name must be %d-%d characters", lo, hi),
		})
	}
	if lastName != "" {
		if n := len(strings.TrimSpace(lastName)); n < lo || n > hi {
			errs = append(errs, FieldError{
				Field:   "lastName",
				Message: fmt.Sprintf("last name must be %d-%d characters", lo, hi),
			})
		}
	}
	if !emailPattern.MatchString(email) {
		errs = append(errs, FieldError{Field: "email", Message: "invalid email address"})
	}
	if len(secret) < minSecretLen {
		errs = append(errs, FieldError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", minSecretLen),
		})
	}
	return errs
}

// ValidateLogin checks the login payload shape without touching the store.
func ValidateLogin(email, secret string) []FieldError {
	var errs []FieldError
	if !emailPattern.MatchString(email) {
		errs = append(errs, FieldError{Field: "email", Message: "invalid email address"})
	}
	if secret == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	return errs
}

// ValidateVehicle checks the driver vehicle block.
func ValidateVehicle(v *Vehicle) []FieldError {
	if v == nil {
		return []FieldError{{Field: "vehicle", Message: "vehicle is required"}}
	}
	var errs []FieldError
	if len(strings.TrimSpace(v.Color)) < 3 {
		errs = append(errs, FieldError{Field: "vehicle.color", Message: "color must be at least 3 characters"})
	}
	if len(strings.TrimSpace(v.Plate)) < 3 {
		errs = append(errs, FieldError{Field: "vehicle.plate", Message: "plate must be at least 3 characters"})
	}
	if v.Capacity < 1 {
		errs = append(errs, FieldError{Field: "vehicle.capacity", Message: "capacity must be at least 1"})
	}
	switch v.Type {
	case VehicleCar, VehicleMotorcycle, VehicleAuto:
	default:
		errs = append(errs, FieldError{Field: "vehicle.vehicleType", Message: "vehicle type must be car, motorcycle or auto"})
	}
	return errs
}
