package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fields(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateRegistrationOK(t *testing.T) {
	errs := ValidateRegistration(KindRider, "Ana", "", "a@x.com", "abcdef12")
	assert.Empty(t, errs)

	errs = ValidateRegistration(KindDriver, "Bartholomew Jr", "Oduya-Smithson", "b@x.com", "abcdef12")
	assert.Empty(t, errs)
}

func TestValidateRegistrationNameBoundsPerKind(t *testing.T) {
	// 16 chars: too long for a rider, fine for a driver.
	name := "Sixteen-chars-ab"
	assert.Contains(t, fields(ValidateRegistration(KindRider, name, "", "a@x.com", "abcdef12")), "firstName")
	assert.Empty(t, ValidateRegistration(KindDriver, name, "", "a@x.com", "abcdef12"))

	// Below the shared lower bound fails both.
	assert.Contains(t, fields(ValidateRegistration(KindRider, "Al", "", "a@x.com", "abcdef12")), "firstName")
	assert.Contains(t, fields(ValidateRegistration(KindDriver, "Al", "", "a@x.com", "abcdef12")), "firstName")
}

func TestValidateRegistrationOptionalLastName(t *testing.T) {
	assert.Empty(t, ValidateRegistration(KindRider, "Ana", "", "a@x.com", "abcdef12"))
	assert.Contains(t, fields(ValidateRegistration(KindRider, "Ana", "Ng", "a@x.com", "abcdef12")), "lastName")
}

func TestValidateRegistrationEmailAndSecret(t *testing.T) {
	assert.Contains(t, fields(ValidateRegistration(KindRider, "Ana", "", "not-an-email", "abcdef12")), "email")
	assert.Contains(t, fields(ValidateRegistration(KindRider, "Ana", "", "a@x", "abcdef12")), "email")
	assert.Contains(t, fields(ValidateRegistration(KindRider, "Ana", "", "a@x.com", "short")), "password")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
}

func TestValidateVehicle(t *testing.T) {
	ok := &Vehicle{Color: "red", Plate: "MH02CB4763", Capacity: 5, Type: VehicleCar}
	assert.Empty(t, ValidateVehicle(ok))

	assert.Contains(t, fields(ValidateVehicle(nil)), "vehicle")

	bad := &Vehicle{Color: "r", Plate: "x", Capacity: 0, Type: "boat"}
	got := fields(ValidateVehicle(bad))
	assert.Contains(t, got, "vehicle.color")
	assert.Contains(t, got, "vehicle.plate")
	assert.Contains(t, got, "vehicle.capacity")
	assert.Contains(t, got, "vehicle.vehicleType")
}

func TestValidateLogin(t *testing.T) {
	assert.Empty(t, ValidateLogin("a@x.com", "abcdef12"))
	assert.Contains(t, fields(ValidateLogin("nope", "abcdef12")), "email")
	assert.Contains(t, fields(ValidateLogin("a@x.com", "")), "password")
}
