package model

import "time"

// Kind discriminates the two principal partitions. Every principal is
// exactly one of these; the value selects both the storage table and the
// route prefix the account is served under.
type Kind string

const (
	KindRider  Kind = "rider"
	KindDriver Kind = "driver"
)

// Availability is the driver duty state. New drivers start inactive and
// flip to active out-of-band when they go on duty.
type Availability string

const (
	AvailabilityActive   Availability = "active"
	AvailabilityInactive Availability = "inactive"
)

// VehicleType enumerates the vehicle classes a driver may register.
type VehicleType string

const (
	VehicleCar        VehicleType = "car"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleAuto       VehicleType = "auto"
)

// Vehicle describes a driver's registered vehicle. Plate is unique across
// all drivers.
//
// Fields:
//  Color    – vehicle color, free text.
//  Plate    – registration plate, unique.
//  Capacity – passenger capacity, at least 1.
//  Type     – one of car, motorcycle, auto.
type Vehicle struct {
	Color    string      `json:"color"`
	Plate    string      `json:"plate"`
	Capacity int         `json:"capacity"`
	Type     VehicleType `json:"vehicleType"`
}

// Position is a driver's last reported location. Updated out-of-band by the
// trip subsystem; stored here only.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Principal represents an authenticated actor of either kind as stored in
// the `riders` or `drivers` table. The Kind tag selects which partition the
// record lives in; driver-only fields are nil/zero for riders.
//
// SecretHash carries the bcrypt digest of the login secret. It is excluded
// from JSON serialization entirely and populated only on the login read
// path; every other read leaves it empty.
//
// Fields:
//  ID           – primary key within the kind's table.
//  Kind         – rider or driver.
//  FirstName    – required given name.
//  LastName     – optional family name.
//  Email        – unique (per kind) login identifier, stored lowercased.
//  SecretHash   – bcrypt hash of the secret; never serialized.
//  SocketID     – opaque realtime channel reference, set out-of-band.
//  Availability – driver duty state (drivers only).
//  Vehicle      – registered vehicle (drivers only).
//  Position     – last reported location (drivers only, may be nil).
type Principal struct {
	ID           uint64       `json:"id"`
	Kind         Kind         `json:"-"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName,omitempty"`
	Email        string       `json:"email"`
	SecretHash   string       `json:"-"`
	SocketID     *string      `json:"socketId,omitempty"`
	Availability Availability `json:"availability,omitempty"`
	Vehicle      *Vehicle     `json:"vehicle,omitempty"`
	Position     *Position    `json:"position,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
