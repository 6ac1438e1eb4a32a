package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/okanav/ridehail-auth/internal/model"
)

// PrincipalRepo persists riders and drivers. The two kinds live in separate
// tables with the same core columns; drivers carry extra vehicle and
// position columns. The kind argument on every method selects the table.
type PrincipalRepo struct{ DB *sql.DB }

func NewPrincipalRepo(db *sql.DB) *PrincipalRepo { return &PrincipalRepo{DB: db} }

// Create inserts the principal and fills in its assigned ID. The email (and
// for drivers the plate) unique indexes back the duplicate checks; a MySQL
// 1062 is mapped to the matching sentinel so nothing is ever written twice.
func (r *PrincipalRepo) Create(ctx context.Context, p *model.Principal) error {
	var (
		res sql.Result
		err error
	)
	if p.Kind == model.KindDriver {
		res, err = r.DB.ExecContext(ctx,
			`INSERT INTO drivers
			 (first_name, last_name, email, secret_hash, availability,
			  vehicle_color, vehicle_plate, vehicle_capacity, vehicle_type)
			 VALUES (?,?,?,?,?,?,?,?,?)`,
			p.FirstName, p.LastName, p.Email, p.SecretHash, string(p.Availability),
			p.Vehicle.Color, p.Vehicle.Plate, p.Vehicle.Capacity, string(p.Vehicle.Type))
	} else {
		res, err = r.DB.ExecContext(ctx,
			"INSERT INTO riders (first_name, last_name, email, secret_hash) VALUES (?,?,?,?)",
			p.FirstName, p.LastName, p.Email, p.SecretHash)
	}
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			if strings.Contains(strings.ToLower(err.Error()), "plate") {
				return ErrPlateExists
			}
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// FindByEmail fetches a principal by normalized email, including the secret
// hash. This is the login read; it is the only path that loads the hash.
func (r *PrincipalRepo) FindByEmail(ctx context.Context, kind model.Kind, email string) (*model.Principal, error) {
	email = model.NormalizeEmail(email)
	p, err := r.scanOne(ctx, kind, "email=?", email, true)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID fetches a principal by id with the secret hash left empty. Used
// by the verifier gate and profile reads.
func (r *PrincipalRepo) FindByID(ctx context.Context, kind model.Kind, id uint64) (*model.Principal, error) {
	return r.scanOne(ctx, kind, "id=?", id, false)
}

func (r *PrincipalRepo) scanOne(ctx context.Context, kind model.Kind, where string, arg interface{}, withSecret bool) (*model.Principal, error) {
	p := &model.Principal{Kind: kind}
	var secret sql.NullString

	if kind == model.KindDriver {
		var (
			socketID     sql.NullString
			lastName     sql.NullString
			lat, lng     sql.NullFloat64
			availability string
			v            model.Vehicle
			vehicleType  string
		)
		err := r.DB.QueryRowContext(ctx,
			`SELECT id, first_name, last_name, email, secret_hash, socket_id, availability,
			        vehicle_color, vehicle_plate, vehicle_capacity, vehicle_type,
			        lat, lng, created_at, updated_at
			 FROM drivers WHERE `+where+" LIMIT 1", arg).
			Scan(&p.ID, &p.FirstName, &lastName, &p.Email, &secret, &socketID, &availability,
				&v.Color, &v.Plate, &v.Capacity, &vehicleType,
				&lat, &lng, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, mapNoRows(err)
		}
		p.LastName = lastName.String
		p.Availability = model.Availability(availability)
		v.Type = model.VehicleType(vehicleType)
		p.Vehicle = &v
		if socketID.Valid {
			p.SocketID = &socketID.String
		}
		if lat.Valid && lng.Valid {
			p.Position = &model.Position{Lat: lat.Float64, Lng: lng.Float64}
		}
	} else {
		var (
			socketID sql.NullString
			lastName sql.NullString
		)
		err := r.DB.QueryRowContext(ctx,
			`SELECT id, first_name, last_name, email, secret_hash, socket_id, created_at, updated_at
			 FROM riders WHERE `+where+" LIMIT 1", arg).
			Scan(&p.ID, &p.FirstName, &lastName, &p.Email, &secret, &socketID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, mapNoRows(err)
		}
		p.LastName = lastName.String
		if socketID.Valid {
			p.SocketID = &socketID.String
		}
	}

	if withSecret {
		p.SecretHash = secret.String
	}
	return p, nil
}

func mapNoRows(err error) error {
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}
