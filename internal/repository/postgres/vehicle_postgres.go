package postgres

import (
	"context"
	"database/sql"

	"evo/internal/database"
	"evo/internal/model"
	"evo/internal/repository"
)

// VehiclePostgres is a PostgreSQL implementation of repository.VehicleRepository.
// Counters live in service_counters keyed by (vehicle_id, kind); costs in costs.
type VehiclePostgres struct {
	db *sql.DB
}

// NewVehiclePostgres creates a new VehiclePostgres repository.
func NewVehiclePostgres(db *sql.DB) *VehiclePostgres {
	return &VehiclePostgres{db: db}
}

var _ repository.VehicleRepository = (*VehiclePostgres)(nil)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const vehicleColumns = `id, user_id, brand, model, year, registration, odometer, created_at, updated_at`

const costColumns = `id, vehicle_id, category, subcategory, description, notes, location, vendor, amount, date, mileage, receipt_key, created_at`

const (
	selectVehicle       = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	selectVehicleLocked = selectVehicle + ` FOR UPDATE`
)

func scanVehicle(s rowScanner) (*model.Vehicle, error) {
	var (
		v    model.Vehicle
		year sql.NullInt64
	)
	if err := s.Scan(
		&v.ID,
		&v.UserID,
		&v.Brand,
		&v.Model,
		&year,
		&v.Registration,
		&v.Odometer,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	v.Year = intPtr(year)
	v.Costs = make([]model.Cost, 0)
	return &v, nil
}

func scanCost(s rowScanner) (*model.Cost, error) {
	var (
		c       model.Cost
		mileage sql.NullInt64
	)
	if err := s.Scan(
		&c.ID,
		&c.VehicleID,
		&c.Category,
		&c.Subcategory,
		&c.Description,
		&c.Notes,
		&c.Location,
		&c.Vendor,
		&c.Amount,
		&c.Date,
		&mileage,
		&c.ReceiptKey,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.Mileage = int64Ptr(mileage)
	return &c, nil
}

// Create inserts the vehicle row and its counters.
func (r *VehiclePostgres) Create(ctx context.Context, v *model.Vehicle) error {
	const q = `
		INSERT INTO vehicles (id, user_id, brand, model, year, registration, odometer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, q,
			v.ID,
			v.UserID,
			v.Brand,
			v.Model,
			nullInt(v.Year),
			v.Registration,
			v.Odometer,
			v.CreatedAt,
			v.UpdatedAt,
		); err != nil {
			return translate(err)
		}
		return upsertCounters(ctx, tx, v)
	})
}

// FindByID fetches a vehicle with its counters and costs.
func (r *VehiclePostgres) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	return findVehicle(ctx, r.db, selectVehicle, id)
}

func findVehicle(ctx context.Context, q queryer, vehicleQuery, id string) (*model.Vehicle, error) {
	v, err := scanVehicle(q.QueryRowContext(ctx, vehicleQuery, id))
	if err != nil {
		return nil, translate(err)
	}

	byID := map[string]*model.Vehicle{v.ID: v}
	const qCounters = `
		SELECT vehicle_id, kind, last_km, last_date, interval_km, interval_months
		FROM service_counters
		WHERE vehicle_id = $1
	`
	if err := loadCounters(ctx, q, byID, qCounters, id); err != nil {
		return nil, err
	}
	const qCosts = `SELECT ` + costColumns + `
		FROM costs
		WHERE vehicle_id = $1
		ORDER BY date DESC, created_at DESC
	`
	if err := loadCosts(ctx, q, byID, qCosts, id); err != nil {
		return nil, err
	}
	return v, nil
}

// ListByUser returns the user's vehicles oldest first, each with counters and costs.
func (r *VehiclePostgres) ListByUser(ctx context.Context, userID string) ([]model.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Vehicle, 0)
	byID := make(map[string]*model.Vehicle)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
		byID[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := make([]model.Vehicle, 0, len(list))
	if len(list) == 0 {
		return items, nil
	}

	const qCounters = `
		SELECT sc.vehicle_id, sc.kind, sc.last_km, sc.last_date, sc.interval_km, sc.interval_months
		FROM service_counters sc
		JOIN vehicles v ON v.id = sc.vehicle_id
		WHERE v.user_id = $1
	`
	if err := loadCounters(ctx, r.db, byID, qCounters, userID); err != nil {
		return nil, err
	}
	const qCosts = `
		SELECT c.id, c.vehicle_id, c.category, c.subcategory, c.description, c.notes, c.location, c.vendor,
		       c.amount, c.date, c.mileage, c.receipt_key, c.created_at
		FROM costs c
		JOIN vehicles v ON v.id = c.vehicle_id
		WHERE v.user_id = $1
		ORDER BY c.date DESC, c.created_at DESC
	`
	if err := loadCosts(ctx, r.db, byID, qCosts, userID); err != nil {
		return nil, err
	}

	for _, v := range list {
		items = append(items, *v)
	}
	return items, nil
}

func loadCounters(ctx context.Context, db queryer, byID map[string]*model.Vehicle, q string, arg string) error {
	rows, err := db.QueryContext(ctx, q, arg)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			vehicleID, kind string
			lastKm          sql.NullInt64
			lastDate        sql.NullTime
			c               model.ServiceCounter
		)
		if err := rows.Scan(&vehicleID, &kind, &lastKm, &lastDate, &c.IntervalKm, &c.IntervalMonths); err != nil {
			return err
		}
		k, ok := model.ParseCounterKind(kind)
		v := byID[vehicleID]
		if !ok || v == nil {
			continue
		}
		c.LastKm = int64Ptr(lastKm)
		c.LastDate = timePtr(lastDate)
		v.ServiceCounters.Set(k, &c)
	}
	return rows.Err()
}

func loadCosts(ctx context.Context, db queryer, byID map[string]*model.Vehicle, q string, arg string) error {
	rows, err := db.QueryContext(ctx, q, arg)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCost(rows)
		if err != nil {
			return err
		}
		if v := byID[c.VehicleID]; v != nil {
			v.Costs = append(v.Costs, *c)
		}
	}
	return rows.Err()
}

// Delete removes a vehicle; its counters and costs cascade.
func (r *VehiclePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM vehicles WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Modify runs fn on the vehicle while its row is locked and writes the outcome in the same transaction.
func (r *VehiclePostgres) Modify(ctx context.Context, id string, fn repository.ModifyFunc) (*model.Vehicle, error) {
	var out *model.Vehicle
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		v, err := findVehicle(ctx, tx, selectVehicleLocked, id)
		if err != nil {
			return err
		}
		change, err := fn(v)
		if err != nil {
			return err
		}
		if err := writeCostChange(ctx, tx, v.ID, change); err != nil {
			return err
		}
		if err := updateVehicleRow(ctx, tx, v); err != nil {
			return err
		}
		if err := upsertCounters(ctx, tx, v); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetReceipt stores the receipt object key of a cost.
func (r *VehiclePostgres) SetReceipt(ctx context.Context, costID, key string) error {
	const q = `UPDATE costs SET receipt_key = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, costID, key)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// ReceiptKeys lists the receipt object keys of a vehicle's costs.
func (r *VehiclePostgres) ReceiptKeys(ctx context.Context, vehicleID string) ([]string, error) {
	const q = `SELECT receipt_key FROM costs WHERE vehicle_id = $1 AND receipt_key <> ''`
	return r.keys(ctx, q, vehicleID)
}

// ReceiptKeysByUser lists the receipt object keys across a user's vehicles.
func (r *VehiclePostgres) ReceiptKeysByUser(ctx context.Context, userID string) ([]string, error) {
	const q = `
		SELECT c.receipt_key
		FROM costs c
		JOIN vehicles v ON v.id = c.vehicle_id
		WHERE v.user_id = $1 AND c.receipt_key <> ''
	`
	return r.keys(ctx, q, userID)
}

func (r *VehiclePostgres) keys(ctx context.Context, q, arg string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func updateVehicleRow(ctx context.Context, tx execer, v *model.Vehicle) error {
	const q = `
		UPDATE vehicles
		SET brand = $2, model = $3, year = $4, registration = $5, odometer = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, q,
		v.ID,
		v.Brand,
		v.Model,
		nullInt(v.Year),
		v.Registration,
		v.Odometer,
		v.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func writeCostChange(ctx context.Context, tx execer, vehicleID string, change repository.CostChange) error {
	switch {
	case change.Insert != nil:
		c := change.Insert
		const q = `
			INSERT INTO costs (id, vehicle_id, category, subcategory, description, notes, location, vendor,
			                   amount, date, mileage, receipt_key, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`
		_, err := tx.ExecContext(ctx, q,
			c.ID,
			vehicleID,
			c.Category,
			c.Subcategory,
			c.Description,
			c.Notes,
			c.Location,
			c.Vendor,
			c.Amount,
			c.Date,
			nullInt64(c.Mileage),
			c.ReceiptKey,
			c.CreatedAt,
		)
		return translate(err)
	case change.Update != nil:
		c := change.Update
		const q = `
			UPDATE costs
			SET category = $3, subcategory = $4, description = $5, notes = $6, location = $7, vendor = $8,
			    amount = $9, date = $10, mileage = $11
			WHERE id = $1 AND vehicle_id = $2
		`
		res, err := tx.ExecContext(ctx, q,
			c.ID,
			vehicleID,
			c.Category,
			c.Subcategory,
			c.Description,
			c.Notes,
			c.Location,
			c.Vendor,
			c.Amount,
			c.Date,
			nullInt64(c.Mileage),
		)
		if err != nil {
			return err
		}
		return expectOne(res)
	case change.Delete != "":
		const q = `DELETE FROM costs WHERE id = $1 AND vehicle_id = $2`
		res, err := tx.ExecContext(ctx, q, change.Delete, vehicleID)
		if err != nil {
			return err
		}
		return expectOne(res)
	}
	return nil
}

func upsertCounters(ctx context.Context, tx execer, v *model.Vehicle) error {
	const q = `
		INSERT INTO service_counters (vehicle_id, kind, last_km, last_date, interval_km, interval_months)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (vehicle_id, kind) DO UPDATE
		SET last_km = EXCLUDED.last_km,
		    last_date = EXCLUDED.last_date,
		    interval_km = EXCLUDED.interval_km,
		    interval_months = EXCLUDED.interval_months
	`
	for _, k := range model.CounterKinds {
		c := v.ServiceCounters.Get(k)
		if c == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx, q,
			v.ID,
			string(k),
			nullInt64(c.LastKm),
			nullTime(c.LastDate),
			c.IntervalKm,
			c.IntervalMonths,
		); err != nil {
			return err
		}
	}
	return nil
}
