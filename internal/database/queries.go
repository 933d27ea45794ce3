package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries is the hand-written query layer over the connection pool. Rows are
// scanned into explicit typed records at this boundary; nothing above it sees
// raw result sets.
type Queries struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}

// User is a registered account. The access code is an opaque lookup key, not
// a credential.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Age       int32     `json:"age"`
	Height    float64   `json:"height"` // centimeters
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// WeightRecord is one immutable weight measurement in pounds.
type WeightRecord struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Weight     float64   `json:"weight"`
	RecordedAt time.Time `json:"recorded_at"`
}

// BloodPressureRecord is one immutable blood pressure measurement.
type BloodPressureRecord struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Systolic   int32     `json:"systolic"`
	Diastolic  int32     `json:"diastolic"`
	Pulse      int32     `json:"pulse"`
	RecordedAt time.Time `json:"recorded_at"`
}

/* =================================================================================
                                    USERS
=================================================================================*/

type CreateUserParams struct {
	Name   string
	Age    int32
	Height float64
	Code   string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO users (name, age, height, code, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING id, name, age, height, code, created_at`,
		arg.Name, arg.Age, arg.Height, arg.Code,
	)
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Age, &u.Height, &u.Code, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByCode(ctx context.Context, code string) (User, error) {
	row := q.db.QueryRow(ctx,
		`SELECT id, name, age, height, code, created_at FROM users WHERE code = $1`, code)
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Age, &u.Height, &u.Code, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRow(ctx,
		`SELECT id, name, age, height, code, created_at FROM users WHERE id = $1`, id)
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Age, &u.Height, &u.Code, &u.CreatedAt)
	return u, err
}

/* =================================================================================
                                WEIGHT RECORDS
=================================================================================*/

type InsertWeightParams struct {
	UserID     int64
	Weight     float64
	RecordedAt time.Time
}

func (q *Queries) InsertWeight(ctx context.Context, arg InsertWeightParams) (WeightRecord, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO weight_records (user_id, weight, recorded_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, weight, recorded_at`,
		arg.UserID, arg.Weight, arg.RecordedAt,
	)
	var r WeightRecord
	err := row.Scan(&r.ID, &r.UserID, &r.Weight, &r.RecordedAt)
	return r, err
}

// LatestWeight returns the most recent record; pgx.ErrNoRows when none exist.
func (q *Queries) LatestWeight(ctx context.Context, userID int64) (WeightRecord, error) {
	row := q.db.QueryRow(ctx,
		`SELECT id, user_id, weight, recorded_at FROM weight_records
		 WHERE user_id = $1 ORDER BY recorded_at DESC LIMIT 1`, userID)
	var r WeightRecord
	err := row.Scan(&r.ID, &r.UserID, &r.Weight, &r.RecordedAt)
	return r, err
}

// WeightHistory returns records since the given time, oldest first.
func (q *Queries) WeightHistory(ctx context.Context, userID int64, since time.Time) ([]WeightRecord, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, user_id, weight, recorded_at FROM weight_records
		 WHERE user_id = $1 AND recorded_at >= $2 ORDER BY recorded_at ASC`,
		userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WeightRecord
	for rows.Next() {
		var r WeightRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Weight, &r.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListWeightRecords returns the full history, newest first, for list views.
func (q *Queries) ListWeightRecords(ctx context.Context, userID int64) ([]WeightRecord, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, user_id, weight, recorded_at FROM weight_records
		 WHERE user_id = $1 ORDER BY recorded_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WeightRecord
	for rows.Next() {
		var r WeightRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Weight, &r.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteWeightRecord removes a record the user owns. pgx.ErrNoRows when the
// record does not exist or belongs to someone else.
func (q *Queries) DeleteWeightRecord(ctx context.Context, id, userID int64) error {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM weight_records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* =================================================================================
                            BLOOD PRESSURE RECORDS
=================================================================================*/

type InsertBloodPressureParams struct {
	UserID     int64
	Systolic   int32
	Diastolic  int32
	Pulse      int32
	RecordedAt time.Time
}

func (q *Queries) InsertBloodPressure(ctx context.Context, arg InsertBloodPressureParams) (BloodPressureRecord, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO blood_pressure_records (user_id, systolic, diastolic, pulse, recorded_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, systolic, diastolic, pulse, recorded_at`,
		arg.UserID, arg.Systolic, arg.Diastolic, arg.Pulse, arg.RecordedAt,
	)
	var r BloodPressureRecord
	err := row.Scan(&r.ID, &r.UserID, &r.Systolic, &r.Diastolic, &r.Pulse, &r.RecordedAt)
	return r, err
}

func (q *Queries) LatestBloodPressure(ctx context.Context, userID int64) (BloodPressureRecord, error) {
	row := q.db.QueryRow(ctx,
		`SELECT id, user_id, systolic, diastolic, pulse, recorded_at FROM blood_pressure_records
		 WHERE user_id = $1 ORDER BY recorded_at DESC LIMIT 1`, userID)
	var r BloodPressureRecord
	err := row.Scan(&r.ID, &r.UserID, &r.Systolic, &r.Diastolic, &r.Pulse, &r.RecordedAt)
	return r, err
}

func (q *Queries) BloodPressureHistory(ctx context.Context, userID int64, since time.Time) ([]BloodPressureRecord, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, user_id, systolic, diastolic, pulse, recorded_at FROM blood_pressure_records
		 WHERE user_id = $1 AND recorded_at >= $2 ORDER BY recorded_at ASC`,
		userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BloodPressureRecord
	for rows.Next() {
		var r BloodPressureRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Systolic, &r.Diastolic, &r.Pulse, &r.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) ListBloodPressureRecords(ctx context.Context, userID int64) ([]BloodPressureRecord, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, user_id, systolic, diastolic, pulse, recorded_at FROM blood_pressure_records
		 WHERE user_id = $1 ORDER BY recorded_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BloodPressureRecord
	for rows.Next() {
		var r BloodPressureRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Systolic, &r.Diastolic, &r.Pulse, &r.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) DeleteBloodPressureRecord(ctx context.Context, id, userID int64) error {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM blood_pressure_records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
