// repository/delivery/deliveryRepository.go
package deliveryrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/Siyemukel/Digital-online-bookstore/model"
)

// PendingRow is what staff see on the assignment screen.
type PendingRow struct {
	ID         int64  `json:"id"`
	PurchaseID int64  `json:"purchase_id"`
	Address    string `json:"address"`
}

// HistoryRow is a student's delivery with its purchase date.
type HistoryRow struct {
	ID          int64                `json:"id"`
	PurchaseID  int64                `json:"purchase_id"`
	Status      model.DeliveryStatus `json:"status"`
	Address     string               `json:"address"`
	DeliveredAt *time.Time           `json:"delivered_at,omitempty"`
	PurchasedAt time.Time            `json:"purchased_at"`
}

// DriverOption fills the staff assignment dropdown.
type DriverOption struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Repo interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, deliveryID int64) (*model.Delivery, error)
	Assign(ctx context.Context, tx *sql.Tx, deliveryID, driverID int64) error
	MarkPickedUp(ctx context.Context, tx *sql.Tx, deliveryID int64) error
	MarkDelivered(ctx context.Context, tx *sql.Tx, deliveryID int64) error

	ListPending(ctx context.Context) ([]PendingRow, error)
	ListDrivers(ctx context.Context) ([]DriverOption, error)
	ListByDriver(ctx context.Context, driverID int64) ([]PendingRow, error)
	ListByUser(ctx context.Context, userID int64) ([]HistoryRow, error)
	GetForUser(ctx context.Context, deliveryID, userID int64) (*model.Delivery, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, deliveryID int64) (*model.Delivery, error) {
	const q = `
SELECT id, purchase_id, driver_id, address, status, delivered_at
FROM deliveries
WHERE id=$1
FOR UPDATE`
	d := &model.Delivery{}
	err := tx.QueryRowContext(ctx, q, deliveryID).
		Scan(&d.ID, &d.PurchaseID, &d.DriverID, &d.Address, &d.Status, &d.DeliveredAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repo) Assign(ctx context.Context, tx *sql.Tx, deliveryID, driverID int64) error {
	const q = `
UPDATE deliveries
SET driver_id=$2, status=$3
WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, deliveryID, driverID, model.DeliveryDriverAssigned)
	return err
}

func (r *repo) MarkPickedUp(ctx context.Context, tx *sql.Tx, deliveryID int64) error {
	const q = `UPDATE deliveries SET status=$2 WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, deliveryID, model.DeliveryPickUpConfirmed)
	return err
}

func (r *repo) MarkDelivered(ctx context.Context, tx *sql.Tx, deliveryID int64) error {
	const q = `
UPDATE deliveries
SET status=$2, delivered_at=NOW()
WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, deliveryID, model.DeliveryDelivered)
	return err
}

func (r *repo) ListPending(ctx context.Context) ([]PendingRow, error) {
	const q = `
SELECT id, purchase_id, address
FROM deliveries
WHERE status=$1
ORDER BY id DESC`
	return r.queryRows(ctx, q, model.DeliveryPending)
}

func (r *repo) ListDrivers(ctx context.Context) ([]DriverOption, error) {
	const q = `
SELECT d.user_id, u.email, d.first_name, d.last_name
FROM drivers d
JOIN users u ON d.user_id = u.id
ORDER BY d.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DriverOption
	for rows.Next() {
		var d DriverOption
		if err := rows.Scan(&d.UserID, &d.Email, &d.FirstName, &d.LastName); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repo) ListByDriver(ctx context.Context, driverID int64) ([]PendingRow, error) {
	const q = `
SELECT id, purchase_id, address
FROM deliveries
WHERE driver_id=$1
  AND status <> $2
ORDER BY id DESC`
	return r.queryRows(ctx, q, driverID, model.DeliveryDelivered)
}

func (r *repo) queryRows(ctx context.Context, q string, args ...any) ([]PendingRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingRow
	for rows.Next() {
		var p PendingRow
		if err := rows.Scan(&p.ID, &p.PurchaseID, &p.Address); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]HistoryRow, error) {
	const q = `
SELECT d.id, d.purchase_id, d.status, d.address, d.delivered_at, p.created_at
FROM deliveries d
JOIN purchases p ON d.purchase_id = p.id
WHERE p.user_id = $1
ORDER BY d.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(&h.ID, &h.PurchaseID, &h.Status, &h.Address, &h.DeliveredAt, &h.PurchasedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) GetForUser(ctx context.Context, deliveryID, userID int64) (*model.Delivery, error) {
	const q = `
SELECT d.id, d.purchase_id, d.driver_id, d.address, d.status, d.delivered_at
FROM deliveries d
JOIN purchases p ON d.purchase_id = p.id
WHERE d.id = $1 AND p.user_id = $2`
	d := &model.Delivery{}
	err := r.db.QueryRowContext(ctx, q, deliveryID, userID).
		Scan(&d.ID, &d.PurchaseID, &d.DriverID, &d.Address, &d.Status, &d.DeliveredAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}
