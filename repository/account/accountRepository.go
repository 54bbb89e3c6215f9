// repository/account/accountRepository.go
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/Siyemukel/Digital-online-bookstore/model"
)

type Repo interface {
	CreateUser(ctx context.Context, tx *sql.Tx, email, passwordHash, role string) (int64, error)
	CreateStaff(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error
	CreateDriver(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error

	ListStaff(ctx context.Context) ([]model.Profile, error)
	ListDrivers(ctx context.Context) ([]model.Profile, error)

	// Delete* remove both the role row and the user row; both run on the
	// caller's transaction. They report sql.ErrNoRows when nothing matched.
	DeleteStaff(ctx context.Context, tx *sql.Tx, userID int64) error
	DeleteDriver(ctx context.Context, tx *sql.Tx, userID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) CreateUser(ctx context.Context, tx *sql.Tx, email, passwordHash, role string) (int64, error) {
	const q = `
INSERT INTO users (email, password_hash, role)
VALUES ($1,$2,$3)
RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, q, email, passwordHash, role).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) CreateStaff(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error {
	const q = `INSERT INTO staff (user_id, first_name, last_name, phone) VALUES ($1,$2,$3,$4)`
	_, err := tx.ExecContext(ctx, q, userID, firstName, lastName, phone)
	return err
}

func (r *repo) CreateDriver(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error {
	const q = `INSERT INTO drivers (user_id, first_name, last_name, phone) VALUES ($1,$2,$3,$4)`
	_, err := tx.ExecContext(ctx, q, userID, firstName, lastName, phone)
	return err
}

func (r *repo) ListStaff(ctx context.Context) ([]model.Profile, error) {
	return r.listRole(ctx, `
SELECT s.user_id, s.first_name, s.last_name, s.phone, u.email
FROM staff s
JOIN users u ON s.user_id = u.id
ORDER BY s.id`)
}

func (r *repo) ListDrivers(ctx context.Context) ([]model.Profile, error) {
	return r.listRole(ctx, `
SELECT d.user_id, d.first_name, d.last_name, d.phone, u.email
FROM drivers d
JOIN users u ON d.user_id = u.id
ORDER BY d.id`)
}

func (r *repo) listRole(ctx context.Context, q string) ([]model.Profile, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Phone, &p.Email); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) DeleteStaff(ctx context.Context, tx *sql.Tx, userID int64) error {
	return r.deleteRole(ctx, tx, `DELETE FROM staff WHERE user_id=$1`, userID)
}

func (r *repo) DeleteDriver(ctx context.Context, tx *sql.Tx, userID int64) error {
	return r.deleteRole(ctx, tx, `DELETE FROM drivers WHERE user_id=$1`, userID)
}

func (r *repo) deleteRole(ctx context.Context, tx *sql.Tx, q string, userID int64) error {
	res, err := tx.ExecContext(ctx, q, userID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, userID)
	return err
}
