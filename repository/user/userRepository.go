package userrepo

import (
	"context"
	"database/sql"

	"github.com/Siyemukel/Digital-online-bookstore/model"
)

type Repo interface {
	Create(ctx context.Context, tx *sql.Tx, email, passwordHash, role string) (int64, error)
	CreateStudent(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error
	ByEmail(ctx context.Context, email string) (*model.User, error)

	StudentProfile(ctx context.Context, userID int64) (*model.Profile, error)
	UpdateStudentProfile(ctx context.Context, userID int64, firstName, lastName, phone string) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	UpsertProfilePic(ctx context.Context, userID int64, pic []byte) error
	ProfilePic(ctx context.Context, userID int64) ([]byte, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, tx *sql.Tx, email, passwordHash, role string) (int64, error) {
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

func (r *repo) CreateStudent(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error {
	const q = `
INSERT INTO students (user_id, first_name, last_name, phone)
VALUES ($1,$2,$3,$4)`
	_, err := tx.ExecContext(ctx, q, userID, firstName, lastName, phone)
	return err
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, email, username, password_hash, role, created_at
        FROM users
        WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) StudentProfile(ctx context.Context, userID int64) (*model.Profile, error) {
	const q = `
SELECT s.user_id, s.first_name, s.last_name, s.phone, u.email
FROM students s
JOIN users u ON u.id = s.user_id
WHERE s.user_id = $1`
	p := &model.Profile{}
	err := r.db.QueryRowContext(ctx, q, userID).
		Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Phone, &p.Email)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) UpdateStudentProfile(ctx context.Context, userID int64, firstName, lastName, phone string) error {
	const q = `
UPDATE students
SET first_name=$2, last_name=$3, phone=$4
WHERE user_id=$1`
	_, err := r.db.ExecContext(ctx, q, userID, firstName, lastName, phone)
	return err
}

func (r *repo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	const q = `UPDATE users SET password_hash=$2 WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q, userID, passwordHash)
	return err
}

func (r *repo) UpsertProfilePic(ctx context.Context, userID int64, pic []byte) error {
	const q = `
INSERT INTO profile_pics (user_id, pic)
VALUES ($1,$2)
ON CONFLICT (user_id) DO UPDATE SET pic = EXCLUDED.pic`
	_, err := r.db.ExecContext(ctx, q, userID, pic)
	return err
}

func (r *repo) ProfilePic(ctx context.Context, userID int64) ([]byte, error) {
	var pic []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT pic FROM profile_pics WHERE user_id=$1`, userID,
	).Scan(&pic)
	if err != nil {
		return nil, err
	}
	return pic, nil
}
