package accountsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Siyemukel/Digital-online-bookstore/model"
	accountrepo "github.com/Siyemukel/Digital-online-bookstore/repository/account"
	"github.com/Siyemukel/Digital-online-bookstore/util/hash"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	ErrNotFound   = errors.New("account not found")
	ErrBadRole    = errors.New("role must be staff or driver")
)

type CreateReq struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// Service covers the admin-only account lifecycle for staff and drivers.
// Students self-register through the auth service instead.
type Service interface {
	Create(ctx context.Context, role string, req CreateReq) (int64, error)
	Staff(ctx context.Context) ([]model.Profile, error)
	Drivers(ctx context.Context) ([]model.Profile, error)
	Delete(ctx context.Context, role string, userID int64) error
}

type service struct {
	db *sql.DB
	r  accountrepo.Repo
}

func New(db *sql.DB, r accountrepo.Repo) Service { return &service{db: db, r: r} }

func (s *service) Create(ctx context.Context, role string, req CreateReq) (id int64, err error) {
	if role != "staff" && role != "driver" {
		return 0, ErrBadRole
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	id, err = s.r.CreateUser(ctx, tx, req.Email, hashed, role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, ErrEmailTaken
		}
		return 0, err
	}

	if role == "staff" {
		err = s.r.CreateStaff(ctx, tx, id, req.FirstName, req.LastName, req.Phone)
	} else {
		err = s.r.CreateDriver(ctx, tx, id, req.FirstName, req.LastName, req.Phone)
	}
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *service) Staff(ctx context.Context) ([]model.Profile, error) {
	return s.r.ListStaff(ctx)
}

func (s *service) Drivers(ctx context.Context) ([]model.Profile, error) {
	return s.r.ListDrivers(ctx)
}

func (s *service) Delete(ctx context.Context, role string, userID int64) (err error) {
	if role != "staff" && role != "driver" {
		return ErrBadRole
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if role == "staff" {
		err = s.r.DeleteStaff(ctx, tx, userID)
	} else {
		err = s.r.DeleteDriver(ctx, tx, userID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return tx.Commit()
}
