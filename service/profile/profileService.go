package profilesvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Siyemukel/Digital-online-bookstore/model"
	userrepo "github.com/Siyemukel/Digital-online-bookstore/repository/user"
	"github.com/Siyemukel/Digital-online-bookstore/util/hash"
)

var (
	ErrNotFound        = errors.New("profile not found")
	ErrWrongPassword   = errors.New("current password does not match")
	ErrConfirmMismatch = errors.New("password confirmation does not match")
	ErrNoPicture       = errors.New("no profile picture")
)

type UpdateReq struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

type ChangePasswordReq struct {
	Current string `json:"current_password" validate:"required"`
	New     string `json:"new_password" validate:"required,min=6"`
	Confirm string `json:"confirm_password" validate:"required"`
}

type Service interface {
	Get(ctx context.Context, userID int64) (*model.Profile, error)
	Update(ctx context.Context, userID int64, req UpdateReq) error
	ChangePassword(ctx context.Context, userID int64, req ChangePasswordReq) error
	UploadPicture(ctx context.Context, userID int64, pic []byte) error
	Picture(ctx context.Context, userID int64) ([]byte, error)
}

type service struct{ users userrepo.Repo }

func New(users userrepo.Repo) Service { return &service{users: users} }

func (s *service) Get(ctx context.Context, userID int64) (*model.Profile, error) {
	p, err := s.users.StudentProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, userID int64, req UpdateReq) error {
	return s.users.UpdateStudentProfile(ctx, userID, req.FirstName, req.LastName, req.Phone)
}

func (s *service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordReq) error {
	if req.New != req.Confirm {
		return ErrConfirmMismatch
	}

	p, err := s.users.StudentProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	u, err := s.users.ByEmail(ctx, p.Email)
	if err != nil {
		return err
	}
	if !hash.Check(u.PasswordHash, req.Current) {
		return ErrWrongPassword
	}

	hashed, err := hash.HashPassword(req.New)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hashed)
}

func (s *service) UploadPicture(ctx context.Context, userID int64, pic []byte) error {
	return s.users.UpsertProfilePic(ctx, userID, pic)
}

func (s *service) Picture(ctx context.Context, userID int64) ([]byte, error) {
	pic, err := s.users.ProfilePic(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoPicture
		}
		return nil, err
	}
	return pic, nil
}
