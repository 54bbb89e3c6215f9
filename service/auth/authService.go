package authsvc

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Siyemukel/Digital-online-bookstore/model"
	otprepo "github.com/Siyemukel/Digital-online-bookstore/repository/otp"
	userrepo "github.com/Siyemukel/Digital-online-bookstore/repository/user"
	"github.com/Siyemukel/Digital-online-bookstore/util/hash"
	"github.com/Siyemukel/Digital-online-bookstore/util/jwt"
	"github.com/Siyemukel/Digital-online-bookstore/util/mailer"
)

type ErrCode string

const (
	ErrEmailTaken   ErrCode = "EMAIL_TAKEN"
	ErrBadOTP       ErrCode = "BAD_OTP"
	ErrInvalidCreds ErrCode = "INVALID_CREDENTIALS"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const otpTTL = 5 * time.Minute

type Service interface {
	// RequestOTP emails a fresh 6-digit code. Asking again before the old
	// code expires just replaces it.
	RequestOTP(ctx context.Context, req model.RequestOTPReq) error
	// VerifyOTP checks the code without consuming it, so the registration
	// form can validate early.
	VerifyOTP(ctx context.Context, req model.VerifyOTPReq) error
	// Register consumes a valid code and creates the student account.
	Register(ctx context.Context, req model.RegisterStudentReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
}

type service struct {
	db     *sql.DB
	users  userrepo.Repo
	otps   otprepo.Store
	mail   mailer.Mailer
	log    *slog.Logger
	secret string
}

func New(db *sql.DB, users userrepo.Repo, otps otprepo.Store, mail mailer.Mailer, log *slog.Logger, secret string) Service {
	return &service{db: db, users: users, otps: otps, mail: mail, log: log, secret: secret}
}

func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *service) RequestOTP(ctx context.Context, req model.RequestOTPReq) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return makeErr(ErrEmailTaken)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	code, err := newCode()
	if err != nil {
		return err
	}
	if err := s.otps.Save(ctx, email, code, otpTTL); err != nil {
		return err
	}

	body := fmt.Sprintf("Your bookstore verification code is %s. It expires in 5 minutes.", code)
	if err := s.mail.Send(email, "Your verification code", body); err != nil {
		s.log.Error("otp mail failed", "email", email, "err", err)
	}
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, req model.VerifyOTPReq) error {
	return s.checkCode(ctx, req.Email, req.Code)
}

func (s *service) checkCode(ctx context.Context, email, code string) error {
	stored, err := s.otps.Get(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if stored == "" || stored != code {
		return makeErr(ErrBadOTP)
	}
	return nil
}

func (s *service) Register(ctx context.Context, req model.RegisterStudentReq) (u *model.User, token string, err error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err = s.checkCode(ctx, email, req.Code); err != nil {
		return nil, "", err
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	userID, err := s.users.Create(ctx, tx, email, hashed, "student")
	if err != nil {
		if isUniqueViolation(err) {
			return nil, "", makeErr(ErrEmailTaken)
		}
		return nil, "", err
	}
	if err = s.users.CreateStudent(ctx, tx, userID, req.FirstName, req.LastName, req.Phone); err != nil {
		return nil, "", err
	}
	if err = tx.Commit(); err != nil {
		return nil, "", err
	}

	// Code is single-use once the account exists.
	_ = s.otps.Delete(ctx, email)

	token, err = jwt.Issue(s.secret, userID, "student", 24)
	if err != nil {
		return nil, "", err
	}
	return &model.User{ID: userID, Email: email, Role: "student"}, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	u, err := s.users.ByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", makeErr(ErrInvalidCreds)
		}
		return nil, "", err
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", makeErr(ErrInvalidCreds)
	}

	token, err := jwt.Issue(s.secret, u.ID, u.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
