// service/auth/auth_service_test.go
package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Siyemukel/Digital-online-bookstore/model"
	userrepo "github.com/Siyemukel/Digital-online-bookstore/repository/user"
	"github.com/Siyemukel/Digital-online-bookstore/util/hash"
)

type userMock struct {
	userrepo.Repo
	createFn        func(ctx context.Context, tx *sql.Tx, email, passwordHash, role string) (int64, error)
	createStudentFn func(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error
	byEmailFn       func(ctx context.Context, email string) (*model.User, error)
}

func (m *userMock) Create(ctx context.Context, tx *sql.Tx, email, passwordHash, role string) (int64, error) {
	return m.createFn(ctx, tx, email, passwordHash, role)
}
func (m *userMock) CreateStudent(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error {
	return m.createStudentFn(ctx, tx, userID, firstName, lastName, phone)
}
func (m *userMock) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.byEmailFn(ctx, email)
}

type otpMock struct {
	saveFn   func(ctx context.Context, email, code string, ttl time.Duration) error
	getFn    func(ctx context.Context, email string) (string, error)
	deleteFn func(ctx context.Context, email string) error
}

func (m *otpMock) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, email, code, ttl)
}
func (m *otpMock) Get(ctx context.Context, email string) (string, error) {
	return m.getFn(ctx, email)
}
func (m *otpMock) Delete(ctx context.Context, email string) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, email)
}

type mailMock struct {
	sendFn func(to, subject, body string) error
}

func (m *mailMock) Send(to, subject, body string) error {
	if m.sendFn == nil {
		return nil
	}
	return m.sendFn(to, subject, body)
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRequestOTP_SavesAndMails(t *testing.T) {
	users := &userMock{byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
		return nil, sql.ErrNoRows
	}}

	var savedCode, mailedTo, mailedBody string
	otps := &otpMock{saveFn: func(ctx context.Context, email, code string, ttl time.Duration) error {
		require.Equal(t, "new@campus.edu", email)
		require.Len(t, code, 6)
		require.Equal(t, 5*time.Minute, ttl)
		savedCode = code
		return nil
	}}
	mail := &mailMock{sendFn: func(to, subject, body string) error {
		mailedTo = to
		mailedBody = body
		return nil
	}}

	svc := New(nil, users, otps, mail, quietLog(), "test-secret")
	err := svc.RequestOTP(context.Background(), model.RequestOTPReq{Email: "New@Campus.edu"})
	require.NoError(t, err)
	require.Equal(t, "new@campus.edu", mailedTo)
	require.Contains(t, mailedBody, savedCode)
}

func TestRequestOTP_TakenEmail(t *testing.T) {
	users := &userMock{byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
		return &model.User{ID: 9, Email: email}, nil
	}}
	svc := New(nil, users, &otpMock{}, &mailMock{}, quietLog(), "test-secret")

	err := svc.RequestOTP(context.Background(), model.RequestOTPReq{Email: "taken@campus.edu"})
	require.Error(t, err)
	require.Equal(t, ErrEmailTaken, Code(err))
}

func TestRequestOTP_MailFailureIsSwallowed(t *testing.T) {
	users := &userMock{byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
		return nil, sql.ErrNoRows
	}}
	mail := &mailMock{sendFn: func(to, subject, body string) error {
		return errors.New("smtp down")
	}}
	svc := New(nil, users, &otpMock{}, mail, quietLog(), "test-secret")

	require.NoError(t, svc.RequestOTP(context.Background(), model.RequestOTPReq{Email: "new@campus.edu"}))
}

func TestVerifyOTP(t *testing.T) {
	otps := &otpMock{getFn: func(ctx context.Context, email string) (string, error) {
		return "123456", nil
	}}
	svc := New(nil, &userMock{}, otps, &mailMock{}, quietLog(), "test-secret")

	require.NoError(t, svc.VerifyOTP(context.Background(), model.VerifyOTPReq{Email: "s@campus.edu", Code: "123456"}))

	err := svc.VerifyOTP(context.Background(), model.VerifyOTPReq{Email: "s@campus.edu", Code: "654321"})
	require.Error(t, err)
	require.Equal(t, ErrBadOTP, Code(err))
}

func TestVerifyOTP_Expired(t *testing.T) {
	otps := &otpMock{getFn: func(ctx context.Context, email string) (string, error) {
		return "", nil
	}}
	svc := New(nil, &userMock{}, otps, &mailMock{}, quietLog(), "test-secret")

	err := svc.VerifyOTP(context.Background(), model.VerifyOTPReq{Email: "s@campus.edu", Code: "123456"})
	require.Error(t, err)
	require.Equal(t, ErrBadOTP, Code(err))
}

func TestRegister_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	var otpDeleted bool
	otps := &otpMock{
		getFn: func(ctx context.Context, email string) (string, error) { return "123456", nil },
		deleteFn: func(ctx context.Context, email string) error {
			otpDeleted = true
			return nil
		},
	}
	users := &userMock{
		createFn: func(ctx context.Context, tx *sql.Tx, email, passwordHash, role string) (int64, error) {
			require.Equal(t, "new@campus.edu", email)
			require.Equal(t, "student", role)
			require.True(t, hash.Check(passwordHash, "supersecret"))
			return 42, nil
		},
		createStudentFn: func(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error {
			require.Equal(t, int64(42), userID)
			require.Equal(t, "Thandi", firstName)
			return nil
		},
	}

	svc := New(db, users, otps, &mailMock{}, quietLog(), "test-secret")
	u, tok, err := svc.Register(context.Background(), model.RegisterStudentReq{
		Email:     "New@Campus.edu",
		Code:      "123456",
		FirstName: "Thandi",
		LastName:  "Dlamini",
		Phone:     "0821234567",
		Password:  "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), u.ID)
	require.Equal(t, "student", u.Role)
	require.NotEmpty(t, tok)
	require.True(t, otpDeleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_BadCode(t *testing.T) {
	otps := &otpMock{getFn: func(ctx context.Context, email string) (string, error) { return "999999", nil }}
	svc := New(nil, &userMock{}, otps, &mailMock{}, quietLog(), "test-secret")

	_, _, err := svc.Register(context.Background(), model.RegisterStudentReq{
		Email: "new@campus.edu", Code: "123456", FirstName: "T", LastName: "D", Phone: "0", Password: "supersecret",
	})
	require.Error(t, err)
	require.Equal(t, ErrBadOTP, Code(err))
}

func TestLogin_Success(t *testing.T) {
	hashed, err := hash.HashPassword("supersecret")
	require.NoError(t, err)

	users := &userMock{byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
		return &model.User{ID: 7, Email: "s@campus.edu", PasswordHash: hashed, Role: "student"}, nil
	}}
	svc := New(nil, users, &otpMock{}, &mailMock{}, quietLog(), "test-secret")

	u, tok, err := svc.Login(context.Background(), model.LoginReq{Email: "S@Campus.edu", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)
	require.NotEmpty(t, tok)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := &userMock{byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
		return nil, sql.ErrNoRows
	}}
	svc := New(nil, users, &otpMock{}, &mailMock{}, quietLog(), "test-secret")

	_, _, err := svc.Login(context.Background(), model.LoginReq{Email: "ghost@campus.edu", Password: "x"})
	require.Error(t, err)
	require.Equal(t, ErrInvalidCreds, Code(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	hashed, err := hash.HashPassword("correct")
	require.NoError(t, err)

	users := &userMock{byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
		return &model.User{ID: 7, Email: "s@campus.edu", PasswordHash: hashed, Role: "student"}, nil
	}}
	svc := New(nil, users, &otpMock{}, &mailMock{}, quietLog(), "test-secret")

	_, _, err = svc.Login(context.Background(), model.LoginReq{Email: "s@campus.edu", Password: "wrong"})
	require.Error(t, err)
	require.Equal(t, ErrInvalidCreds, Code(err))
}
