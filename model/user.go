package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     *string   `json:"username,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the per-role detail row (students/staff/drivers tables).
type Profile struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// RequestOTPReq starts student registration.
// swagger:model RequestOTPReq
type RequestOTPReq struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPReq verifies the emailed code.
// swagger:model VerifyOTPReq
type VerifyOTPReq struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// RegisterStudentReq completes registration after OTP verification.
// swagger:model RegisterStudentReq
type RegisterStudentReq struct {
	Email     string `json:"email" validate:"required,email"`
	Code      string `json:"code" validate:"required,len=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
