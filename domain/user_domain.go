package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessRegister    = "user registered successfully"
	MessageSuccessLogin       = "login successful"
	MessageSuccessGetMe       = "user profile retrieved successfully"
	MessageSuccessUpdateUser  = "user updated successfully"
	MessageSuccessSendVerify  = "verification email sent successfully"
	MessageSuccessVerifyEmail = "email verified successfully"

	MessageFailedRegister    = "failed to register user"
	MessageFailedLogin       = "failed to login"
	MessageFailedGetMe       = "failed to retrieve user profile"
	MessageFailedUpdateUser  = "failed to update user"
	MessageFailedSendVerify  = "failed to send verification email"
	MessageFailedVerifyEmail = "failed to verify email"

	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotVerified    = errors.New("email not verified")
	ErrInvalidRole        = errors.New("role must be operator or guard")
)

type (
	RegisterUserRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Phone    string `json:"phone"`
		Role     string `json:"role" validate:"required,oneof=operator guard"`
	}

	RegisterUserResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UpdateUserRequest struct {
		Name  string `json:"name" form:"name"`
		Phone string `json:"phone" form:"phone"`

		Photo *multipart.FileHeader `json:"-"`
	}

	UserResponse struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		Email      string    `json:"email"`
		Phone      string    `json:"phone,omitempty"`
		Role       string    `json:"role"`
		Coins      int       `json:"coins"`
		IsVerified bool      `json:"is_verified"`
		PhotoURL   string    `json:"photo_url,omitempty"`
		CreatedAt  time.Time `json:"created_at"`
	}

	SendVerifyEmailRequest struct {
		Email string `json:"email" validate:"required,email"`
	}
)
