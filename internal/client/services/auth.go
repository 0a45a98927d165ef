package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/api"
	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/client/session"
	"github.com/dmitrijs2005/shopadmin/internal/shared"
)

// SessionWriter is the part of session.Store the auth flows write to.
type SessionWriter interface {
	Save(ctx context.Context, user models.User, ttl time.Duration) (session.Record, error)
	SetPendingEmail(ctx context.Context, email string) error
	ClearPendingEmail(ctx context.Context) error
}

// RegisterInput is the payload of POST /sign.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AuthService covers the public account flows.
//
// Contract:
//   - Login: authenticate and persist the session record with the configured TTL.
//   - Register: create the account and remember its email for the OTP step.
//   - VerifyOTP / ResendOTP: confirm the registered email.
//   - ForgotPassword / ResetPassword: the password recovery pair.
//   - Logout: tell the server; clearing local state is the gate's job.
//
// The returned strings are the server's messages, suitable for display.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*models.User, string, error)
	Register(ctx context.Context, in RegisterInput) (string, string, error)
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	ResendOTP(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token string, newPassword []byte) (string, error)
	Logout(ctx context.Context) error
}

type authService struct {
	api     Doer
	session SessionWriter
	ttl     time.Duration
}

// NewAuthService constructs an AuthService; ttl is the lifetime of new sessions.
func NewAuthService(api Doer, s SessionWriter, ttl time.Duration) AuthService {
	return &authService{api: api, session: s, ttl: ttl}
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, string, error) {
	defer shared.WipeByteArray(password)

	body := map[string]string{"email": email, "password": string(password)}
	env, err := a.api.Do(ctx, api.Request{Method: http.MethodPost, Path: "/login", Body: body}, nil)
	if err != nil {
		return nil, "", fmt.Errorf("login error: %w", err)
	}

	var user models.User
	if err := env.DecodeUser(&user); err != nil {
		return nil, "", fmt.Errorf("login error: %w", err)
	}
	if _, err := a.session.Save(ctx, user, a.ttl); err != nil {
		return nil, "", fmt.Errorf("session saving error: %w", err)
	}
	return &user, env.Msg, nil
}

// registerReply is the data of a successful POST /sign.
type registerReply struct {
	Email string `json:"email"`
	Msg   string `json:"msg"`
}

func (a *authService) Register(ctx context.Context, in RegisterInput) (string, string, error) {
	var reply registerReply
	env, err := a.api.Do(ctx, api.Request{Method: http.MethodPost, Path: "/sign", Body: in}, &reply)
	if err != nil {
		return "", "", fmt.Errorf("register error: %w", err)
	}

	email := reply.Email
	if email == "" {
		email = in.Email
	}
	if err := a.session.SetPendingEmail(ctx, email); err != nil {
		return "", "", err
	}
	return email, firstNonEmpty(reply.Msg, env.Msg), nil
}

func (a *authService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	body := map[string]string{"otp": otp, "email": email}
	env, err := a.api.Do(ctx, api.Request{Method: http.MethodPost, Path: "/verifyOtp", Body: body}, nil)
	if err != nil {
		return "", fmt.Errorf("verify otp error: %w", err)
	}
	if err := a.session.ClearPendingEmail(ctx); err != nil {
		return "", err
	}
	return env.Msg, nil
}

func (a *authService) ResendOTP(ctx context.Context, email string) (string, error) {
	var reply registerReply
	env, err := a.api.Do(ctx, api.Request{Method: http.MethodPost, Path: "/resend-otp", Body: map[string]string{"email": email}}, &reply)
	if err != nil {
		return "", fmt.Errorf("resend otp error: %w", err)
	}
	return firstNonEmpty(reply.Msg, env.Msg), nil
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	env, err := a.api.Do(ctx, api.Request{Method: http.MethodPost, Path: "/forgot-password", Body: map[string]string{"email": email}}, nil)
	if err != nil {
		return "", fmt.Errorf("forgot password error: %w", err)
	}
	return env.Msg, nil
}

func (a *authService) ResetPassword(ctx context.Context, token string, newPassword []byte) (string, error) {
	defer shared.WipeByteArray(newPassword)

	path := "/" + api.PathEscape("reset-password", token)
	body := map[string]string{"newPassword": string(newPassword)}
	env, err := a.api.Do(ctx, api.Request{Method: http.MethodPost, Path: path, Body: body}, nil)
	if err != nil {
		return "", fmt.Errorf("reset password error: %w", err)
	}
	return env.Msg, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if _, err := a.api.Do(ctx, api.Request{Method: http.MethodPost, Path: "/logout", Body: map[string]any{}}, nil); err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
