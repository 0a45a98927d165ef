package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/api"
	"github.com/dmitrijs2005/shopadmin/internal/client/controllers"
	"github.com/dmitrijs2005/shopadmin/internal/client/forms"
	"github.com/dmitrijs2005/shopadmin/internal/client/gate"
	"github.com/dmitrijs2005/shopadmin/internal/client/services"
	"github.com/dmitrijs2005/shopadmin/internal/shared"
)

// OTPResendCooldown is the minimum time between two OTP sends.
const OTPResendCooldown = 30 * time.Second

// Register prompts for the account details and creates the account. On
// success the console moves to the OTP screen.
func (a *App) Register(ctx context.Context) error {
	if !a.enter(ctx, gate.RouteRegister) {
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	form := forms.Register{Name: name, Email: email, Phone: phone, Password: password}
	if err := form.Validate(); err != nil {
		return a.fail(ctx, err, "")
	}

	pending, msg, err := a.auth.Register(ctx, services.RegisterInput{
		Name: name, Email: email, Phone: phone, Password: string(password),
	})
	if err != nil {
		return a.fail(ctx, err, "Registration failed")
	}

	a.mu.Lock()
	a.otpSentAt = time.Now()
	a.mu.Unlock()

	printlnFn(orText(msg, "Registered. Check "+pending+" for the OTP."))
	a.navigate(gate.RouteOTP)
	return nil
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	if !a.enter(ctx, gate.RouteLogin) {
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	if err := (forms.Login{Email: email, Password: password}).Validate(); err != nil {
		return a.fail(ctx, err, "")
	}

	user, msg, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.logger.Warn(ctx, "login unsuccessful", "email", email, "error", err)
		return a.fail(ctx, err, "Login failed")
	}

	a.gate.Login()
	a.logger.Info(ctx, "login successful", "user", user.ID.String())
	printlnFn(orText(msg, "Welcome, "+user.Name+"!"))
	a.navigate(gate.RouteHome)
	return nil
}

// VerifyOTP confirms the pending registration; "otp resend" asks for a new
// code, at most once per OTPResendCooldown.
func (a *App) VerifyOTP(ctx context.Context, args []string) error {
	if !a.enter(ctx, gate.RouteOTP) {
		return nil
	}

	email, err := a.store.PendingEmail(ctx)
	if err != nil {
		return a.fail(ctx, err, "")
	}
	if email == "" {
		printlnFn("No registration is waiting for an OTP. Use 'register' first.")
		return nil
	}

	if len(args) > 0 && args[0] == "resend" {
		return a.resendOTP(ctx, email)
	}

	code, err := getSimpleText(a.reader, fmt.Sprintf("Enter the %d digit code sent to %s", forms.OTPLength, email), a.out)
	if err != nil {
		return err
	}
	if err := (forms.OTP{Code: code}).Validate(); err != nil {
		return a.fail(ctx, err, "")
	}

	msg, err := a.auth.VerifyOTP(ctx, email, code)
	if err != nil {
		return a.fail(ctx, err, "OTP verification failed")
	}
	printlnFn(orText(msg, "Email verified. You can log in now."))
	a.navigate(gate.RouteLogin)
	return nil
}

func (a *App) resendOTP(ctx context.Context, email string) error {
	a.mu.RLock()
	wait := OTPResendCooldown - time.Since(a.otpSentAt)
	a.mu.RUnlock()
	if wait > 0 {
		printlnFn(fmt.Sprintf("Please wait %ds before requesting a new code.", int(wait.Round(time.Second).Seconds())))
		return nil
	}

	msg, err := a.auth.ResendOTP(ctx, email)
	if err != nil {
		return a.fail(ctx, err, "Could not resend the OTP")
	}
	a.mu.Lock()
	a.otpSentAt = time.Now()
	a.mu.Unlock()
	printlnFn(orText(msg, "A new code was sent."))
	return nil
}

func (a *App) ForgotPassword(ctx context.Context) error {
	if !a.enter(ctx, gate.RouteForgotPassword) {
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := (forms.Forgot{Email: email}).Validate(); err != nil {
		return a.fail(ctx, err, "")
	}

	msg, err := a.auth.ForgotPassword(ctx, email)
	if err != nil {
		return a.fail(ctx, err, "Something went wrong")
	}
	printlnFn(orText(msg, "Check your inbox for the reset link."))
	return nil
}

// ResetPassword sets a new password using the token from the reset link.
func (a *App) ResetPassword(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: reset <token>")
		return nil
	}
	route := gate.RouteResetPassword + args[0]
	token, ok := gate.ResetToken(route)
	if !ok || !a.enter(ctx, route) {
		printlnFn("Invalid reset link.")
		return nil
	}

	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(confirm)

	if err := (forms.Reset{Password: password, Confirm: confirm}).Validate(); err != nil {
		return a.fail(ctx, err, "")
	}

	// ResetPassword wipes what it is given.
	pw := append([]byte(nil), password...)
	msg, err := a.auth.ResetPassword(ctx, token, pw)
	if err != nil {
		return a.fail(ctx, err, "Password reset failed")
	}
	printlnFn(orText(msg, "Password updated. You can log in now."))
	a.navigate(gate.RouteLogin)
	return nil
}

// Logout tells the server (best effort) and drops the local session.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in.")
		return nil
	}
	if err := a.auth.Logout(ctx); err != nil {
		a.logger.Warn(ctx, "server logout failed", "error", err)
	}
	if err := a.gate.Logout(ctx); err != nil {
		return a.fail(ctx, err, "")
	}
	printlnFn("Logged out.")
	return nil
}

// fail prints the user-facing message for err, logs it and returns it.
func (a *App) fail(ctx context.Context, err error, fallback string) error {
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		printlnFn(ve.Error())
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, controllers.ErrCancelled) {
		printlnFn("Cancelled.")
		return err
	}

	switch msg := api.Message(err, ""); {
	case msg != "":
		printlnFn(msg)
	case errors.Is(err, api.ErrUnauthorized):
		// the gate already moved to the login screen
		printlnFn("Session expired. Please log in again.")
	case errors.Is(err, api.ErrUnavailable):
		printlnFn("Server is unavailable, try again later.")
	case fallback != "":
		printlnFn(fallback)
	default:
		printlnFn("Error:", err)
	}
	a.logger.Error(ctx, "command failed", "route", a.currentRoute(), "error", err)
	return err
}

func orText(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
