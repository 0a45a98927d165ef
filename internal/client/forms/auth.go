package forms

import (
	"bytes"
	"strings"
	"unicode"
)

// OTPLength is the number of digits in a one-time password.
const OTPLength = 6

const (
	msgFillAll         = "Please fill all fields"
	msgRegisterFill    = "Pls Fill All Fields"
	msgOTPIncomplete   = "Please complete the OTP."
	msgEmailRequired   = "Please fill in the email field"
	msgPasswordsDiffer = "Passwords do not match"
)

type Login struct {
	Email    string
	Password []byte
}

func (f Login) Validate() error {
	c := checker{}
	if blank(f.Email) || len(f.Password) == 0 {
		c.fail(FieldForm, msgFillAll)
	}
	return c.err()
}

type Register struct {
	Name     string
	Email    string
	Phone    string
	Password []byte
}

func (f Register) Validate() error {
	c := checker{}
	if blank(f.Name) || blank(f.Email) || blank(f.Phone) || len(f.Password) == 0 {
		c.fail(FieldForm, msgRegisterFill)
	}
	return c.err()
}

// OTP holds the digits typed so far.
type OTP struct {
	Code string
}

func (f OTP) Validate() error {
	c := checker{}
	code := strings.TrimSpace(f.Code)
	if len(code) != OTPLength || strings.IndexFunc(code, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
		c.fail(FieldForm, msgOTPIncomplete)
	}
	return c.err()
}

type Forgot struct {
	Email string
}

func (f Forgot) Validate() error {
	c := checker{}
	if blank(f.Email) {
		c.fail(FieldForm, msgEmailRequired)
	}
	return c.err()
}

type Reset struct {
	Password []byte
	Confirm  []byte
}

func (f Reset) Validate() error {
	c := checker{}
	switch {
	case len(f.Password) == 0 || len(f.Confirm) == 0:
		c.fail(FieldForm, msgFillAll)
	case !bytes.Equal(f.Password, f.Confirm):
		c.fail(FieldForm, msgPasswordsDiffer)
	}
	return c.err()
}
