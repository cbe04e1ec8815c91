// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form validates and normalizes the input of the sign-in, sign-up,
// profile and event forms before it reaches the stores.
package form

import (
	"errors"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/unievent/internal/model"
)

// UniversityDomain is the email suffix every account must use.
const UniversityDomain = "@vau.ac.lk"

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Messages shown for rejected input.
const (
	MsgFillAllFields   = "Please fill in all fields"
	MsgNameRequired    = "Please enter your full name"
	MsgUniversityEmail = "Please use your university email (@vau.ac.lk)"
	MsgPasswordPolicy  = "Password must be at least 8 chars with 1 uppercase and 1 number"
	MsgProfileRequired = "Name and Email are required."
	MsgPastDate        = "You cannot post an event in the past."
	MsgInvalidDate     = "Please choose a valid date."
	MsgInvalidImage    = "Please enter a valid image URL."
)

// Validation tags registered on top of the validator built-ins.
const (
	tagRequired        = "required"
	tagUniversityEmail = "university_email"
	tagPasswordPolicy  = "password_policy"
	tagNotBeforeToday  = "not_before_today"
)

// Error is a rejected form. It matches model.ErrInvalidInput.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match model.ErrInvalidInput.
func (e *Error) Unwrap() error {
	return model.ErrInvalidInput
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock sets the clock used to reject past event dates.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// Validator checks form input.
type Validator struct {
	validate *validator.Validate
	policy   *bluemonday.Policy
	now      func() time.Time
}

// New creates a Validator with the university rules registered.
func New(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		policy:   bluemonday.StrictPolicy(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	// Custom validators
	_ = v.validate.RegisterValidation(tagUniversityEmail, validateUniversityEmail)
	_ = v.validate.RegisterValidation(tagPasswordPolicy, validatePasswordPolicy)
	_ = v.validate.RegisterValidation(tagNotBeforeToday, v.validateNotBeforeToday)

	return v
}

type signInForm struct {
	Email    string `validate:"required,university_email"`
	Password string `validate:"required,password_policy"`
}

type signUpForm struct {
	Name string `validate:"required"`
	signInForm
}

type profileForm struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

// SignIn checks the sign-in form.
func (v *Validator) SignIn(email, password string) error {
	return v.check(signInForm{Email: strings.TrimSpace(email), Password: password}, credentialMessages)
}

// SignUp checks the sign-up form. The name is checked first.
func (v *Validator) SignUp(name, email, password string) error {
	if err := v.validate.Var(strings.TrimSpace(name), tagRequired); err != nil {
		return &Error{Field: "Name", Message: MsgNameRequired}
	}
	return v.check(signUpForm{
		Name:       strings.TrimSpace(name),
		signInForm: signInForm{Email: strings.TrimSpace(email), Password: password},
	}, credentialMessages)
}

// Profile checks the profile edit form.
func (v *Validator) Profile(name, email string) error {
	return v.check(profileForm{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}, func(validator.FieldError) string { return MsgProfileRequired })
}

// credentialMessages maps a failed rule of the sign-in and sign-up forms to
// the message shown for it.
func credentialMessages(fe validator.FieldError) string {
	switch fe.Tag() {
	case tagUniversityEmail:
		return MsgUniversityEmail
	case tagPasswordPolicy:
		return MsgPasswordPolicy
	default:
		return MsgFillAllFields
	}
}

// check validates s and reports the highest-priority failure: missing
// fields first, then the field rules in declaration order.
func (v *Validator) check(s any, message func(validator.FieldError) string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &Error{Message: err.Error()}
	}

	first := fieldErrs[0]
	for _, fe := range fieldErrs {
		if fe.Tag() == tagRequired {
			first = fe
			break
		}
	}
	return &Error{Field: first.Field(), Message: message(first)}
}

func validateUniversityEmail(fl validator.FieldLevel) bool {
	return strings.HasSuffix(model.FoldEmail(fl.Field().String()), UniversityDomain)
}

// validatePasswordPolicy requires at least 8 characters including one
// uppercase letter and one digit.
func validatePasswordPolicy(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	return utf8.RuneCountInString(password) >= MinPasswordLength &&
		strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") &&
		strings.ContainsAny(password, "0123456789")
}

func (v *Validator) validateNotBeforeToday(fl validator.FieldLevel) bool {
	return fl.Field().String() >= v.today()
}

func (v *Validator) today() string {
	return v.now().UTC().Format(model.DateLayout)
}

// sanitize strips markup from user text and trims it.
func (v *Validator) sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(v.policy.Sanitize(s)))
}
