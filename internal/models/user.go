package models

import (
	"strings"
	"time"

	"github.com/nickcheng/taskapp-backend/internal/api/validate"
	"github.com/nickcheng/taskapp-backend/internal/apperr"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"-"`
	Avatar       []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
}

func (u *User) Validate() error {
	var errs validate.Errs
	if e := validate.Required("name", u.Name); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.Email("email", u.Email); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.MinInt("age", int64(u.Age), 0); e != nil {
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		return apperr.Validation(errs.Error())
	}
	return nil
}

// ValidatePassword enforces the plaintext rules. The hash itself is never
// validated; only the plaintext at set/change time.
func ValidatePassword(plain string) error {
	p := strings.TrimSpace(plain)
	if len(p) < 6 {
		return apperr.Validation("password: must be at least 6 characters")
	}
	if strings.Contains(strings.ToLower(p), "password") {
		return apperr.Validation(`password: must not contain "password"`)
	}
	return nil
}
