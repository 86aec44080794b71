package user

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	svcErr "github.com/oggyb/vidrec/internal/errors"
)

// Accepted sex values; anything else is stored as SexUnknown.
const (
	SexMale    = "男"
	SexFemale  = "女"
	SexUnknown = "保密"
)

// RegisterInput is a new account request.
type RegisterInput struct {
	Name     string `validate:"required,max=64"`
	Sex      string `validate:"max=8"`
	Birthday string `validate:"omitempty,birthday"`
	Sign     string `validate:"max=256"`
	Password string `validate:"required,bcrypt"`
	QQ       string `validate:"omitempty,max=32"`
	Wechat   string `validate:"omitempty,max=64"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate

	birthdayPattern = regexp.MustCompile(`^(\d{1,2})月(\d{1,2})日$`)
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("birthday", func(fl validator.FieldLevel) bool {
			return ValidBirthday(fl.Field().String())
		})
		// bcrypt rejects inputs longer than 72 bytes
		_ = validate.RegisterValidation("bcrypt", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= 72
		})
	})
	return validate
}

// ValidBirthday accepts "M月D日" naming a real day of some year, so 2月29日
// passes and 2月30日 does not.
func ValidBirthday(s string) bool {
	m := birthdayPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	// 2000 is a leap year
	t := time.Date(2000, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Month() == time.Month(month) && t.Day() == day
}

// normalize trims the input and validates it.
func (in RegisterInput) normalize() (RegisterInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Birthday = strings.TrimSpace(in.Birthday)
	in.QQ = strings.TrimSpace(in.QQ)
	in.Wechat = strings.TrimSpace(in.Wechat)
	switch in.Sex = strings.TrimSpace(in.Sex); in.Sex {
	case SexMale, SexFemale, SexUnknown:
	default:
		in.Sex = SexUnknown
	}

	err := getValidator().Struct(in)
	if err == nil {
		return in, nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return in, fmt.Errorf("%w: %s failed %s", svcErr.ErrInvalidArgument, fe.Field(), fe.Tag())
	}
	return in, fmt.Errorf("%w: %v", svcErr.ErrInvalidArgument, err)
}
