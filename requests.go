package credentials

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// SignupRequest carries the attributes needed to register a new account.
type SignupRequest struct {
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CountryCode  string `json:"country_code"`
	MobileNumber string `json:"mobile_number"`
}

// Validate checks the signup payload before any persistence work happens.
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Username, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.CountryCode, validation.Required),
		validation.Field(
			&r.MobileNumber,
			validation.Required,
			validation.By(ValidateMobileNumber(r.CountryCode)),
		),
	)
}

// LoginRequest carries the credentials presented for verification.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login payload.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// ValidateMobileNumber checks a subscriber number against its dialing prefix,
// e.g. country code "+91" with number "9876543210".
func ValidateMobileNumber(countryCode string) validation.RuleFunc {
	return func(value any) error {
		number, _ := value.(string)
		if number == "" {
			return nil // Required already covers the empty case
		}

		parsed, err := phonenumbers.Parse(countryCode+number, "")
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			return errors.New("must be a valid mobile number")
		}

		return nil
	}
}
