package checkout

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"storefront/internal/locale"
	"storefront/internal/models"
)

var validate = validator.New()

type addressInput struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Phone     string `validate:"required"`
	Street    string `validate:"required"`
	City      string `validate:"required"`
	State     string `validate:"required"`
	ZipCode   string `validate:"required"`
}

var addressMessages = map[string]string{
	"firstName":   "First name is required",
	"lastName":    "Last name is required",
	"email":       "Email is required",
	"phone":       "Phone number is required",
	"street":      "Street address is required",
	"city":        "City is required",
	"state":       "State is required",
	"zipCode":     "ZIP code is required",
	"countryCode": "Country is required",
}

// NormalizeAddress trims every field and fills the country name from the
// country code when it is missing.
func NormalizeAddress(a models.ShippingAddress) models.ShippingAddress {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Phone = strings.TrimSpace(a.Phone)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	a.Country = strings.TrimSpace(a.Country)
	a.CountryCode = strings.ToUpper(strings.TrimSpace(a.CountryCode))
	if a.Country == "" && a.CountryCode != "" {
		if c, ok := locale.CountryByCode(a.CountryCode); ok {
			a.Country = c.Name
		}
	}
	return a
}

// ValidateShippingAddress applies the checkout rules: every postal field,
// a well-formed email, a country and a phone number within the country's
// digit limit. requireCountry is false for saved addresses.
func ValidateShippingAddress(a models.ShippingAddress, requireCountry bool) error {
	a = NormalizeAddress(a)
	in := addressInput{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Phone:     a.Phone,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		ZipCode:   a.ZipCode,
	}

	fields := map[string]string{}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			name := lowerCamel(fe.Field())
			if fe.Tag() == "email" {
				fields[name] = "Invalid email format"
				continue
			}
			fields[name] = addressMessages[name]
		}
	}

	if requireCountry && a.CountryCode == "" {
		fields["countryCode"] = addressMessages["countryCode"]
	}

	if _, bad := fields["phone"]; !bad && a.Phone != "" && !locale.IsPhoneValid(a.Phone, a.CountryCode) {
		fields["phone"] = locale.PhoneValidationMessage(a.CountryCode)
	}

	if len(fields) > 0 {
		return ValidationError{Fields: fields}
	}
	return nil
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
