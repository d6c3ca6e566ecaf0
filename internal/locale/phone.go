package locale

import (
	"fmt"
	"strings"
)

type PhoneRule struct {
	MaxDigits int
	Format    string
}

const defaultMaxPhoneDigits = 15

var phoneRules = map[string]PhoneRule{
	"US": {10, "(XXX) XXX-XXXX"},
	"CA": {10, "(XXX) XXX-XXXX"},
	"GB": {11, "XXXXX XXXXXX"},
	"IN": {10, "XXXXXXXXXX"},
	"DE": {11, "XXXXXXXXXXXX"},
	"FR": {9, "XXX XXX XXX"},
	"IT": {10, "XXX XXX XXXX"},
	"ES": {9, "XXX XXX XXX"},
	"AU": {9, "XXXX XXX XXX"},
	"JP": {10, "XX-XXXX-XXXX"},
	"CN": {11, "XXXXXXXXXXX"},
	"SG": {8, "XXXX XXXX"},
	"MX": {10, "XXXX XXX XXXX"},
	"BR": {11, "XX XXXXX-XXXX"},
	"ZA": {10, "XX XXX XXXX"},
	"NZ": {9, "XXX XXX XXXX"},
	"HK": {8, "XXXX XXXX"},
	"AE": {9, "XXX XXX XXXX"},
	"SA": {9, "XX XXX XXXX"},
}

func MaxPhoneDigits(countryCode string) int {
	if rule, ok := phoneRules[countryCode]; ok {
		return rule.MaxDigits
	}
	return defaultMaxPhoneDigits
}

func PhoneFormat(countryCode string) string {
	if rule, ok := phoneRules[countryCode]; ok {
		return rule.Format
	}
	return "Phone number format"
}

func ExtractDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsPhoneValid only bounds the digit count; formatting characters are ignored.
func IsPhoneValid(phone, countryCode string) bool {
	return len(ExtractDigits(phone)) <= MaxPhoneDigits(countryCode)
}

func PhoneValidationMessage(countryCode string) string {
	return fmt.Sprintf("Maximum %d digits allowed", MaxPhoneDigits(countryCode))
}
