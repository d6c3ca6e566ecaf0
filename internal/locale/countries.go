// Package locale holds the country catalogue and phone-number rules used by
// address and checkout validation.
package locale

import "strings"

type Country struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	DialCode string `json:"dialCode"`
}

var Countries = []Country{
	{"United States", "US", "+1"},
	{"Canada", "CA", "+1"},
	{"United Kingdom", "GB", "+44"},
	{"Australia", "AU", "+61"},
	{"Germany", "DE", "+49"},
	{"France", "FR", "+33"},
	{"Italy", "IT", "+39"},
	{"Spain", "ES", "+34"},
	{"Netherlands", "NL", "+31"},
	{"Belgium", "BE", "+32"},
	{"Switzerland", "CH", "+41"},
	{"Austria", "AT", "+43"},
	{"Sweden", "SE", "+46"},
	{"Norway", "NO", "+47"},
	{"Denmark", "DK", "+45"},
	{"Finland", "FI", "+358"},
	{"Poland", "PL", "+48"},
	{"Czech Republic", "CZ", "+420"},
	{"Hungary", "HU", "+36"},
	{"Romania", "RO", "+40"},
	{"Greece", "GR", "+30"},
	{"Portugal", "PT", "+351"},
	{"Ireland", "IE", "+353"},
	{"Japan", "JP", "+81"},
	{"South Korea", "KR", "+82"},
	{"China", "CN", "+86"},
	{"India", "IN", "+91"},
	{"Thailand", "TH", "+66"},
	{"Vietnam", "VN", "+84"},
	{"Singapore", "SG", "+65"},
	{"Malaysia", "MY", "+60"},
	{"Indonesia", "ID", "+62"},
	{"Philippines", "PH", "+63"},
	{"Hong Kong", "HK", "+852"},
	{"Taiwan", "TW", "+886"},
	{"United Arab Emirates", "AE", "+971"},
	{"Saudi Arabia", "SA", "+966"},
	{"Israel", "IL", "+972"},
	{"Turkey", "TR", "+90"},
	{"Russia", "RU", "+7"},
	{"Mexico", "MX", "+52"},
	{"Brazil", "BR", "+55"},
	{"Argentina", "AR", "+54"},
	{"Chile", "CL", "+56"},
	{"Colombia", "CO", "+57"},
	{"Peru", "PE", "+51"},
	{"South Africa", "ZA", "+27"},
	{"Egypt", "EG", "+20"},
	{"Nigeria", "NG", "+234"},
	{"Kenya", "KE", "+254"},
	{"New Zealand", "NZ", "+64"},
	{"Pakistan", "PK", "+92"},
	{"Bangladesh", "BD", "+880"},
	{"Sri Lanka", "LK", "+94"},
	{"Ukraine", "UA", "+380"},
	{"Croatia", "HR", "+385"},
	{"Serbia", "RS", "+381"},
	{"Iceland", "IS", "+354"},
	{"Luxembourg", "LU", "+352"},
	{"Malta", "MT", "+356"},
	{"Cyprus", "CY", "+357"},
	{"Slovenia", "SI", "+386"},
	{"Slovakia", "SK", "+421"},
	{"Bulgaria", "BG", "+359"},
	{"Lithuania", "LT", "+370"},
	{"Latvia", "LV", "+371"},
	{"Estonia", "EE", "+372"},
}

func CountryByCode(code string) (Country, bool) {
	for _, c := range Countries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

func CountryByName(name string) (Country, bool) {
	for _, c := range Countries {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Country{}, false
}

// FilterCountries matches the search term against name, ISO code and dial
// code. A blank term returns the full list.
func FilterCountries(term string) []Country {
	if strings.TrimSpace(term) == "" {
		return Countries
	}

	needle := strings.ReplaceAll(strings.ToLower(term), "+", "")
	out := make([]Country, 0)
	for _, c := range Countries {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Code), needle) ||
			strings.Contains(strings.TrimPrefix(c.DialCode, "+"), needle) {
			out = append(out, c)
		}
	}
	return out
}
