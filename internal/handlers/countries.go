package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/locale"
)

type countryResponse struct {
	locale.Country
	MaxPhoneDigits int    `json:"maxPhoneDigits"`
	PhoneFormat    string `json:"phoneFormat"`
}

func GetCountries() gin.HandlerFunc {
	return func(c *gin.Context) {
		matches := locale.FilterCountries(c.Query("search"))
		out := make([]countryResponse, 0, len(matches))
		for _, country := range matches {
			out = append(out, countryResponse{
				Country:        country,
				MaxPhoneDigits: locale.MaxPhoneDigits(country.Code),
				PhoneFormat:    locale.PhoneFormat(country.Code),
			})
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "countries": out})
	}
}
