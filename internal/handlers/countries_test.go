package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCountriesSearch(t *testing.T) {
	r := gin.New()
	r.GET("/countries", GetCountries())

	w := doJSON(t, r, http.MethodGet, "/countries?search=kingdom", nil)
	require.Equal(t, http.StatusOK, w.Code)

	countries := decodeBody(t, w)["countries"].([]interface{})
	require.Len(t, countries, 1)
	gb := countries[0].(map[string]interface{})
	assert.Equal(t, "GB", gb["code"])
	assert.Equal(t, "+44", gb["dialCode"])
	assert.Equal(t, float64(11), gb["maxPhoneDigits"])
}

func TestParsePaginationParams(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(20), limit)

	page, limit, err = parsePaginationParams("3", "500")
	require.NoError(t, err)
	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(maxPageLimit), limit)

	_, _, err = parsePaginationParams("0", "10")
	assert.ErrorIs(t, err, errInvalidPagination)
	_, _, err = parsePaginationParams("1", "abc")
	assert.ErrorIs(t, err, errInvalidPagination)
}

func TestGetDeliveryOptions(t *testing.T) {
	r := gin.New()
	r.GET("/delivery-options", GetDeliveryOptions())

	w := doJSON(t, r, http.MethodGet, "/delivery-options", nil)
	require.Equal(t, http.StatusOK, w.Code)

	options := decodeBody(t, w)["options"].([]interface{})
	require.Len(t, options, 3)
	express := options[1].(map[string]interface{})
	assert.Equal(t, "express", express["id"])
	assert.Equal(t, float64(25), express["price"])
}
