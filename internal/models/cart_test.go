package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddMergesExistingLine(t *testing.T) {
	var cart Cart
	require.NoError(t, cart.Add(CartItem{ProductID: "a", Name: "Tote", Price: 1950, Quantity: 2}))
	require.NoError(t, cart.Add(CartItem{ProductID: "a", Name: "Tote", Price: 1800, Quantity: 3}))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 1800.0, cart.Items[0].Price)
}

func TestCartAddRejectsQuantityAboveLimit(t *testing.T) {
	var cart Cart
	require.NoError(t, cart.Add(CartItem{ProductID: "a", Quantity: 8}))

	err := cart.Add(CartItem{ProductID: "a", Quantity: 3})
	assert.ErrorIs(t, err, ErrQuantityOutOfRange)
	assert.Equal(t, 8, cart.Items[0].Quantity)

	assert.ErrorIs(t, cart.Add(CartItem{ProductID: "b", Quantity: 0}), ErrQuantityOutOfRange)
}

func TestCartSetQuantityAndRemove(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 2},
	}}

	require.NoError(t, cart.SetQuantity("b", 10))
	assert.Equal(t, 11, cart.Count())

	assert.ErrorIs(t, cart.SetQuantity("b", 11), ErrQuantityOutOfRange)
	assert.ErrorIs(t, cart.SetQuantity("missing", 1), ErrCartItemNotFound)

	require.NoError(t, cart.Remove("a"))
	assert.Len(t, cart.Items, 1)
	assert.ErrorIs(t, cart.Remove("a"), ErrCartItemNotFound)
}

func TestCartDeductKeepsLinesAddedLater(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 4},
		{ProductID: "c", Quantity: 1},
	}}

	cart.Deduct("a", 1)
	cart.Deduct("b", 2)
	cart.Deduct("missing", 3)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, CartItem{ProductID: "b", Quantity: 2}, cart.Items[0])
	assert.Equal(t, "c", cart.Items[1].ProductID)
}
