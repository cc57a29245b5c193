package conversation_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/conversation"
)

var unitPrice = decimal.NewFromInt(300)

func TestParseOrderLine_Validas(t *testing.T) {
	cases := []struct {
		in      string
		product string
		qty     int
	}{
		{"Order: Sony WH-1000XM4, qty: 2", "Sony WH-1000XM4", 2},
		{"Order: Sony WH-1000XM4, qty: 1", "Sony WH-1000XM4", 1},
		{"order:  Camiseta, azul , QTY:10", "Camiseta, azul", 10},
		{"  Order:Mouse,qty:+3  ", "Mouse", 3},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			item, err := conversation.ParseOrderLine(tc.in, unitPrice)
			require.NoError(t, err)
			assert.Equal(t, tc.product, item.ProductName)
			assert.Equal(t, tc.qty, item.Quantity)
			assert.True(t, item.UnitPrice.Equal(unitPrice))
		})
	}
}

// Para todo N positivo: quantity == N y subtotal == precio unitario * N.
func TestParseOrderLine_TotalProporcional(t *testing.T) {
	for n := 1; n <= 50; n++ {
		item, err := conversation.ParseOrderLine(fmt.Sprintf("Order: Widget, qty: %d", n), unitPrice)
		require.NoError(t, err)
		assert.Equal(t, n, item.Quantity)
		assert.True(t, item.Subtotal().Equal(unitPrice.Mul(decimal.NewFromInt(int64(n)))), "n=%d", n)
	}
}

func TestParseOrderLine_Invalidas(t *testing.T) {
	cases := []struct {
		in     string
		reason conversation.ParseReason
	}{
		{"Order: Sony WH-1000XM4", conversation.ReasonMissingQuantity},
		{"Order: Sony WH-1000XM4 qty: 2", conversation.ReasonMissingQuantity},
		{"Order: Sony, qty:", conversation.ReasonMissingQuantity},
		{"Order: Sony, qty: two", conversation.ReasonInvalidQuantity},
		{"Order: Sony, qty: 2.5", conversation.ReasonInvalidQuantity},
		{"Order: Sony, qty: 99999999999999999999", conversation.ReasonInvalidQuantity},
		{"Order: Sony, qty: 0", conversation.ReasonNonPositiveQuantity},
		{"Order: Sony, qty: -4", conversation.ReasonNonPositiveQuantity},
		{"Order: Sony, qty: 3000000000", conversation.ReasonQuantityTooLarge},
		{"Order: Sony, qty: 99999999999", conversation.ReasonQuantityTooLarge},
		{"Order: Sony, qty: 10001", conversation.ReasonQuantityTooLarge},
		{"Order: , qty: 2", conversation.ReasonMissingProduct},
		{"Order:", conversation.ReasonMissingProduct},
		{"I want headphones", conversation.ReasonNotOrderLine},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := conversation.ParseOrderLine(tc.in, unitPrice)
			require.Error(t, err)

			var perr *conversation.ParseError
			require.True(t, errors.As(err, &perr), "debe ser *ParseError")
			assert.Equal(t, tc.reason, perr.Reason)
			assert.Equal(t, tc.in, perr.Input)
		})
	}
}

func TestParseOrderLine_LimiteDeCantidad(t *testing.T) {
	item, err := conversation.ParseOrderLine(fmt.Sprintf("Order: Sony, qty: %d", conversation.MaxQuantity), unitPrice)
	require.NoError(t, err)
	assert.Equal(t, conversation.MaxQuantity, item.Quantity)

	// Con un precio alto el total manda aunque la cantidad esté dentro del límite.
	expensive := decimal.RequireFromString("500000000000")
	_, err = conversation.ParseOrderLine("Order: Yate, qty: 2", expensive)
	var perr *conversation.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, conversation.ReasonQuantityTooLarge, perr.Reason)

	item, err = conversation.ParseOrderLine("Order: Yate, qty: 1", expensive)
	require.NoError(t, err)
	assert.True(t, item.Subtotal().LessThanOrEqual(conversation.MaxLineTotal))
}

func TestIsOrderLine(t *testing.T) {
	assert.True(t, conversation.IsOrderLine("Order: x"))
	assert.True(t, conversation.IsOrderLine("ORDER : x"))
	assert.False(t, conversation.IsOrderLine("My order: x"))
	assert.False(t, conversation.IsOrderLine("hello"))
}
