package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
)

// ParseReason motivo por el que una línea de pedido no se pudo interpretar.
type ParseReason int

const (
	ReasonNotOrderLine ParseReason = iota + 1
	ReasonMissingProduct
	ReasonMissingQuantity
	ReasonInvalidQuantity
	ReasonNonPositiveQuantity
	ReasonQuantityTooLarge
)

// Límites de una línea de pedido. Mantienen quantity dentro de INT y el total
// dentro de NUMERIC(14,2), así un borrador aceptado siempre se puede promover.
const MaxQuantity = 10000

var MaxLineTotal = decimal.RequireFromString("999999999999.99")

func (r ParseReason) String() string {
	switch r {
	case ReasonNotOrderLine:
		return "not_order_line"
	case ReasonMissingProduct:
		return "missing_product"
	case ReasonMissingQuantity:
		return "missing_quantity"
	case ReasonInvalidQuantity:
		return "invalid_quantity"
	case ReasonNonPositiveQuantity:
		return "non_positive_quantity"
	case ReasonQuantityTooLarge:
		return "quantity_too_large"
	default:
		return "unknown"
	}
}

// ParseError la línea empieza como pedido pero no cumple "Order: <producto>, qty: <n>".
type ParseError struct {
	Reason ParseReason
	Input  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("línea de pedido inválida (%s): %q", e.Reason, e.Input)
}

var (
	orderPrefixRe = regexp.MustCompile(`(?i)^\s*order\s*:`)
	// El nombre es lazy para que admita comas: "Order: Camisa, azul, qty: 2".
	orderLineRe = regexp.MustCompile(`(?i)^\s*order\s*:\s*(.*?)\s*,\s*qty\s*:\s*(.*?)\s*$`)
)

// IsOrderLine indica si el texto pretende ser una línea de pedido.
func IsOrderLine(text string) bool {
	return orderPrefixRe.MatchString(text)
}

// ParseOrderLine interpreta "Order: <producto>, qty: <n>" y calcula el precio con unitPrice.
// Nunca hace panic: cualquier entrada mal formada devuelve *ParseError.
func ParseOrderLine(text string, unitPrice decimal.Decimal) (entity.LineItem, error) {
	if !IsOrderLine(text) {
		return entity.LineItem{}, &ParseError{Reason: ReasonNotOrderLine, Input: text}
	}
	m := orderLineRe.FindStringSubmatch(text)
	if m == nil {
		if name := strings.TrimSpace(orderPrefixRe.ReplaceAllString(text, "")); name == "" {
			return entity.LineItem{}, &ParseError{Reason: ReasonMissingProduct, Input: text}
		}
		return entity.LineItem{}, &ParseError{Reason: ReasonMissingQuantity, Input: text}
	}
	name, rawQty := m[1], m[2]
	if name == "" {
		return entity.LineItem{}, &ParseError{Reason: ReasonMissingProduct, Input: text}
	}
	if rawQty == "" {
		return entity.LineItem{}, &ParseError{Reason: ReasonMissingQuantity, Input: text}
	}
	qty, err := strconv.Atoi(rawQty)
	if err != nil {
		return entity.LineItem{}, &ParseError{Reason: ReasonInvalidQuantity, Input: text}
	}
	if qty <= 0 {
		return entity.LineItem{}, &ParseError{Reason: ReasonNonPositiveQuantity, Input: text}
	}
	if qty > MaxQuantity || unitPrice.Mul(decimal.NewFromInt(int64(qty))).GreaterThan(MaxLineTotal) {
		return entity.LineItem{}, &ParseError{Reason: ReasonQuantityTooLarge, Input: text}
	}
	return entity.LineItem{
		ProductName: name,
		Quantity:    qty,
		UnitPrice:   unitPrice,
	}, nil
}
