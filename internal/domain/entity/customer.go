package entity

import "time"

// Customer representa un cliente identificado por su número de WhatsApp.
// Draft y Address son transitorios: solo existen entre la captura de la línea
// de pedido y la promoción a Order.
type Customer struct {
	ID        string
	Phone     string
	State     ConversationState
	Draft     *DraftOrder
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer construye un cliente en estado Idle.
func NewCustomer(id, phone string, now time.Time) *Customer {
	return &Customer{
		ID:        id,
		Phone:     phone,
		State:     StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasDraft indica si hay un borrador activo esperando dirección.
func (c *Customer) HasDraft() bool {
	return c.Draft != nil && (c.State == StateDrafting || c.State == StateAwaitingAddress)
}

// StartDraft adjunta un borrador nuevo. Cualquier dirección anterior se descarta.
func (c *Customer) StartDraft(draft *DraftOrder, now time.Time) {
	c.Draft = draft
	c.Address = ""
	c.State = StateDrafting
	c.UpdatedAt = now
}

// AwaitAddress marca que ya se pidió la dirección de entrega para el borrador.
func (c *Customer) AwaitAddress(now time.Time) {
	if c.Draft == nil {
		return
	}
	c.State = StateAwaitingAddress
	c.UpdatedAt = now
}

// Reset limpia borrador y dirección tras la promoción.
func (c *Customer) Reset(now time.Time) {
	c.Draft = nil
	c.Address = ""
	c.State = StateIdle
	c.UpdatedAt = now
}
