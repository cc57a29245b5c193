package entity

import "fmt"

// ConversationState estado explícito del diálogo de compra de un cliente.
type ConversationState string

const (
	StateIdle            ConversationState = "IDLE"
	StateDrafting        ConversationState = "DRAFTING"
	StateAwaitingAddress ConversationState = "AWAITING_ADDRESS"
)

// ParseConversationState convierte el valor persistido. Vacío equivale a Idle
// (registros creados antes de existir la columna).
func ParseConversationState(s string) (ConversationState, error) {
	switch ConversationState(s) {
	case "", StateIdle:
		return StateIdle, nil
	case StateDrafting:
		return StateDrafting, nil
	case StateAwaitingAddress:
		return StateAwaitingAddress, nil
	default:
		return "", fmt.Errorf("estado de conversación desconocido: %q", s)
	}
}

func (s ConversationState) String() string { return string(s) }
