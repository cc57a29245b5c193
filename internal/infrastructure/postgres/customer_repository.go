package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, phone, state, draft, address, created_at, updated_at`

// FindOrCreate inserta el cliente o devuelve el existente en una sola sentencia.
// El DO UPDATE no cambia nada pero hace que RETURNING devuelva la fila existente.
func (r *CustomerRepo) FindOrCreate(ctx context.Context, phone string) (*entity.Customer, error) {
	if phone == "" {
		return nil, domain.ErrInvalidInput
	}
	query := `
		INSERT INTO customers (id, phone, state, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (phone) DO UPDATE SET phone = EXCLUDED.phone
		RETURNING ` + customerColumns
	c, err := scanCustomer(r.q.QueryRow(ctx, query, uuid.New().String(), phone, string(entity.StateIdle)))
	if err != nil {
		return nil, fmt.Errorf("find or create customer: %w", err)
	}
	return c, nil
}

// GetByID obtiene un cliente por ID (nil si no existe o el ID no es un UUID).
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByPhone obtiene un cliente por número de WhatsApp.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = $1`, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by phone: %w", err)
	}
	return c, nil
}

// Save persiste estado, borrador y dirección del cliente.
func (r *CustomerRepo) Save(ctx context.Context, c *entity.Customer) error {
	draft, err := encodeDraft(c.Draft)
	if err != nil {
		return err
	}
	query := `
		UPDATE customers SET phone = $2, state = $3, draft = $4, address = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Phone, string(c.State), draft, nullIfEmpty(c.Address), c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var (
		c       entity.Customer
		state   string
		draft   []byte
		address *string
	)
	if err := row.Scan(&c.ID, &c.Phone, &state, &draft, &address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	st, err := entity.ParseConversationState(state)
	if err != nil {
		return nil, err
	}
	c.State = st
	c.Address = derefStr(address)
	if c.Draft, err = decodeDraft(draft); err != nil {
		return nil, err
	}
	return &c, nil
}

// encodeDraft devuelve nil (NULL) cuando no hay borrador.
func encodeDraft(d *entity.DraftOrder) (any, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("serializar borrador: %w", err)
	}
	return b, nil
}

func decodeDraft(b []byte) (*entity.DraftOrder, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var d entity.DraftOrder
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parsear borrador: %w", err)
	}
	return &d, nil
}
