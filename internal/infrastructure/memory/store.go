// Package memory implementa los repositorios en memoria del proceso.
// Se usa en tests y con DB_DRIVER=memory; los datos no sobreviven a un reinicio.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.OrderRepository    = (*OrderRepo)(nil)
	_ repository.TxRunner           = (*Store)(nil)
)

// Store guarda clientes y pedidos. Todo lo que entra y sale se copia, así que
// mutar un *entity.Customer devuelto no afecta al store hasta llamar a Save.
type Store struct {
	mu   sync.Mutex
	data state
	now  func() time.Time
}

type state struct {
	customers map[string]*entity.Customer // por ID
	byPhone   map[string]string           // teléfono -> ID
	orders    map[string]*entity.Order
	orderSeq  []string // orden de inserción
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		data: state{
			customers: make(map[string]*entity.Customer),
			byPhone:   make(map[string]string),
			orders:    make(map[string]*entity.Order),
		},
		now: time.Now,
	}
}

// Customers repositorio de clientes sobre el store.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }

// Orders repositorio de pedidos sobre el store.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no falla.
// Las transacciones se serializan con el resto de operaciones del store.
func (s *Store) Run(_ context.Context, fn func(customers repository.CustomerRepository, orders repository.OrderRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &Store{data: s.data.clone(), now: s.now}

	if err := fn(&CustomerRepo{s: staged, locked: true}, &OrderRepo{s: staged, locked: true}); err != nil {
		return err
	}
	s.data = staged.data
	return nil
}

// OrderCount número de pedidos persistidos.
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders)
}

// CustomerCount número de clientes persistidos.
func (s *Store) CustomerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.customers)
}

// with ejecuta fn con el lock tomado salvo que el repo ya opere dentro de un tx.
func (s *Store) with(locked bool, fn func(d *state) error) error {
	if !locked {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(&s.data)
}

// CustomerRepo implementación en memoria de CustomerRepository.
type CustomerRepo struct {
	s      *Store
	locked bool
}

// FindOrCreate devuelve el cliente del teléfono, creándolo en Idle si no existe.
func (r *CustomerRepo) FindOrCreate(_ context.Context, phone string) (*entity.Customer, error) {
	if phone == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Customer
	err := r.s.with(r.locked, func(d *state) error {
		if id, ok := d.byPhone[phone]; ok {
			out = cloneCustomer(d.customers[id])
			return nil
		}
		c := entity.NewCustomer(uuid.New().String(), phone, r.s.now())
		d.customers[c.ID] = cloneCustomer(c)
		d.byPhone[phone] = c.ID
		out = c
		return nil
	})
	return out, err
}

// GetByID obtiene un cliente por ID (nil si no existe).
func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.s.with(r.locked, func(d *state) error {
		out = cloneCustomer(d.customers[id])
		return nil
	})
	return out, err
}

// GetByPhone obtiene un cliente por teléfono (nil si no existe).
func (r *CustomerRepo) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.s.with(r.locked, func(d *state) error {
		if id, ok := d.byPhone[phone]; ok {
			out = cloneCustomer(d.customers[id])
		}
		return nil
	})
	return out, err
}

// Save reemplaza el estado conversacional del cliente.
func (r *CustomerRepo) Save(_ context.Context, c *entity.Customer) error {
	return r.s.with(r.locked, func(d *state) error {
		current, ok := d.customers[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if current.Phone != c.Phone {
			if _, taken := d.byPhone[c.Phone]; taken {
				return domain.ErrDuplicate
			}
			delete(d.byPhone, current.Phone)
			d.byPhone[c.Phone] = c.ID
		}
		d.customers[c.ID] = cloneCustomer(c)
		return nil
	})
}

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	s      *Store
	locked bool
}

// Create persiste un pedido nuevo; asigna ID si viene vacío.
func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.s.with(r.locked, func(d *state) error {
		if _, ok := d.customers[o.CustomerID]; !ok {
			return domain.ErrNotFound
		}
		if o.ID == "" {
			o.ID = uuid.New().String()
		}
		if _, ok := d.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		d.orders[o.ID] = cloneOrder(o)
		d.orderSeq = append(d.orderSeq, o.ID)
		return nil
	})
}

// GetByID obtiene un pedido por ID (nil si no existe).
func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.s.with(r.locked, func(d *state) error {
		out = cloneOrder(d.orders[id])
		return nil
	})
	return out, err
}

// ListByCustomer lista pedidos del cliente, más recientes primero.
func (r *OrderRepo) ListByCustomer(_ context.Context, customerID string, limit, offset int) ([]*entity.Order, error) {
	var list []*entity.Order
	err := r.s.with(r.locked, func(d *state) error {
		for _, id := range d.orderSeq {
			if o := d.orders[id]; o.CustomerID == customerID {
				list = append(list, cloneOrder(o))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// orderSeq ya está en orden de inserción; se invierte de forma estable por fecha.
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []*entity.Order{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (d state) clone() state {
	out := state{
		customers: make(map[string]*entity.Customer, len(d.customers)),
		byPhone:   make(map[string]string, len(d.byPhone)),
		orders:    make(map[string]*entity.Order, len(d.orders)),
		orderSeq:  append([]string(nil), d.orderSeq...),
	}
	for k, v := range d.customers {
		out.customers[k] = cloneCustomer(v)
	}
	for k, v := range d.byPhone {
		out.byPhone[k] = v
	}
	for k, v := range d.orders {
		out.orders[k] = cloneOrder(v)
	}
	return out
}

func cloneCustomer(c *entity.Customer) *entity.Customer {
	if c == nil {
		return nil
	}
	out := *c
	if c.Draft != nil {
		d := *c.Draft
		d.Items = append([]entity.LineItem(nil), c.Draft.Items...)
		out.Draft = &d
	}
	return &out
}

func cloneOrder(o *entity.Order) *entity.Order {
	if o == nil {
		return nil
	}
	out := *o
	out.Items = append([]entity.LineItem(nil), o.Items...)
	return &out
}
