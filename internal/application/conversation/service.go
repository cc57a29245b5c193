package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/dto"
	"github.com/jhoicas/whatsapp-order-bot/internal/application/ports"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/repository"
	"github.com/jhoicas/whatsapp-order-bot/pkg/logger"
)

// ServiceDeps dependencias del servicio de conversación.
type ServiceDeps struct {
	Engine    Engine
	Customers repository.CustomerRepository
	Tx        repository.TxRunner
	Messenger ports.Messenger
	Catalog   ports.CatalogService
	Log       *logger.Logger
	Now       func() time.Time // opcional, para tests
}

// Service orquesta un evento entrante: carga el cliente, decide, persiste y responde.
type Service struct {
	engine    Engine
	customers repository.CustomerRepository
	tx        repository.TxRunner
	messenger ports.Messenger
	catalog   ports.CatalogService
	log       *logger.Logger
	now       func() time.Time
	locks     *keyedMutex
}

// NewService construye el servicio.
func NewService(deps ServiceDeps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		engine:    deps.Engine,
		customers: deps.Customers,
		tx:        deps.Tx,
		messenger: deps.Messenger,
		catalog:   deps.Catalog,
		log:       log.Component("conversation"),
		now:       now,
		locks:     newKeyedMutex(),
	}
}

// Outcome resumen de lo ocurrido con un evento.
type Outcome struct {
	Rule        Rule
	CustomerID  string
	Order       *entity.Order // solo si hubo promoción
	Delivered   bool
	DeliveryErr error
}

// Handle procesa un evento. Los eventos de un mismo teléfono se serializan.
// Solo retorna error (envolviendo domain.ErrStore) cuando falla una escritura de la
// que depende el resto del flujo; los fallos de envío quedan en Outcome.DeliveryErr.
func (s *Service) Handle(ctx context.Context, ev Event) (*Outcome, error) {
	if ev.Phone == "" {
		return nil, domain.ErrInvalidInput
	}

	unlock := s.locks.Lock(ev.Phone)
	defer unlock()

	customer, err := s.customers.FindOrCreate(ctx, ev.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: find or create customer: %w", domain.ErrStore, err)
	}

	d := s.engine.Decide(ev, customer)
	out := &Outcome{Rule: d.Rule, CustomerID: customer.ID}
	reply := d.Reply

	log := s.log.With().
		Str("phone", logger.Phone(ev.Phone)).
		Str("customer_id", customer.ID).
		Str("rule", d.Rule.String()).
		Logger()

	switch d.Mutation {
	case MutationStartDraft:
		now := s.now()
		customer.StartDraft(d.Draft, now)
		customer.AwaitAddress(now)
		if err := s.customers.Save(ctx, customer); err != nil {
			// El cliente puede reenviar la línea; no se pide dirección sin borrador guardado.
			log.Error().Err(err).Msg("guardar borrador")
			reply = textReply(MsgDraftNotSaved)
		} else {
			log.Info().Str("total", d.Draft.TotalPrice.String()).Msg("borrador creado")
		}

	case MutationPromote:
		order, err := s.promote(ctx, customer, d.Address)
		if err != nil {
			return out, fmt.Errorf("%w: promote draft: %w", domain.ErrStore, err)
		}
		out.Order = order
		log.Info().Str("order_id", order.ID).Str("total", order.TotalPrice.String()).Msg("pedido creado")
	}

	if d.ParseErr != nil {
		log.Debug().Str("reason", d.ParseErr.Reason.String()).Msg("línea de pedido inválida")
	}

	out.Delivered, out.DeliveryErr = s.dispatch(ctx, ev.Phone, reply)
	if out.DeliveryErr != nil {
		log.Error().Err(out.DeliveryErr).Msg("envío de respuesta fallido")
	}
	return out, nil
}

// promote crea el Order y limpia el borrador en la misma transacción.
func (s *Service) promote(ctx context.Context, customer *entity.Customer, address string) (*entity.Order, error) {
	now := s.now()
	customer.Address = address
	order := entity.PromoteDraft("", customer.ID, customer.Draft, address, now)

	err := s.tx.Run(ctx, func(customers repository.CustomerRepository, orders repository.OrderRepository) error {
		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		customer.Reset(now)
		return customers.Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// dispatch envía como máximo un mensaje.
func (s *Service) dispatch(ctx context.Context, to string, r *Reply) (bool, error) {
	if r == nil {
		return false, nil
	}
	var err error
	switch r.Kind {
	case ReplyText:
		err = s.messenger.SendText(ctx, to, r.Text)
	case ReplyButtons:
		err = s.messenger.SendButtons(ctx, to, r.Buttons)
	case ReplyProductList:
		list, cerr := s.withCatalog(ctx, r.ProductList)
		if cerr != nil {
			s.log.Warn().Err(cerr).Str("phone", logger.Phone(to)).Msg("catálogo no disponible")
			err = s.messenger.SendText(ctx, to, MsgCatalogUnavailable)
		} else {
			err = s.messenger.SendProductList(ctx, to, list)
		}
	default:
		err = fmt.Errorf("tipo de respuesta desconocido: %d", r.Kind)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var errEmptyCatalog = errors.New("catálogo vacío")

// MaxProductSections máximo de secciones que Cloud API acepta en un product_list.
const MaxProductSections = 10

// withCatalog completa las secciones: una por producto, con su retailer_id.
func (s *Service) withCatalog(ctx context.Context, list dto.ProductList) (dto.ProductList, error) {
	if s.catalog == nil {
		return list, errors.New("catálogo no configurado")
	}
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return list, err
	}
	if len(products) == 0 {
		return list, errEmptyCatalog
	}
	if len(products) > MaxProductSections {
		s.log.Warn().Int("products", len(products)).Int("sent", MaxProductSections).Msg("catálogo recortado al máximo de secciones")
		products = products[:MaxProductSections]
	}
	list.Sections = make([]dto.ProductSection, 0, len(products))
	for _, p := range products {
		list.Sections = append(list.Sections, dto.ProductSection{
			Title:       p.Name,
			RetailerIDs: []string{p.RetailerID},
		})
	}
	return list, nil
}
