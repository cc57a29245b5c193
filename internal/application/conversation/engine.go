package conversation

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/dto"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
)

// Rule transición de la tabla que resolvió un evento, en orden de prioridad.
type Rule int

const (
	RuleGreeting Rule = iota + 1
	RuleShopYes
	RuleShopNo
	RuleOrderLine
	RuleOrderLineInvalid
	RuleAddress
	RuleFallback
)

func (r Rule) String() string {
	switch r {
	case RuleGreeting:
		return "greeting"
	case RuleShopYes:
		return "shop_yes"
	case RuleShopNo:
		return "shop_no"
	case RuleOrderLine:
		return "order_line"
	case RuleOrderLineInvalid:
		return "order_line_invalid"
	case RuleAddress:
		return "address"
	case RuleFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// ReplyKind forma del mensaje saliente.
type ReplyKind int

const (
	ReplyText ReplyKind = iota + 1
	ReplyButtons
	ReplyProductList
)

// Reply único mensaje saliente de una decisión. Para ReplyProductList las
// secciones se completan al despachar, con el catálogo en vivo.
type Reply struct {
	Kind        ReplyKind
	Text        string
	Buttons     dto.ButtonPrompt
	ProductList dto.ProductList
}

// Mutation cambio de estado que la decisión pide persistir.
type Mutation int

const (
	MutationNone Mutation = iota
	MutationStartDraft
	MutationPromote
)

// Decision resultado de evaluar un evento contra el estado del cliente.
type Decision struct {
	Rule     Rule
	Reply    *Reply
	Mutation Mutation
	Draft    *entity.DraftOrder // MutationStartDraft
	Address  string             // MutationPromote
	ParseErr *ParseError        // RuleOrderLineInvalid
}

// Engine función de transición del diálogo. No guarda estado entre llamadas.
type Engine struct {
	UnitPrice decimal.Decimal
	CatalogID string
}

// Decide evalúa el evento contra el cliente. No modifica customer.
func (e Engine) Decide(ev Event, customer *entity.Customer) Decision {
	hasDraft := customer != nil && customer.HasDraft()

	switch {
	case ev.HasText && isGreeting(ev.Text):
		return Decision{Rule: RuleGreeting, Reply: &Reply{Kind: ReplyButtons, Buttons: welcomePrompt()}}

	case ev.ButtonID == ButtonYes:
		return Decision{Rule: RuleShopYes, Reply: &Reply{Kind: ReplyProductList, ProductList: catalogList(e.CatalogID)}}

	case ev.ButtonID == ButtonNo:
		return Decision{Rule: RuleShopNo, Reply: textReply(MsgShopDeclined)}

	case !hasDraft && ev.HasText && IsOrderLine(ev.Text):
		item, err := ParseOrderLine(ev.Text, e.UnitPrice)
		if err != nil {
			var perr *ParseError
			errors.As(err, &perr)
			return Decision{Rule: RuleOrderLineInvalid, Reply: textReply(MsgOrderLineHelp), ParseErr: perr}
		}
		return Decision{
			Rule:     RuleOrderLine,
			Reply:    textReply(MsgAskAddress),
			Mutation: MutationStartDraft,
			Draft:    entity.NewDraftOrder(item),
		}

	case hasDraft && ev.HasText && strings.TrimSpace(ev.Text) != "":
		return Decision{
			Rule:     RuleAddress,
			Reply:    textReply(ConfirmationMessage(customer.Draft.TotalPrice, ev.Text)),
			Mutation: MutationPromote,
			Address:  ev.Text,
		}

	default:
		return Decision{Rule: RuleFallback, Reply: textReply(MsgFallback)}
	}
}

func textReply(body string) *Reply {
	return &Reply{Kind: ReplyText, Text: body}
}

// isGreeting compara con case folding Unicode; un Caser no es seguro entre goroutines.
func isGreeting(text string) bool {
	folded := cases.Fold().String(strings.TrimSpace(text))
	return folded == "hi" || folded == "hello"
}
