package conversation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/dto"
)

// Identificadores de los botones del saludo.
const (
	ButtonYes = "button_yes"
	ButtonNo  = "button_no"
)

// Textos del bot.
const (
	WelcomeHeader = "Welcome to Our Store!"
	WelcomeBody   = "Welcome! Do you want to shop with us?"

	CatalogHeader = "Check out our product catalog!"
	CatalogBody   = "Browse our products and add them to your cart!"
	CatalogFooter = "Tap to view more!"

	MsgShopDeclined       = "Okay! Let us know if you need anything else."
	MsgAskAddress         = "Please provide your delivery address:"
	MsgOrderLineHelp      = "Sorry, I couldn't read that order. Please use the format: Order: <product>, qty: <number>"
	MsgFallback           = `Sorry, I didn't understand that. Please reply with "Hi" to start shopping.`
	MsgCatalogUnavailable = "Sorry, our catalog is not available right now. Please try again later."
	MsgDraftNotSaved      = "Sorry, something went wrong while saving your order. Please send it again."
)

func welcomePrompt() dto.ButtonPrompt {
	return dto.ButtonPrompt{
		Header: WelcomeHeader,
		Body:   WelcomeBody,
		Buttons: [2]dto.Button{
			{ID: ButtonYes, Title: "Yes"},
			{ID: ButtonNo, Title: "No"},
		},
	}
}

func catalogList(catalogID string) dto.ProductList {
	return dto.ProductList{
		Header:    CatalogHeader,
		Body:      CatalogBody,
		Footer:    CatalogFooter,
		CatalogID: catalogID,
	}
}

// ConfirmationMessage texto de confirmación con total y dirección.
func ConfirmationMessage(total decimal.Decimal, address string) string {
	return fmt.Sprintf("Thank you for your order! Your total is $%s. We will deliver to %s.", total.String(), address)
}
