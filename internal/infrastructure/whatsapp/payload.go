package whatsapp

import "github.com/jhoicas/whatsapp-order-bot/internal/application/dto"

// ── Estructuras del protocolo Cloud API (POST /{phone-number-id}/messages) ────

type messageRequest struct {
	MessagingProduct string              `json:"messaging_product"`
	To               string              `json:"to"`
	Type             string              `json:"type"`
	Text             *textBody           `json:"text,omitempty"`
	Interactive      *interactiveMessage `json:"interactive,omitempty"`
}

type textBody struct {
	Body string `json:"body"`
}

type interactiveMessage struct {
	Type   string            `json:"type"`
	Header *interactiveText  `json:"header,omitempty"`
	Body   interactiveText   `json:"body"`
	Footer *interactiveText  `json:"footer,omitempty"`
	Action interactiveAction `json:"action"`
}

type interactiveText struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

type interactiveAction struct {
	Buttons   []replyButton `json:"buttons,omitempty"`
	CatalogID string        `json:"catalog_id,omitempty"`
	Sections  []section     `json:"sections,omitempty"`
}

type replyButton struct {
	Type  string `json:"type"`
	Reply reply  `json:"reply"`
}

type reply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type section struct {
	Title        string        `json:"title"`
	ProductItems []productItem `json:"product_items"`
}

type productItem struct {
	ProductRetailerID string `json:"product_retailer_id"`
}

type messageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

func textMessage(to, body string) messageRequest {
	return messageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &textBody{Body: body},
	}
}

func buttonMessage(to string, p dto.ButtonPrompt) messageRequest {
	buttons := make([]replyButton, 0, len(p.Buttons))
	for _, b := range p.Buttons {
		buttons = append(buttons, replyButton{Type: "reply", Reply: reply{ID: b.ID, Title: b.Title}})
	}
	return messageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &interactiveMessage{
			Type:   "button",
			Header: headerText(p.Header),
			Body:   interactiveText{Text: p.Body},
			Action: interactiveAction{Buttons: buttons},
		},
	}
}

func productListMessage(to string, l dto.ProductList) messageRequest {
	sections := make([]section, 0, len(l.Sections))
	for _, s := range l.Sections {
		items := make([]productItem, 0, len(s.RetailerIDs))
		for _, id := range s.RetailerIDs {
			items = append(items, productItem{ProductRetailerID: id})
		}
		sections = append(sections, section{Title: s.Title, ProductItems: items})
	}
	msg := messageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &interactiveMessage{
			Type:   "product_list",
			Header: headerText(l.Header),
			Body:   interactiveText{Text: l.Body},
			Action: interactiveAction{CatalogID: l.CatalogID, Sections: sections},
		},
	}
	if l.Footer != "" {
		msg.Interactive.Footer = &interactiveText{Text: l.Footer}
	}
	return msg
}

func headerText(s string) *interactiveText {
	if s == "" {
		return nil
	}
	return &interactiveText{Type: "text", Text: s}
}
