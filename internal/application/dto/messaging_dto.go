package dto

// Button botón de respuesta rápida de un mensaje interactivo.
type Button struct {
	ID    string
	Title string
}

// ButtonPrompt mensaje interactivo con exactamente dos botones.
type ButtonPrompt struct {
	Header  string
	Body    string
	Buttons [2]Button
}

// ProductSection sección de un mensaje product_list.
type ProductSection struct {
	Title       string
	RetailerIDs []string
}

// ProductList mensaje interactivo de catálogo.
type ProductList struct {
	Header    string
	Body      string
	Footer    string
	CatalogID string
	Sections  []ProductSection
}

// CatalogProduct producto devuelto por Commerce Manager.
type CatalogProduct struct {
	Name       string `json:"name"`
	RetailerID string `json:"retailer_id"`
}
