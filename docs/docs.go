// Package docs registra la especificación OpenAPI de la API en swag.
// El contenido se genera con `swag init -g cmd/api/main.go` y se sirve en /docs.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var doc string

// SwaggerInfo metadatos de la API; main puede ajustar Host o BasePath en runtime.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "WhatsApp Order Bot API",
	Description:      "Bot de pedidos por WhatsApp: webhook de Cloud API y API de consulta para operadores.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  doc,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
