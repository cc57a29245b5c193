package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Drivers de persistencia soportados.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
// Se construye una sola vez al arrancar y se pasa explícitamente a cada componente.
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	DB       DBConfig
	Mongo    MongoConfig
	WhatsApp WhatsAppConfig
	Commerce CommerceConfig
	Order    OrderConfig
	JWT      JWTConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | mongo | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// MongoConfig configuración de MongoDB (driver alternativo).
type MongoConfig struct {
	URI      string
	Database string // vacío = tomar el path del URI
}

// DatabaseName nombre de la base a usar: Database o el path del URI (mongodb://host/OrderInformation).
func (c MongoConfig) DatabaseName() string {
	if c.Database != "" {
		return c.Database
	}
	if u, err := url.Parse(c.URI); err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return "OrderInformation"
}

// WhatsAppConfig credenciales de la Cloud API.
type WhatsAppConfig struct {
	VerifyToken   string
	Token         string
	PhoneNumberID string
	APIBaseURL    string
	Timeout       time.Duration
}

// MessagesURL endpoint de envío de mensajes para el número configurado.
func (c WhatsAppConfig) MessagesURL() string {
	return strings.TrimRight(c.APIBaseURL, "/") + "/" + c.PhoneNumberID + "/messages"
}

// CommerceConfig catálogo de Commerce Manager.
type CommerceConfig struct {
	APIURL    string
	CatalogID string
}

// OrderConfig reglas de precio del pedido.
type OrderConfig struct {
	UnitPrice decimal.Decimal
}

// JWTConfig configuración de JWT para la API de operadores.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: WHATSAPP_TOKEN, DATABASE_URL, PORT, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración a partir de una instancia de Viper ya cargada.
func FromViper(v *viper.Viper) (*Config, error) {
	unitPrice, err := decimal.NewFromString(getString(v, "ORDER_UNIT_PRICE", "300"))
	if err != nil {
		return nil, fmt.Errorf("ORDER_UNIT_PRICE inválido: %w", err)
	}
	if !unitPrice.IsPositive() {
		return nil, fmt.Errorf("ORDER_UNIT_PRICE debe ser positivo")
	}
	// unit_price y total_price son NUMERIC(14,2): más decimales se redondearían al guardar.
	if !unitPrice.Equal(unitPrice.Round(2)) {
		return nil, fmt.Errorf("ORDER_UNIT_PRICE admite como máximo 2 decimales: %s", unitPrice)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "whatsapp-order-bot"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "PORT", 3000),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getString(v, "DB_DRIVER", DriverPostgres)),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "order_information"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
		},
		Mongo: MongoConfig{
			URI:      getString(v, "MONGODB_URI", "mongodb://localhost:27017/OrderInformation"),
			Database: getString(v, "MONGODB_DATABASE", ""),
		},
		WhatsApp: WhatsAppConfig{
			VerifyToken:   getString(v, "WHATSAPP_VERIFY_TOKEN", ""),
			Token:         getString(v, "WHATSAPP_TOKEN", ""),
			PhoneNumberID: getString(v, "WHATSAPP_PHONE_NUMBER_ID", ""),
			APIBaseURL:    getString(v, "WHATSAPP_API_BASE_URL", "https://graph.facebook.com/v17.0"),
			Timeout:       time.Duration(getInt(v, "WHATSAPP_HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Commerce: CommerceConfig{
			APIURL:    getString(v, "COMMERCE_API_URL", ""),
			CatalogID: getString(v, "COMMERCE_CATALOG_ID", ""),
		},
		Order: OrderConfig{
			UnitPrice: unitPrice,
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "whatsapp-order-bot"),
		},
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return nil, fmt.Errorf("DB_DRIVER desconocido: %q", cfg.DB.Driver)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
