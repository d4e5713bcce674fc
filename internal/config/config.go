package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Access control: Telegram-style numeric user IDs allowed to talk to
	// the bot. Everyone else gets a rejection message.
	AuthorizedUsers []int64

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID string

	// AMQP chat bridge
	AMQPURL           string
	AMQPExchange      string
	AMQPInboundQueue  string
	AMQPOutboundQueue string

	// Conversation behaviour
	Timezone      string
	SessionTTL    time.Duration
	SweepInterval time.Duration
	MaxSessions   int
	GraceDays     int

	// Expense categories and payment methods offered in the flows.
	Categories     []string
	PaymentMethods []string
}

func Load() *Config {
	cfg := &Config{
		AuthorizedUsers: getEnvInt64List("AUTHORIZED_USERS"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/caja.db"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),

		AMQPURL:           getEnv("AMQP_URL", ""),
		AMQPExchange:      getEnv("AMQP_EXCHANGE", "caja"),
		AMQPInboundQueue:  getEnv("AMQP_INBOUND_QUEUE", "chat_inbound"),
		AMQPOutboundQueue: getEnv("AMQP_OUTBOUND_QUEUE", "chat_outbound"),

		Timezone:      getEnv("TIMEZONE", "America/Bogota"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 15*time.Minute),
		SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		MaxSessions:   getEnvInt("MAX_SESSIONS", 1000),
		GraceDays:     getEnvInt("DATE_GRACE_DAYS", 1),

		Categories:     getEnvList("EXPENSE_CATEGORIES", "Suministros,Servicios,Nomina,Arriendo,Transporte,Impuestos,Otros"),
		PaymentMethods: getEnvList("PAYMENT_METHODS", "Efectivo,Transferencia,Tarjeta,Nequi,Otro"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate data backend
	validBackends := []string{"memory", "sheets", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite. The repository
	// constructor creates the directory; validation only reports.
	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.DataBackend == "sheets" && c.GoogleSpreadsheetID == "" {
		errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPInboundQueue == "" {
			errors = append(errors, "AMQP inbound queue name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPOutboundQueue == "" {
			errors = append(errors, "AMQP outbound queue name cannot be empty when AMQP URL is provided")
		}

		// A bot reachable over the bridge with an empty allow-list would
		// answer nobody; treat it as a misconfiguration.
		if len(c.AuthorizedUsers) == 0 {
			errors = append(errors, "AUTHORIZED_USERS cannot be empty when AMQP URL is provided")
		}
	}

	// Validate timezone
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	// Validate conversation behaviour
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	} else if c.SessionTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at most 24 hours", c.SessionTTL))
	}

	if c.SweepInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sweep interval %v: must be at least 1 second", c.SweepInterval))
	}

	if c.MaxSessions < 1 {
		errors = append(errors, fmt.Sprintf("invalid max sessions %d: must be at least 1", c.MaxSessions))
	}

	if c.GraceDays < 0 || c.GraceDays > 30 {
		errors = append(errors, fmt.Sprintf("invalid date grace days %d: must be between 0 and 30", c.GraceDays))
	}

	if len(c.Categories) == 0 {
		errors = append(errors, "expense categories list cannot be empty")
	}
	if len(c.PaymentMethods) == 0 {
		errors = append(errors, "payment methods list cannot be empty")
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location resolves the configured timezone. Call Validate first; an invalid
// timezone falls back to UTC here.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		raw = defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvInt64List(key string) []int64 {
	var out []int64
	for _, part := range strings.Split(os.Getenv(key), ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		if id, err := strconv.ParseInt(p, 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}
