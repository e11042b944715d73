package config // package config loads application configuration from environment variables

import (
	"fmt"     // error formatting for invalid values
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strings" // normalising driver names and origin lists
	"time"    // durations for timeouts and token lifetimes

	"golang.org/x/crypto/bcrypt" // bounds for the configurable bcrypt cost
)

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBDriver      string        // "postgres" or "mysql"
	DBUser        string        // database username
	DBPassword    string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBDatabase    string        // database name
	DBSSLMode     string        // postgres sslmode
	DBTimeout     time.Duration // bound applied to every store call of a request
	DBAutoMigrate bool          // run embedded migrations at startup

	JWTSecret  string        // secret used to sign JWTs
	JWTTTL     time.Duration // token lifetime
	BcryptCost int           // bcrypt cost for password hashing

	LogLevel    string   // zap level name
	CORSOrigins []string // allowed CORS origins

	RabbitMQURL          string // broker URL; events are disabled when empty
	EventsQueue          string // queue receiving auth events
	AuditConsumerEnabled bool   // run the audit log consumer in-process
	AuditLogPath         string // file the audit consumer appends to
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing required values or invalid ones cause the program to exit
// with a fatal log message.
func Load() Config {
	cfg, err := FromLookup(os.LookupEnv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// FromLookup builds a Config from an arbitrary lookup function.  It is the
// testable core of Load.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	e := env{lookup: lookup}

	driver := strings.ToLower(e.str("DB_DRIVER", DriverPostgres))
	defPort := "5432"
	switch driver {
	case DriverPostgres:
	case DriverMySQL:
		defPort = "3306"
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	cfg := Config{
		Env:  e.str("APP_ENV", "dev"),
		Port: e.str("PORT", "3000"),

		DBDriver:      driver,
		DBUser:        e.must("DB_USER"),
		DBPassword:    e.str("DB_PASSWORD", ""),
		DBHost:        e.must("DB_HOST"),
		DBPort:        e.str("DB_PORT", defPort),
		DBDatabase:    e.must("DB_DATABASE"),
		DBSSLMode:     e.str("DB_SSLMODE", "disable"),
		DBTimeout:     e.dur("DB_TIMEOUT", 5*time.Second),
		DBAutoMigrate: e.bool("DB_AUTO_MIGRATE", true),

		JWTSecret:  e.must("JWT_SECRET"),
		JWTTTL:     e.dur("JWT_TTL", 24*time.Hour),
		BcryptCost: e.int("BCRYPT_COST", bcrypt.DefaultCost),

		LogLevel:    e.str("LOG_LEVEL", "info"),
		CORSOrigins: splitList(e.str("CORS_ALLOW_ORIGINS", "*")),

		RabbitMQURL:          e.str("RABBITMQ_URL", e.str("AMQP_URL", "")),
		EventsQueue:          e.str("EVENTS_QUEUE", "auth.events"),
		AuditConsumerEnabled: e.bool("AUDIT_CONSUMER_ENABLED", false),
		AuditLogPath:         e.str("AUDIT_LOG_PATH", "logs/auth_events.log"),
	}
	if len(e.missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(e.missing, ", "))
	}
	if len(e.invalid) > 0 {
		return Config{}, fmt.Errorf("invalid env vars: %s", strings.Join(e.invalid, ", "))
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost)
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWTTTL)
	}
	if cfg.DBTimeout <= 0 {
		return Config{}, fmt.Errorf("DB_TIMEOUT must be positive, got %s", cfg.DBTimeout)
	}
	return cfg, nil
}

// EventsEnabled reports whether a broker is configured.
func (c Config) EventsEnabled() bool { return c.RabbitMQURL != "" }

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
