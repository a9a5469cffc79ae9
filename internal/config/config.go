package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBDriver       string // "mysql" or "sqlite"
	DBUser         string // database username (mysql)
	DBPass         string // database password (optional)
	DBHost         string // database host address (mysql)
	DBPort         string // database port number (mysql)
	DBName         string // database name (mysql)
	DBPath         string // database file (sqlite)
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	AdminUsername  string // reserved administrator account name
	AdminPassword  string // password the administrator is seeded with
	CORSOrigins    []string
	LogLevel       string
	AMQPURL        string // RabbitMQ connection string
	EventsEnabled  bool   // publish chat and dossier events
	LLM            LLMConfig
}

// DefaultAdminPassword is the seeded administrator password when
// ADMIN_PASSWORD is unset.  Startup warns when it is in use.
const DefaultAdminPassword = "admin123"

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The mysql connection
// variables are only required when DB_DRIVER is mysql.
func Load() Config {
	cfg := Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBDriver:       strings.ToLower(envStr("DB_DRIVER", "mysql")),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		AdminUsername:  envStr("ADMIN_USERNAME", "admin"),
		AdminPassword:  envStr("ADMIN_PASSWORD", DefaultAdminPassword),
		CORSOrigins:    splitList(envStr("CORS_ORIGINS", "*")),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		AMQPURL:        envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		EventsEnabled:  envBool("EVENTS_ENABLED", false),
		LLM:            LoadLLMConfig(),
	}
	switch cfg.DBDriver {
	case "mysql":
		cfg.DBUser = must("DB_USER")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	case "sqlite":
		cfg.DBPath = envStr("DB_PATH", "es_archive.db")
	default:
		log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
	if cfg.EventsEnabled && cfg.AMQPURL == "" {
		log.Fatalf("EVENTS_ENABLED requires RABBITMQ_URL or AMQP_URL")
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}
