package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers, ints for durations.
type Config struct {
	Env              string // application environment (e.g. "dev", "prod")
	DBUser           string // database username
	DBPass           string // database password (optional)
	DBHost           string // database host address
	DBPort           string // database port number
	DBName           string // database name
	DBMaxConns       int    // connection pool size (open and idle)
	PendingTTLMin    int    // minutes a PENDING booking may hold capacity before the sweep releases it
	SweepIntervalMin int    // minutes between expiry sweep runs
	QueueURL         string // AMQP connection URL (optional; events disabled when empty)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"), // environment (dev/test/prod)
		DBUser:           must("DB_USER"), // database user
		DBPass:           os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:           must("DB_HOST"), // database host
		DBPort:           must("DB_PORT"), // database port
		DBName:           must("DB_NAME"), // database name
		DBMaxConns:       envInt("DB_MAX_CONNS", 25),    // pool size (optional)
		PendingTTLMin:    mustInt("PENDING_TTL_MIN"),    // hold time for unvalidated bookings
		SweepIntervalMin: mustInt("SWEEP_INTERVAL_MIN"), // how often the sweep runs
		QueueURL:         os.Getenv("QUEUE_URL"),        // AMQP URL (empty disables events)
	}
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
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// envInt reads an optional integer variable, falling back to def when the
// variable is unset.  A set-but-unparseable value is still fatal.
func envInt(key string, def int) int {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
