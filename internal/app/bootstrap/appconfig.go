// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS); AppConfig is
// everything specific to this service.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Token configuration
	JWTSecret   string        // Secret for signing bearer tokens (must be strong in production)
	TokenExpiry time.Duration // How long a minted token stays valid

	// Rate limiting for credential endpoints
	AuthRateLimit  int           // Max register/login attempts per window per client
	AuthRateWindow time.Duration // Window for the auth rate limit
}
