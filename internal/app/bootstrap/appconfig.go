// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent app-level
// configuration; WAFFLE's CoreConfig handles framework-level settings like
// ports, TLS, logging level, and request limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // secret key for signing session cookies
	SessionName   string        // cookie name for sessions
	SessionDomain string        // cookie domain (blank means current host)
	SessionTTL    time.Duration // how long a sign-in stays valid

	// Image storage configuration
	StorageType      string // storage backend: "local"
	StorageLocalPath string // local storage path (e.g., "./uploads/images")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files/images")

	// DayRate is the per-day wage used for salary math, in rupees.
	DayRate float64

	// Admin account bootstrap. The account is created on startup when
	// AdminPassword is set and no user with AdminLoginID exists.
	AdminLoginID  string
	AdminPassword string
	AdminName     string
}
