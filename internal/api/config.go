package api

// Config holds server configuration.
type Config struct {
	Port            int
	TypesDir        string   // Directory of block type definition files (optional)
	MaxDocumentSize int64    // Maximum request body size in bytes (0 = default)
	AllowedOrigins  []string // CORS allowed origins (empty = allow all)
}

// DefaultMaxDocumentSize caps request bodies at 10 MiB.
const DefaultMaxDocumentSize = 10 << 20

// ServerConfig is the active server configuration.
var ServerConfig Config
