package config

import "time"

// Helium API Endpoints
const (
	// Explorer endpoints return a {"data": ...} envelope.
	ExplorerBaseURL = "https://explorer.helium.foundation/api"
	WalletPath      = "/accounts/"
	HotspotPath     = "/hotspots/"
	StatsPath       = "/stats"

	// Oracle endpoint (separate host, same envelope).
	OracleBaseURL   = "https://api.helium.io/v1"
	OraclePricePath = "/oracle/prices/current"
)

// Units
const (
	// BoneDivisor converts bones (the smallest HNT unit) to HNT.
	// Oracle prices use the same 10^8 denomination for USD.
	BoneDivisor = 100_000_000

	UnitUSD = "USD"
	UnitHNT = "HNT"
)

// Attribution is attached to every sensor's attribute map.
const Attribution = "Data provided by the Helium explorer API"

// Polling
const (
	DefaultPollIntervalMin      = 15
	DefaultPricePollIntervalMin = 2
	MaxPollIntervalMin          = 24 * 60
)

// HTTP Client
const (
	DefaultAPITimeoutSec    = 10
	MaxAPITimeoutSec        = 120
	HTTPMaxConnsPerHost     = 8
	HTTPMaxIdleConnsPerHost = 4
	HTTPMaxIdleConns        = 16
)

// Rate Limits (requests per second against the public APIs)
const (
	RateLimitExplorer = 5
	RateLimitOracle   = 2
)

// Database
const (
	DBBusyTimeout = 5000 // milliseconds
)

// Logging
const (
	ServiceName   = "hntwatch"
	LogFilePrefix = ServiceName + "-"
	LogMaxAgeDays = 14
)

// Server
const (
	DefaultServerPort  = 8090
	ServerReadTimeout  = 15 * time.Second
	ServerWriteTimeout = 30 * time.Second
)

// Graceful Shutdown
const (
	ShutdownTimeout = 10 * time.Second
)
