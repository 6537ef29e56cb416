package config

import "time"

// Settings holds the service knobs that are read once at startup. Secrets
// and connection URLs stay out of here; callers fetch those via RequireEnv
// so a missing value fails fast with a clear message.
type Settings struct {
	Port             string
	DefaultTimezone  string        // fallback when a user has no configured timezone
	UpcomingLimit    int           // number of posts in the dashboard upcoming list
	DispatchInterval time.Duration // how often the publish worker scans for due posts
	DispatchBatch    int           // max due posts claimed per scan
	AnalysisCron     string        // cron spec for the nightly analysis refresh
	AnalysisCacheTTL time.Duration // redis snapshot lifetime
}

// LoadSettings reads service settings from the environment with defaults
// that match the production deployment.
func LoadSettings() Settings {
	return Settings{
		Port:             GetEnv("PORT", "18080"),
		DefaultTimezone:  GetEnv("DEFAULT_TIMEZONE", "UTC"),
		UpcomingLimit:    GetEnvInt("DASHBOARD_UPCOMING_LIMIT", 5),
		DispatchInterval: GetEnvDuration("DISPATCH_INTERVAL", time.Minute),
		DispatchBatch:    GetEnvInt("DISPATCH_BATCH_SIZE", 50),
		AnalysisCron:     GetEnv("ANALYSIS_REFRESH_CRON", "0 4 * * *"),
		AnalysisCacheTTL: GetEnvDuration("ANALYSIS_CACHE_TTL", time.Hour),
	}
}
