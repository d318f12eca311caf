// Package config provides configuration management for profile-sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP port, API key, swagger toggle
//   - Log: logging level and format
//   - Session: Redis endpoint, TTL, cookie and session-cached facets
//   - Xdb: Xdb.Enabled and Xdb.Tracking.Enabled flags
//   - ConnectionStrings: the xconnect.collection facet store endpoint
//
// # Named Settings
//
// Provider exposes the same values by name (GetBoolSetting("Xdb.Enabled", false),
// GetConnectionString("xconnect.collection")) for the configuration validator.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port, cfg.Settings().GetBoolSetting("Xdb.Enabled", false))
package config
