package config

import (
	"strings"

	"profile-sync/core/utils"

	"github.com/spf13/viper"
)

const connectionStringsKey = "connectionstrings"

// Provider answers named settings such as "Xdb.Enabled" and named connection
// strings such as "xconnect.collection". Names are case-insensitive.
type Provider struct {
	v *viper.Viper
}

// NewProvider wraps a viper instance.
func NewProvider(v *viper.Viper) *Provider {
	return &Provider{v: v}
}

// GetBoolSetting returns the boolean value of a setting, or fallback when the
// setting is not registered.
func (p *Provider) GetBoolSetting(name string, fallback bool) bool {
	key := strings.ToLower(name)
	if !p.v.IsSet(key) {
		return fallback
	}
	return utils.ToBool(p.v.Get(key))
}

// GetConnectionString returns the named connection string, or "" if none is defined.
func (p *Provider) GetConnectionString(name string) string {
	return strings.TrimSpace(p.v.GetString(connectionStringsKey + "." + strings.ToLower(name)))
}
