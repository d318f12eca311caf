package profile

import "strings"

const (
	msgXdbDisabled      = "Setting 'Xdb.Enabled' is false or not set"
	msgTrackingDisabled = "Setting 'Xdb.Tracking.Enabled' is false or not set"
	msgNoCollection     = "No 'xconnect.collection' connection string is defined"
)

// ConfigProvider answers named settings and connection strings.
type ConfigProvider interface {
	GetBoolSetting(name string, fallback bool) bool
	GetConnectionString(name string) string
}

// ValidateConfig returns the configuration problems that keep contacts from
// being tracked, in a fixed order. It returns an empty slice when there are none.
func ValidateConfig(p ConfigProvider) []string {
	messages := []string{}

	if !p.GetBoolSetting("Xdb.Enabled", false) {
		messages = append(messages, msgXdbDisabled)
	}
	if !p.GetBoolSetting("Xdb.Tracking.Enabled", false) {
		messages = append(messages, msgTrackingDisabled)
	}
	if strings.TrimSpace(p.GetConnectionString("xconnect.collection")) == "" {
		messages = append(messages, msgNoCollection)
	}

	return messages
}

// ValidateConfig validates the configuration the service runs with.
func (s *Service) ValidateConfig() []string {
	return ValidateConfig(s.settings)
}

// TrackingEnabled reports whether new sessions may be started.
func (s *Service) TrackingEnabled() bool {
	return s.settings.GetBoolSetting("Xdb.Tracking.Enabled", false)
}
