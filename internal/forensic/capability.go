package forensic

// CapabilitySupport is an explicit tagged capability status, so callers can
// branch on capability reliably instead of matching magic strings.
type CapabilitySupport string

const (
	CapabilitySupported   CapabilitySupport = "supported"
	CapabilityUnsupported CapabilitySupport = "unsupported"
)

// CapabilitySet declares which optional verification capabilities this engine
// build provides. Duplicate search and landmark/weather geo-verification are
// deliberately unimplemented and modeled as such.
type CapabilitySet struct {
	DuplicateSearch    CapabilitySupport `json:"duplicate_search"`
	LandmarkMatch      CapabilitySupport `json:"landmark_match"`
	WeatherConsistency CapabilitySupport `json:"weather_consistency"`
	ShadowDirection    CapabilitySupport `json:"shadow_direction"`
}

// EngineCapabilities returns the capability declaration of this build.
func EngineCapabilities() CapabilitySet {
	return CapabilitySet{
		DuplicateSearch:    CapabilityUnsupported,
		LandmarkMatch:      CapabilityUnsupported,
		WeatherConsistency: CapabilityUnsupported,
		ShadowDirection:    CapabilityUnsupported,
	}
}
