package forensic

import "strings"

// ScoreMetadataIntegrity turns a MetadataRecord into an integrity score. The
// score starts at 100 and takes a fixed deduction per missing or adverse
// field; it is clamped to [0,100] and never goes negative.
func ScoreMetadataIntegrity(record *MetadataRecord, policy ScoringPolicy) int {
	score := 100
	if !record.DeviceIdentityPresent() {
		score -= policy.DeductMissingDevice
	}
	if !record.CapturedAt.Present() {
		score -= policy.DeductMissingTimestamp
	}
	if !record.GPSPresent {
		score -= policy.DeductMissingGPS
	}
	if hasEditingSoftwareTag(record.Software, policy) {
		score -= policy.DeductEditingSoftware
	}
	if record.BlockState == FieldUnreadable {
		// A block that exists but cannot be read is worse than one that was
		// confirmed absent.
		score -= policy.DeductUnreadableBlock
	}
	return clampScore(score, 0, 100)
}

// hasEditingSoftwareTag reports whether the software tag matches a known
// editing-tool name.
func hasEditingSoftwareTag(software StringField, policy ScoringPolicy) bool {
	if !software.Present() {
		return false
	}
	tag := strings.ToLower(software.Value)
	for _, marker := range policy.EditingToolMarkers {
		if strings.Contains(tag, marker) {
			return true
		}
	}
	return false
}
