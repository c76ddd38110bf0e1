package forensic

import "fmt"

// defaultExplanation is emitted when no condition triggers; the list is never
// empty.
const defaultExplanation = "No strong forensic indicators detected in available signals."

// GenerateExplanations renders the triggered conditions into human-readable
// drivers in a fixed deterministic order.
func GenerateExplanations(record *MetadataRecord, tamper *TamperSignal, ai AIHeuristicSignal, geo GeoTimeSignal, custody ChainOfCustodyStatus, policy ScoringPolicy) []string {
	var drivers []string

	if record.BlockState == FieldUnreadable {
		drivers = append(drivers, "Embedded metadata present but could not be read.")
	}
	if record.AllDescriptiveFieldsMissing() {
		drivers = append(drivers, "Embedded metadata missing or stripped.")
	}
	if !record.GPSPresent {
		drivers = append(drivers, "GPS data missing; geo-verification limited.")
	}
	if hasEditingSoftwareTag(record.Software, policy) {
		drivers = append(drivers, fmt.Sprintf("Editing software detected: %s.", record.Software.Value))
	}
	if tamper.Probability >= policy.TamperOverrideMin {
		drivers = append(drivers, "High tampering probability from compression and noise analysis.")
	}
	if ai.LikelyAI {
		drivers = append(drivers, "Signals consistent with AI-assisted generation or enhancement.")
	}
	if geo.Level == GeoConfidenceLow {
		drivers = append(drivers, "Geo/time confidence is low.")
	}
	if !custody.Intact() {
		drivers = append(drivers, "Chain of custody could not be verified.")
	}

	if len(drivers) == 0 {
		drivers = append(drivers, defaultExplanation)
	}
	return drivers
}
