package forensic

import "regexp"

// CustodyState is the chain-of-custody trust status of an asset.
type CustodyState string

const (
	CustodyIntact        CustodyState = "Intact"
	CustodyNotVerifiable CustodyState = "Not-Verifiable"
)

// CustodyEvidence names the kind of evidence that justified the status. A
// verifiable provenance token is recorded distinctly from a bare user-asserted
// flag: the two are currently weighed the same, which is a known policy
// weakness surfaced to callers rather than hidden.
type CustodyEvidence string

const (
	EvidenceProvenanceToken CustodyEvidence = "provenance-token"
	EvidenceUserAsserted    CustodyEvidence = "user-asserted-flag"
	EvidenceNone            CustodyEvidence = "none"
)

// ChainOfCustodyStatus is the provenance trust decision plus the evidence that
// produced it.
type ChainOfCustodyStatus struct {
	State    CustodyState    `json:"state"`
	Evidence CustodyEvidence `json:"evidence"`
	Token    string          `json:"token,omitempty"`
}

// Intact reports whether the provenance trail is considered verifiable.
func (s ChainOfCustodyStatus) Intact() bool {
	return s.State == CustodyIntact
}

// provenanceTokenPattern matches the canonical RFC-4122 identifier that
// trusted capture apps prepend to the original filename.
var provenanceTokenPattern = regexp.MustCompile(
	`[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}`)

// EvaluateChainOfCustody determines the provenance trust status from the
// original filename and the secure-capture indicator. A recoverable token
// takes precedence over the user-asserted flag.
func EvaluateChainOfCustody(originalFilename string, secureCapture bool) ChainOfCustodyStatus {
	if token := provenanceTokenPattern.FindString(originalFilename); token != "" {
		return ChainOfCustodyStatus{
			State:    CustodyIntact,
			Evidence: EvidenceProvenanceToken,
			Token:    token,
		}
	}
	if secureCapture {
		return ChainOfCustodyStatus{
			State:    CustodyIntact,
			Evidence: EvidenceUserAsserted,
		}
	}
	return ChainOfCustodyStatus{
		State:    CustodyNotVerifiable,
		Evidence: EvidenceNone,
	}
}
