package models

// StatusLabel is the fixed label shown on a result or blacklist record.
type StatusLabel string

const (
	// Verifier flow
	StatusAccepted StatusLabel = "Accepted"
	StatusRejected StatusLabel = "Rejected"
	StatusFraud    StatusLabel = "Fraud"

	// Blacklist flow
	StatusConfirmedFraud       StatusLabel = "Confirmed Fraud"
	StatusUnderReview          StatusLabel = "Under Review"
	StatusPendingInvestigation StatusLabel = "Pending Investigation"
)

var knownStatusLabels = map[StatusLabel]struct{}{
	StatusAccepted:             {},
	StatusRejected:             {},
	StatusFraud:                {},
	StatusConfirmedFraud:       {},
	StatusUnderReview:          {},
	StatusPendingInvestigation: {},
}

// Known reports whether the label belongs to the fixed enumerated set.
func (s StatusLabel) Known() bool {
	_, ok := knownStatusLabels[s]
	return ok
}

// Tone maps a label to the color family used by the templates.
func (s StatusLabel) Tone() string {
	switch s {
	case StatusAccepted:
		return "green"
	case StatusRejected, StatusUnderReview:
		return "yellow"
	case StatusFraud, StatusConfirmedFraud:
		return "red"
	case StatusPendingInvestigation:
		return "blue"
	default:
		return "gray"
	}
}

// VerificationResult is produced once per submitted batch by the simulated
// processor. It is never mutated after creation.
type VerificationResult struct {
	ID                string      `json:"id" msgpack:"id"`
	FileName          string      `json:"fileName" msgpack:"fileName"`
	StatusLabel       StatusLabel `json:"statusLabel" msgpack:"statusLabel"`
	ConfidencePercent int         `json:"confidencePercent" msgpack:"confidencePercent"`
	Institution       string      `json:"institution,omitempty" msgpack:"institution,omitempty"`
	Note              string      `json:"note" msgpack:"note"`
	Timestamp         string      `json:"timestamp" msgpack:"timestamp"`
}
