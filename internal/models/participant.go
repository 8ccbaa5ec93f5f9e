package models

import "time"

// Participant is a registered member of the ledger.
type Participant struct {
	// Name is the unique identifier of the participant.
	// It is also what expenses and settlements reference.
	Name string `json:"name" yaml:"name"`

	// JoinedAt is when the participant was registered.
	// Registration order is kept for display.
	JoinedAt time.Time `json:"joined_at" yaml:"joined_at"`
}

// ParticipantNames returns the names of the given participants, preserving order.
func ParticipantNames(participants []Participant) []string {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return names
}
