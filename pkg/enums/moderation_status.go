package enums

import "fmt"

// ModerationStatus maps to the moderation_status enum in Postgres.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

var validModerationStatuses = []ModerationStatus{
	ModerationPending,
	ModerationApproved,
	ModerationRejected,
}

// String implements fmt.Stringer.
func (s ModerationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical moderation_status enum.
func (s ModerationStatus) IsValid() bool {
	for _, candidate := range validModerationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseModerationStatus converts raw input into ModerationStatus.
func ParseModerationStatus(value string) (ModerationStatus, error) {
	for _, candidate := range validModerationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid moderation status %q", value)
}
