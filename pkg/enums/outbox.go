package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateCompany                OutboxAggregateType = "company"
	AggregateSalespersonProfile     OutboxAggregateType = "salesperson_profile"
	AggregateCertification          OutboxAggregateType = "certification"
	AggregateExperience             OutboxAggregateType = "experience"
	AggregateSalespersonApplication OutboxAggregateType = "salesperson_application"
	AggregateUser                   OutboxAggregateType = "user"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateCompany,
	AggregateSalespersonProfile,
	AggregateCertification,
	AggregateExperience,
	AggregateSalespersonApplication,
	AggregateUser,
}

// AggregateFor maps a moderated entity type to its aggregate type.
func AggregateFor(entity EntityType) OutboxAggregateType {
	return OutboxAggregateType(entity)
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventModerationSubmitted   OutboxEventType = "moderation_submitted"
	EventModerationResubmitted OutboxEventType = "moderation_resubmitted"
	EventModerationApproved    OutboxEventType = "moderation_approved"
	EventModerationRejected    OutboxEventType = "moderation_rejected"
	EventModerationWithdrawn   OutboxEventType = "moderation_withdrawn"
	EventUserRoleChanged       OutboxEventType = "user_role_changed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventModerationSubmitted,
	EventModerationResubmitted,
	EventModerationApproved,
	EventModerationRejected,
	EventModerationWithdrawn,
	EventUserRoleChanged,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
