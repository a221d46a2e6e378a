package models

// ActivityStatus is the persisted lifecycle state of an activity
type ActivityStatus string

const (
	ActivityStatusUpcoming  ActivityStatus = "upcoming"
	ActivityStatusOngoing   ActivityStatus = "ongoing"
	ActivityStatusCompleted ActivityStatus = "completed"
	ActivityStatusCancelled ActivityStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityStatusUpcoming, ActivityStatusOngoing, ActivityStatusCompleted, ActivityStatusCancelled:
		return true
	}
	return false
}

// ParticipationStatus is the state of a user's participation in an activity.
// Only confirmed is produced by join; the others are kept open for later flows.
type ParticipationStatus string

const (
	ParticipationConfirmed ParticipationStatus = "confirmed"
	ParticipationPending   ParticipationStatus = "pending"
	ParticipationCancelled ParticipationStatus = "cancelled"
)

// Counts reports whether a participation in this status occupies a capacity slot
func (s ParticipationStatus) Counts() bool {
	return s != ParticipationCancelled
}
