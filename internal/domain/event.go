package domain

const (
	EventNameParticipationCompleted = "participation.completed"
)

// EventParticipationCompleted is published the first time a participation
// record transitions into COMPLETED. Points carries the challenge's reward.
type EventParticipationCompleted struct {
	Participation Participation
	Points        int
}

func (EventParticipationCompleted) Name() string { return EventNameParticipationCompleted }
