package domain

import "time"

// LeaderboardEntry is one user's row on the global leaderboard.
type LeaderboardEntry struct {
	ID          string
	UserID      string
	Username    string
	TotalPoints int
	// Rank is 1-based and derived: it is rewritten by every recompute pass
	// and never set by callers directly.
	Rank int
}

// ParticipationStatus is the progress state of a user on a challenge.
type ParticipationStatus string

const (
	StatusPending   ParticipationStatus = "PENDING"
	StatusAccepted  ParticipationStatus = "ACCEPTED"
	StatusCompleted ParticipationStatus = "COMPLETED"
)

// Valid reports whether s is one of the known statuses. Anything else is
// rejected at the service boundary instead of being silently ignored.
func (s ParticipationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCompleted:
		return true
	}
	return false
}

// Participation links a user to a challenge and tracks progress.
// DateCompleted is non-nil iff Status == COMPLETED; DateAccepted is non-nil
// whenever Status != PENDING.
type Participation struct {
	ID             string
	UserID         string
	ChallengeID    string
	Status         ParticipationStatus
	DateAccepted   *time.Time
	DateCompleted  *time.Time
	TimesCompleted int
}

type ChallengeDifficulty string

const (
	DifficultyEasy   ChallengeDifficulty = "EASY"
	DifficultyMedium ChallengeDifficulty = "MEDIUM"
	DifficultyHard   ChallengeDifficulty = "HARD"
)

// Challenge is an entry in the challenge catalog.
type Challenge struct {
	ID          string
	Title       string
	Description string
	Category    string
	Difficulty  ChallengeDifficulty
	Points      int
	CreatedBy   string
}

type User struct {
	ID       string
	Username string
}

// LeaderboardRange selects the time window for a ranked listing.
type LeaderboardRange string

const (
	RangeAllTime LeaderboardRange = "ALL_TIME"
	RangeWeekly  LeaderboardRange = "WEEKLY"
	RangeMonthly LeaderboardRange = "MONTHLY"
)

func (r LeaderboardRange) Valid() bool {
	switch r {
	case RangeAllTime, RangeWeekly, RangeMonthly:
		return true
	}
	return false
}

// RankedRow is one line of a ranged leaderboard listing.
type RankedRow struct {
	Rank     int
	UserID   string
	Username string
	Points   int
}
