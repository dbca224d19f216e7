package leaderboard

import (
	"slices"
	"strings"

	"github.com/challengeme/backend/internal/domain"
)

// Compare orders entries for ranking: higher points first, then username
// ascending, then entry ID. Entries without a username sort after all named
// entries. Usernames are not unique, so the ID tie-break keeps the order a
// strict total order and ties always resolve deterministically.
func Compare(a, b domain.LeaderboardEntry) int {
	if a.TotalPoints != b.TotalPoints {
		return b.TotalPoints - a.TotalPoints
	}

	switch {
	case a.Username == "" && b.Username == "":
	case a.Username == "":
		return 1
	case b.Username == "":
		return -1
	default:
		if c := strings.Compare(a.Username, b.Username); c != 0 {
			return c
		}
	}

	return strings.Compare(a.ID, b.ID)
}

// Recalculate returns a copy of entries sorted by Compare with Rank rewritten
// to the contiguous sequence 1..N.
func Recalculate(entries []domain.LeaderboardEntry) []domain.LeaderboardEntry {
	ranked := slices.Clone(entries)
	slices.SortFunc(ranked, Compare)
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
