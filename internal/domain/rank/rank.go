// Package rank orders leaderboard entries across all wallets.
//
// Ordering: score DESC, then completed bookings DESC, then wallet id ASC.
// The wallet-id tiebreak makes the order a strict total order, so repeated
// queries against unchanged data return identical rankings and every entry
// gets a distinct rank number.
package rank

import "sort"

// Entry is one wallet's row in the leaderboard.
type Entry struct {
	Rank              int      `json:"rank"`
	WalletID          string   `json:"wallet_id"`
	Score             int      `json:"score"`
	LevelID           string   `json:"level"`
	TotalBookings     int      `json:"total_bookings"`
	CompletedBookings int      `json:"completed_bookings"`
	AverageRating     *float64 `json:"average_rating,omitempty"`
	CountriesCount    int      `json:"countries_count"`
}

// Rank returns a new slice sorted into leaderboard order with rank numbers
// assigned from 1. The input is not mutated.
func Rank(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].CompletedBookings != ranked[j].CompletedBookings {
			return ranked[i].CompletedBookings > ranked[j].CompletedBookings
		}
		return ranked[i].WalletID < ranked[j].WalletID
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// RankOf returns the rank of a wallet in a ranked sequence, or false when the
// wallet is absent (e.g. it has no events).
func RankOf(walletID string, ranked []Entry) (int, bool) {
	for _, e := range ranked {
		if e.WalletID == walletID {
			return e.Rank, true
		}
	}
	return 0, false
}

// Top returns the first n entries of a ranked sequence without mutating it.
// n is clamped to [0, len(ranked)]; out-of-range values never error.
func Top(ranked []Entry, n int) []Entry {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]Entry, n)
	copy(out, ranked[:n])
	return out
}
