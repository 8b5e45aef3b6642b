package models

// SettledAmount is one settled ledger fact attributed to a user: either an
// approved direct payment or a penalty settled via an approved proof. The
// storage layer produces these from a single consistent snapshot and the
// leaderboard aggregator folds them into ranked entries.
type SettledAmount struct {
	UserID      string
	DisplayName string
	Amount      int64
}

// LeaderboardEntry is a derived ranking row. It is never stored.
type LeaderboardEntry struct {
	Rank        int
	UserID      string
	DisplayName string

	// TotalPaid is the sum of approved payments plus proof-settled
	// penalties for this user, in minor currency units.
	TotalPaid int64
}
