// Package leaderboard derives the settled-amount ranking from ledger
// facts. It is a read-only projection: nothing here mutates the store.
package leaderboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/penaltybox/penaltybox/internal/models"
)

// SnapshotSource yields settled ledger facts from one consistent
// snapshot. Implemented by the storage layer.
type SnapshotSource interface {
	SettledAmounts(ctx context.Context) ([]models.SettledAmount, error)
}

// Aggregator computes leaderboards over a snapshot source.
type Aggregator struct {
	source SnapshotSource
}

// NewAggregator creates a leaderboard aggregator over the given source.
func NewAggregator(source SnapshotSource) *Aggregator {
	return &Aggregator{source: source}
}

// Compute ranks users by total settled amount: the sum of their approved
// direct payments plus penalties settled via an approved proof. Declined
// and pending entries never count. Ordering is total descending with ties
// broken by ascending user id, so repeated calls over the same ledger
// produce the same sequence.
func (a *Aggregator) Compute(ctx context.Context) ([]models.LeaderboardEntry, error) {
	amounts, err := a.source.SettledAmounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled amounts: %w", err)
	}

	return Rank(amounts), nil
}

// Rank folds settled amounts into ordered leaderboard entries. Split out
// as a pure function so ordering rules are testable without a store.
func Rank(amounts []models.SettledAmount) []models.LeaderboardEntry {
	totals := make(map[string]*models.LeaderboardEntry)
	for _, a := range amounts {
		entry, ok := totals[a.UserID]
		if !ok {
			entry = &models.LeaderboardEntry{
				UserID:      a.UserID,
				DisplayName: a.DisplayName,
			}
			totals[a.UserID] = entry
		}
		entry.TotalPaid += a.Amount
	}

	entries := make([]models.LeaderboardEntry, 0, len(totals))
	for _, entry := range totals {
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPaid != entries[j].TotalPaid {
			return entries[i].TotalPaid > entries[j].TotalPaid
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
