package sqlite

import (
	"context"
	"fmt"

	"github.com/penaltybox/penaltybox/internal/models"
)

// SettledAmounts returns every settled ledger fact: approved direct
// payments plus penalties settled via an approved proof. A penalty only
// reaches PAID through proof approval, so its status alone identifies the
// settled set. The UNION ALL runs as a single statement, which gives the
// aggregator the consistent snapshot it requires.
func (s *SQLiteStore) SettledAmounts(ctx context.Context) ([]models.SettledAmount, error) {
	query := `
		SELECT u.id, u.display_name, p.amount
		FROM payments p
		JOIN users u ON u.id = p.user_id
		WHERE p.status = ?
		UNION ALL
		SELECT u.id, u.display_name, pen.amount
		FROM penalties pen
		JOIN users u ON u.id = pen.user_id
		WHERE pen.status = ?
	`

	rows, err := s.db.QueryContext(ctx, query,
		models.PaymentApproved, models.PenaltyPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled amounts: %w", err)
	}
	defer rows.Close()

	var amounts []models.SettledAmount
	for rows.Next() {
		var a models.SettledAmount
		if err := rows.Scan(&a.UserID, &a.DisplayName, &a.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan settled amount: %w", err)
		}
		amounts = append(amounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settled amounts: %w", err)
	}

	return amounts, nil
}
