package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

const subscriptionColumns = `id, email, is_active, unsubscribe_token, subscribed_at`

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.Email, &sub.IsActive, &sub.UnsubscribeToken, &sub.SubscribedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Subscribe creates or reactivates the subscription of email inside one
// transaction. A concurrent insert of the same address surfaces as
// storage.ErrAlreadySubscribed.
func (s *Storage) Subscribe(ctx context.Context, email, token string) (*models.Subscription, bool, error) {
	const op = "storage.repository.Subscribe"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		sub   *models.Subscription
		isNew bool
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var (
			id       int
			isActive bool
		)
		err := tx.QueryRowContext(ctx,
			s.q(`SELECT id, is_active FROM email_subscriptions WHERE email = $1`)+s.forUpdate(),
			email).Scan(&id, &isActive)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx, s.q(`INSERT INTO email_subscriptions
				(email, is_active, unsubscribe_token, subscribed_at)
				VALUES ($1, $2, $3, $4)`), email, true, token, s.now().UTC())
			if err != nil {
				return err
			}
			isNew = true
		case err != nil:
			return err
		case isActive:
			return storage.ErrAlreadySubscribed
		default:
			_, err = tx.ExecContext(ctx, s.q(`UPDATE email_subscriptions
				SET is_active = $1, unsubscribe_token = $2 WHERE id = $3`), true, token, id)
			if err != nil {
				return err
			}
		}

		sub, err = scanSubscription(tx.QueryRowContext(ctx,
			s.q(`SELECT `+subscriptionColumns+` FROM email_subscriptions WHERE email = $1`), email))
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			err = storage.ErrAlreadySubscribed
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return sub, isNew, nil
}

// ListActiveEmails returns the addresses of active subscriptions in
// subscription order.
func (s *Storage) ListActiveEmails(ctx context.Context) ([]string, error) {
	const op = "storage.repository.ListActiveEmails"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		s.q(`SELECT email FROM email_subscriptions WHERE is_active = $1 ORDER BY id`), true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return emails, nil
}

// UnsubscribeByToken deactivates the active subscription holding token.
func (s *Storage) UnsubscribeByToken(ctx context.Context, token string) (*models.Subscription, error) {
	const op = "storage.repository.UnsubscribeByToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if token == "" {
		return nil, fmt.Errorf("%s: empty token: %w", op, storage.ErrNotFound)
	}

	var sub *models.Subscription
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		sub, err = scanSubscription(tx.QueryRowContext(ctx,
			s.q(`SELECT `+subscriptionColumns+` FROM email_subscriptions
				WHERE unsubscribe_token = $1 AND is_active = $2`)+s.forUpdate(), token, true))
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, s.q(`UPDATE email_subscriptions SET is_active = $1 WHERE id = $2`), false, sub.ID)
		if err != nil {
			return err
		}
		sub.IsActive = false
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// RefreshToken stores token for an active email; inactive or unknown
// addresses are left untouched.
func (s *Storage) RefreshToken(ctx context.Context, email, token string) error {
	const op = "storage.repository.RefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx, s.q(`UPDATE email_subscriptions
		SET unsubscribe_token = $1 WHERE email = $2 AND is_active = $3`), token, email, true)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SubscriptionStats counts the subscriptions by state.
func (s *Storage) SubscriptionStats(ctx context.Context) (models.SubscriptionStats, error) {
	const op = "storage.repository.SubscriptionStats"
	select {
	case <-ctx.Done():
		return models.SubscriptionStats{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var stats models.SubscriptionStats
	err := s.DB.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0)
		FROM email_subscriptions`).Scan(&stats.TotalSubscriptions, &stats.ActiveSubscriptions)
	if err != nil {
		return models.SubscriptionStats{}, fmt.Errorf("%s: %w", op, err)
	}
	stats.InactiveSubscriptions = stats.TotalSubscriptions - stats.ActiveSubscriptions
	return stats, nil
}
