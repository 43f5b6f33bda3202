package jsonfile

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

// Subscribe creates or reactivates the subscription of email.
func (s *Storage) Subscribe(ctx context.Context, email, token string) (*models.Subscription, bool, error) {
	const op = "storage.jsonfile.Subscribe"

	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc subscriptionsDoc
	if err := s.load(SubscriptionsFile, &doc, s.defaultSubscriptions); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var (
		sub   models.Subscription
		isNew bool
	)
	if idx := findByEmail(doc.Subscriptions, email); idx >= 0 {
		if doc.Subscriptions[idx].IsActive {
			return nil, false, fmt.Errorf("%s: %w", op, storage.ErrAlreadySubscribed)
		}
		doc.Subscriptions[idx].IsActive = true
		doc.Subscriptions[idx].UnsubscribeToken = token
		sub = doc.Subscriptions[idx]
	} else {
		sub = models.Subscription{
			ID:               nextID(doc.Subscriptions),
			Email:            email,
			IsActive:         true,
			UnsubscribeToken: token,
			SubscribedAt:     s.now().UTC(),
		}
		doc.Subscriptions = append(doc.Subscriptions, sub)
		isNew = true
	}

	if err := s.saveSubscriptions(&doc); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, isNew, nil
}

// ListActiveEmails returns the addresses of active subscriptions in
// subscription order.
func (s *Storage) ListActiveEmails(ctx context.Context) ([]string, error) {
	const op = "storage.jsonfile.ListActiveEmails"

	doc, err := s.subscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	emails := make([]string, 0, len(doc.Subscriptions))
	for _, sub := range doc.Subscriptions {
		if sub.IsActive {
			emails = append(emails, sub.Email)
		}
	}
	return emails, nil
}

// UnsubscribeByToken deactivates the active subscription holding token.
func (s *Storage) UnsubscribeByToken(ctx context.Context, token string) (*models.Subscription, error) {
	const op = "storage.jsonfile.UnsubscribeByToken"

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if token == "" {
		return nil, fmt.Errorf("%s: empty token: %w", op, storage.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc subscriptionsDoc
	if err := s.load(SubscriptionsFile, &doc, s.defaultSubscriptions); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range doc.Subscriptions {
		if doc.Subscriptions[i].IsActive && doc.Subscriptions[i].UnsubscribeToken == token {
			doc.Subscriptions[i].IsActive = false
			if err := s.saveSubscriptions(&doc); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			sub := doc.Subscriptions[i]
			return &sub, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// RefreshToken stores token for an active email; inactive or unknown
// addresses are left untouched.
func (s *Storage) RefreshToken(ctx context.Context, email, token string) error {
	const op = "storage.jsonfile.RefreshToken"

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc subscriptionsDoc
	if err := s.load(SubscriptionsFile, &doc, s.defaultSubscriptions); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	idx := findByEmail(doc.Subscriptions, email)
	if idx < 0 || !doc.Subscriptions[idx].IsActive {
		return nil
	}
	doc.Subscriptions[idx].UnsubscribeToken = token
	if err := s.saveSubscriptions(&doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SubscriptionStats counts the subscriptions by state.
func (s *Storage) SubscriptionStats(ctx context.Context) (models.SubscriptionStats, error) {
	const op = "storage.jsonfile.SubscriptionStats"

	doc, err := s.subscriptions(ctx)
	if err != nil {
		return models.SubscriptionStats{}, fmt.Errorf("%s: %w", op, err)
	}
	var stats models.SubscriptionStats
	for _, sub := range doc.Subscriptions {
		if sub.IsActive {
			stats.ActiveSubscriptions++
		} else {
			stats.InactiveSubscriptions++
		}
	}
	stats.TotalSubscriptions = len(doc.Subscriptions)
	return stats, nil
}

func (s *Storage) subscriptions(ctx context.Context) (*subscriptionsDoc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc subscriptionsDoc
	if err := s.load(SubscriptionsFile, &doc, s.defaultSubscriptions); err != nil {
		return nil, err
	}
	return &doc, nil
}

// saveSubscriptions refreshes the document counters and writes it.
// Caller must hold s.mu.
func (s *Storage) saveSubscriptions(doc *subscriptionsDoc) error {
	active := 0
	for _, sub := range doc.Subscriptions {
		if sub.IsActive {
			active++
		}
	}
	doc.Metadata.TotalSubscriptions = len(doc.Subscriptions)
	doc.Metadata.ActiveSubscriptions = active
	doc.Metadata.LastUpdated = s.now().UTC()
	if doc.Metadata.Version == "" {
		doc.Metadata.Version = version
	}
	return s.write(SubscriptionsFile, doc)
}

func findByEmail(subs []models.Subscription, email string) int {
	for i := range subs {
		if subs[i].Email == email {
			return i
		}
	}
	return -1
}

func nextID(subs []models.Subscription) int {
	maxID := 0
	for _, sub := range subs {
		if sub.ID > maxID {
			maxID = sub.ID
		}
	}
	return maxID + 1
}
