package models

import "time"

// Subscription is one email address on the mailing list.
type Subscription struct {
	ID               int       `json:"id"`
	Email            string    `json:"email"`
	IsActive         bool      `json:"is_active"`
	UnsubscribeToken string    `json:"unsubscribe_token"`
	SubscribedAt     time.Time `json:"subscribed_at"`
}

// SubscriptionStats summarises the mailing list.
type SubscriptionStats struct {
	ActiveSubscriptions   int `json:"activeSubscriptions"`
	TotalSubscriptions    int `json:"totalSubscriptions"`
	InactiveSubscriptions int `json:"inactiveSubscriptions"`
}

// DummySubscribe receives the POST /api/emails/subscribe body.
type DummySubscribe struct {
	Email string `json:"email" validate:"required,contains=@"`
}
