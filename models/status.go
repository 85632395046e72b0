package models

import (
	"errors"
	"fmt"
)

// RFQ statuses, in lifecycle order.
const (
	RFQStatusDraft  = "draft"
	RFQStatusSent   = "sent"
	RFQStatusQuoted = "quoted"
	RFQStatusClosed = "closed"
)

// Quote statuses
const (
	QuoteStatusPending  = "pending"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

// Send statuses
const (
	SendStatusSent      = "sent"
	SendStatusDelivered = "delivered"
	SendStatusRead      = "read"
	SendStatusError     = "error"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown status")
)

var rfqRank = map[string]int{
	RFQStatusDraft:  0,
	RFQStatusSent:   1,
	RFQStatusQuoted: 2,
	RFQStatusClosed: 3,
}

// ValidRFQStatus reports whether s is a known RFQ status.
func ValidRFQStatus(s string) bool {
	_, ok := rfqRank[s]
	return ok
}

// CanAdvance checks that an RFQ may move from one status to another.
// Staying put is allowed, going backwards is not.
func CanAdvance(from, to string) error {
	f, ok := rfqRank[from]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	t, ok := rfqRank[to]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if t < f {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// IsBehind reports whether current is strictly before target in the lifecycle.
func IsBehind(current, target string) bool {
	c, ok1 := rfqRank[current]
	t, ok2 := rfqRank[target]
	return ok1 && ok2 && c < t
}

// CanDecideQuote checks the one-way move of a quote away from pending.
func CanDecideQuote(from, to string) error {
	if to != QuoteStatusAccepted && to != QuoteStatusRejected {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if from != QuoteStatusPending {
		return fmt.Errorf("%w: quote already %s", ErrInvalidTransition, from)
	}
	return nil
}

// ValidSendStatus reports whether s is a known delivery status.
func ValidSendStatus(s string) bool {
	switch s {
	case SendStatusSent, SendStatusDelivered, SendStatusRead, SendStatusError:
		return true
	}
	return false
}
