package services

import "errors"

var (
	// ErrInsufficientCredits is returned before any mutation when a spend
	// exceeds the balance. It propagates to the caller — a purchase must be
	// rejected, not silently dropped.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrInvalidCode rejects malformed referral code input before any lookup.
	ErrInvalidCode = errors.New("invalid referral code")

	// ErrUpstreamUnavailable means the membership provider failed; badge
	// sync treats it as "no change this cycle" and never surfaces it.
	ErrUpstreamUnavailable = errors.New("membership provider unavailable")

	// ErrValidation wraps bad registration input so handlers can tell a
	// client mistake (400) apart from a genuine internal failure (500).
	ErrValidation = errors.New("invalid input")

	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSystemBadgeImmutable guards name/slug changes and deletion of
	// platform-defined badges through the admin surface.
	ErrSystemBadgeImmutable = errors.New("system badges cannot be renamed or deleted")
)
