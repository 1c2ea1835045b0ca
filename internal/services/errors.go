// Package services implements the domain operations on the organization
// aggregate: credential auth, whole-document replacement, emotion engagement
// analytics, consultancy chats and the special-consideration workflow.
package services

import (
	"errors"

	"github.com/workmood/workmood-backend/database"
)

// Error taxonomy surfaced to the handlers. NotFound and NotModified come
// straight from the store; validation failures are raised here. External
// service failures in the conversation path never surface as errors, they
// are absorbed into fallback replies.
var (
	ErrNotFound    = database.ErrNotFound
	ErrNotModified = database.ErrNotModified
	ErrValidation  = errors.New("validation failed")
)
