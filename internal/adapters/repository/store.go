// Package repository defines the record store interface and errors.
package repository

import (
	"context"

	model "github.com/okian/binsight/internal/domain/model"
)

// Store provides access to the persisted kiosk state: registered users,
// classification records and remote-service credentials.
//
// Users and records are independently persisted collections; no consistency
// is guaranteed across them. Records are ordered most-recent-first.
type Store interface {
	// AddUser appends a registered user. Returns ErrValidation if any
	// required field is empty.
	AddUser(ctx context.Context, user model.User) error

	// FindUser returns the user with the given id.
	// Returns ErrUserNotFound if the id is unknown.
	FindUser(ctx context.Context, id string) (model.User, error)

	// ListUsers returns all registered users in insertion order.
	ListUsers(ctx context.Context) ([]model.User, error)

	// AddRecord inserts a record at the head of the record sequence.
	AddRecord(ctx context.Context, record model.Record) error

	// ListRecords returns all records, most recent insert first.
	ListRecords(ctx context.Context) ([]model.Record, error)

	// SaveCredentials stores remote-service credentials. Returns
	// ErrValidation when either key field is empty.
	SaveCredentials(ctx context.Context, creds model.Credentials) error

	// Credentials returns the stored credentials.
	// Returns ErrCredentialsNotSet when none were saved.
	Credentials(ctx context.Context) (model.Credentials, error)
}
