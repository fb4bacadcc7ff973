package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	kv "github.com/okian/binsight/internal/adapters/kv"
	model "github.com/okian/binsight/internal/domain/model"
	"github.com/okian/binsight/pkg/logger"
	"github.com/okian/binsight/pkg/metrics"
)

// Persisted collection keys.
const (
	usersKey       = "waste_users"
	recordsKey     = "waste_results"
	credentialsKey = "vision_settings"
)

// KVStore implements Store on an opaque key-value backend, serializing each
// collection as one JSON document. A mutex covers read-modify-write cycles;
// the single-session flow is the only writer, but listing endpoints read
// concurrently.
type KVStore struct {
	mu      sync.Mutex
	backend kv.Store
}

// NewKVStore creates a record store over the given key-value backend.
func NewKVStore(backend kv.Store) *KVStore {
	return &KVStore{backend: backend}
}

// AddUser appends a registered user after validating required fields.
func (s *KVStore) AddUser(ctx context.Context, user model.User) error {
	if err := validateUser(user); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	users := s.loadUsers(ctx)
	users = append(users, user)
	if err := s.save(ctx, usersKey, users); err != nil {
		return err
	}
	metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateUsersTotal(len(users))
	return nil
}

// FindUser returns the user with the given id, or ErrUserNotFound.
func (s *KVStore) FindUser(ctx context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.loadUsers(ctx) {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
}

// ListUsers returns all registered users in insertion order.
func (s *KVStore) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	users := s.loadUsers(ctx)
	metrics.RecordStoreReadLatency(float64(time.Since(start).Milliseconds()))
	return users, nil
}

// AddRecord inserts a record at the head of the record sequence.
func (s *KVStore) AddRecord(ctx context.Context, record model.Record) error {
	if (record.Points > 0) != record.IsCorrect {
		return fmt.Errorf("%w: points=%d isCorrect=%v", ErrInvalidRecord, record.Points, record.IsCorrect)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	records := s.loadRecords(ctx)
	records = append([]model.Record{record}, records...)
	if err := s.save(ctx, recordsKey, records); err != nil {
		return err
	}
	metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateStoredRecords(len(records))
	return nil
}

// ListRecords returns all records, most recent insert first.
func (s *KVStore) ListRecords(ctx context.Context) ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	records := s.loadRecords(ctx)
	metrics.RecordStoreReadLatency(float64(time.Since(start).Milliseconds()))
	return records, nil
}

// SaveCredentials stores remote-service credentials after presence checks on
// the two key fields.
func (s *KVStore) SaveCredentials(ctx context.Context, creds model.Credentials) error {
	if creds.AccessKey == "" || creds.SecretKey == "" {
		return fmt.Errorf("%w: access and secret keys are required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, credentialsKey, creds)
}

// Credentials returns the stored credentials, or ErrCredentialsNotSet.
func (s *KVStore) Credentials(ctx context.Context) (model.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.backend.Get(ctx, credentialsKey)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return model.Credentials{}, ErrCredentialsNotSet
		}
		return model.Credentials{}, err
	}

	var creds model.Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		// Unparsable stored state reads as absent.
		logger.Get().Warn(ctx, "stored credentials unparsable; treating as unset", logger.Error(err))
		return model.Credentials{}, ErrCredentialsNotSet
	}
	if creds.AccessKey == "" || creds.SecretKey == "" {
		return model.Credentials{}, ErrCredentialsNotSet
	}
	return creds, nil
}

// validateUser rejects users with any empty required field.
func validateUser(user model.User) error {
	switch {
	case user.Name == "":
		return fmt.Errorf("%w: name", ErrValidation)
	case user.Phone == "":
		return fmt.Errorf("%w: phone", ErrValidation)
	case user.Email == "":
		return fmt.Errorf("%w: email", ErrValidation)
	case user.Address == "":
		return fmt.Errorf("%w: address", ErrValidation)
	}
	return nil
}

// loadUsers reads the user collection; unparsable or absent state reads as
// an empty collection.
func (s *KVStore) loadUsers(ctx context.Context) []model.User {
	var users []model.User
	s.load(ctx, usersKey, &users)
	return users
}

// loadRecords reads the record collection; unparsable or absent state reads
// as an empty collection.
func (s *KVStore) loadRecords(ctx context.Context) []model.Record {
	var records []model.Record
	s.load(ctx, recordsKey, &records)
	return records
}

// load unmarshals the JSON document stored under key into dst. Missing keys
// and corrupt documents leave dst at its zero value.
func (s *KVStore) load(ctx context.Context, key string, dst any) {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			logger.Get().Warn(ctx, "key-value read failed; treating collection as empty",
				logger.String("key", key), logger.Error(err))
		}
		return
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logger.Get().Warn(ctx, "stored collection unparsable; treating as empty",
			logger.String("key", key), logger.Error(err))
	}
}

// save marshals v and writes it under key.
func (s *KVStore) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}
