// Package registrar handles user enrollment: id assignment, persistence
// and QR badge generation.
package registrar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/okian/binsight/internal/adapters/repository"
	model "github.com/okian/binsight/internal/domain/model"
	"github.com/okian/binsight/pkg/logger"
	"github.com/okian/binsight/pkg/metrics"
)

const (
	userIDPrefix = "USR"
	qrSizePixels = 256
	qrDirPerm    = 0o750
)

// Registration is the outcome of a successful enrollment: the stored user
// plus the URL of their scannable badge.
type Registration struct {
	User      model.User `json:"user"`
	QRCodeURL string     `json:"qrCodeUrl"`
}

// Registrar enrolls users and writes their QR badges under qrDir.
type Registrar struct {
	store repository.Store
	qrDir string
	log   logger.Logger
	// newID is swappable for deterministic tests.
	newID func() string
}

// New creates a Registrar writing QR badges into qrDir. The directory is
// created on first use.
func New(store repository.Store, qrDir string, opts ...Option) *Registrar {
	r := &Registrar{
		store: store,
		qrDir: qrDir,
		log:   logger.Named("registrar"),
		newID: NewUserID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewUserID generates a kiosk user identifier: a fixed prefix plus a short
// uppercase slice of a random UUID.
func NewUserID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return userIDPrefix + strings.ToUpper(id[:8])
}

// Register validates and persists a new user, then renders their QR badge.
// All profile fields are required; validation errors wrap
// repository.ErrValidation.
func (r *Registrar) Register(ctx context.Context, user model.User) (Registration, error) {
	user.ID = r.newID()

	if err := r.store.AddUser(ctx, user); err != nil {
		return Registration{}, fmt.Errorf("register user: %w", err)
	}

	qrURL, err := r.writeBadge(user.ID)
	if err != nil {
		// The user is already enrolled; a missing badge only degrades
		// the kiosk flow to manual id entry.
		r.log.Error(ctx, "write qr badge", logger.String("user_id", user.ID), logger.Error(err))
		qrURL = ""
	}

	users, err := r.store.ListUsers(ctx)
	if err == nil {
		metrics.UpdateUsersTotal(len(users))
	}

	r.log.Info(ctx, "user registered",
		logger.String("user_id", user.ID),
		logger.String("name", user.Name))

	return Registration{User: user, QRCodeURL: qrURL}, nil
}

// writeBadge renders the user's id as a PNG under qrDir and returns the
// URL path the kiosk serves it from.
func (r *Registrar) writeBadge(userID string) (string, error) {
	if err := os.MkdirAll(r.qrDir, qrDirPerm); err != nil {
		return "", fmt.Errorf("create qr dir: %w", err)
	}

	file := filepath.Join(r.qrDir, userID+".png")
	if err := qrcode.WriteFile(userID, qrcode.Medium, qrSizePixels, file); err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "/static/qr/" + userID + ".png", nil
}
