// Package model contains domain models passed between layers.
package model

import "time"

// WasteCategory is one of the three kiosk bin categories.
type WasteCategory string

// Waste categories recognized by the kiosk.
const (
	DryWaste               WasteCategory = "Dry Waste"
	WetWaste               WasteCategory = "Wet Waste"
	DomesticHazardousWaste WasteCategory = "Domestic Hazardous Waste"
)

// User is a registered kiosk user. Immutable once created.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// DetectedItem is a single detection within a record. Ephemeral; it exists
// only inside a Record.
type DetectedItem struct {
	Item       string        `json:"item"`
	Category   WasteCategory `json:"category"`
	Confidence float64       `json:"confidence"`
}

// Outcome is the simulator's contribution to a record: what was detected and
// whether the segregation was judged correct.
type Outcome struct {
	DetectedItems []DetectedItem
	IsCorrect     bool
	Points        int
}

// Record is one finalized outcome of a scan-record-classify session.
// Invariant: Points > 0 exactly when IsCorrect.
type Record struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	UserName      string         `json:"userName"`
	Timestamp     time.Time      `json:"timestamp"`
	DetectedItems []DetectedItem `json:"detectedItems"`
	IsCorrect     bool           `json:"isCorrect"`
	Points        int            `json:"points"`
}

// Credentials configure the remote vision service. Only the two key fields
// are required.
type Credentials struct {
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
}

// Summary holds the aggregated statistics derived from users and records.
// Never persisted; recomputed on demand.
type Summary struct {
	TotalUsers          int `json:"total_users"`
	CorrectSegregations int `json:"correct_segregations"`
	RewardsGiven        int `json:"rewards_given"`
	FinesCollected      int `json:"fines_collected"`
}
