package kiosksim

import "time"

// Config holds configuration for the kiosk simulation run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumUsers     int           // Number of users to register
	NumSessions  int           // Number of full sessions to run
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Session polling interval
	LogFile      string        // Log file for simulation output
	Verbose      bool          // Enable verbose logging
}

// user mirrors the registration response profile.
type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// registration mirrors POST /users responses.
type registration struct {
	User      user   `json:"user"`
	QRCodeURL string `json:"qrCodeUrl"`
}

// record mirrors one classification record.
type record struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	IsCorrect bool   `json:"isCorrect"`
	Points    int    `json:"points"`
}

// snapshot mirrors GET /session responses.
type snapshot struct {
	Phase          string  `json:"phase"`
	RemainingTicks int     `json:"remainingTicks"`
	Progress       float64 `json:"progress"`
	CurrentStep    string  `json:"currentStep"`
	LastRecord     *record `json:"lastRecord"`
}

// summary mirrors GET /stats responses.
type summary struct {
	TotalUsers          int `json:"total_users"`
	CorrectSegregations int `json:"correct_segregations"`
	RewardsGiven        int `json:"rewards_given"`
	FinesCollected      int `json:"fines_collected"`
}

// Session phases as reported by the service.
const (
	phaseIdle        = "idle"
	phaseResultReady = "result_ready"
)

// Stats holds simulation statistics.
type Stats struct {
	UsersRegistered   int
	SessionsStarted   int
	SessionsCompleted int
	SessionsFailed    int
	CorrectVerdicts   int
	TotalPoints       int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
