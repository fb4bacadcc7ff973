// Package kiosksim drives a live kiosk service through full registration
// and session flows, then verifies the service's bookkeeping.
package kiosksim

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/okian/binsight/pkg/logger"
)

// sessionDeadline bounds one full session including processing and result
// display, independent of the HTTP timeout.
const sessionDeadline = 2 * time.Minute

// Run executes the complete kiosk simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting kiosk simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", config.NumUsers),
		logger.Int("sessions", config.NumSessions),
		logger.Duration("timeout", config.Timeout))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}
	log.Println("✅ Service is healthy")

	users, err := registerUsers(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("user registration failed: %w", err)
	}

	if err := runSessions(ctx, config, users, stats); err != nil {
		return fmt.Errorf("session run failed: %w", err)
	}

	if err := verifyBookkeeping(ctx, config, stats); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)
	return nil
}

// registerUsers enrolls the configured number of users.
func registerUsers(ctx context.Context, config *Config, stats *Stats) ([]user, error) {
	log.Printf("📇 Registering %d users...", config.NumUsers)
	client := newHTTPClient(config.Timeout)

	users := make([]user, 0, config.NumUsers)
	for i := 0; i < config.NumUsers; i++ {
		profile := map[string]string{
			"name":    fmt.Sprintf("Sim User %03d", i+1),
			"phone":   fmt.Sprintf("55501%04d", i+1),
			"email":   fmt.Sprintf("sim%03d@example.com", i+1),
			"address": fmt.Sprintf("%d Simulation Street", i+1),
		}

		var out registration
		if err := client.postJSON(ctx, config.BaseURL+"/users", profile, &out); err != nil {
			return nil, fmt.Errorf("register user %d: %w", i+1, err)
		}
		users = append(users, out.User)
		stats.UsersRegistered++

		if config.Verbose {
			log.Printf("  registered %s (%s)", out.User.Name, out.User.ID)
		}
	}

	log.Printf("✅ Registered %d users", stats.UsersRegistered)
	return users, nil
}

// runSessions drives full sessions round-robin over the registered users.
// The kiosk holds one session at a time, so sessions run sequentially.
func runSessions(ctx context.Context, config *Config, users []user, stats *Stats) error {
	log.Printf("🎬 Running %d sessions...", config.NumSessions)
	client := newHTTPClient(config.Timeout)

	for i := 0; i < config.NumSessions; i++ {
		u := users[i%len(users)]
		if err := runOneSession(ctx, config, client, u, stats); err != nil {
			stats.SessionsFailed++
			log.Printf("⚠️  session %d (%s) failed: %v", i+1, u.ID, err)
			continue
		}
		if config.Verbose {
			log.Printf("  session %d complete for %s", i+1, u.Name)
		}
	}

	log.Printf("✅ Completed %d/%d sessions", stats.SessionsCompleted, config.NumSessions)
	return nil
}

// runOneSession takes one user through select, record, result and the
// return to idle.
func runOneSession(ctx context.Context, config *Config, client *httpClient, u user, stats *Stats) error {
	ctx, cancel := context.WithTimeout(ctx, sessionDeadline)
	defer cancel()

	if err := client.postJSON(ctx, config.BaseURL+"/session/select", map[string]string{"userId": u.ID}, nil); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	if err := client.postJSON(ctx, config.BaseURL+"/session/record", nil, nil); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	stats.SessionsStarted++

	result, err := awaitPhase(ctx, config, client, phaseResultReady)
	if err != nil {
		return fmt.Errorf("await result: %w", err)
	}
	if result.LastRecord == nil {
		return fmt.Errorf("result ready without a record")
	}

	stats.SessionsCompleted++
	stats.TotalPoints += result.LastRecord.Points
	if result.LastRecord.IsCorrect {
		stats.CorrectVerdicts++
	}

	if _, err := awaitPhase(ctx, config, client, phaseIdle); err != nil {
		return fmt.Errorf("await idle: %w", err)
	}
	return nil
}

// awaitPhase polls GET /session until the wanted phase appears.
func awaitPhase(ctx context.Context, config *Config, client *httpClient, phase string) (snapshot, error) {
	ticker := time.NewTicker(config.PollInterval)
	defer ticker.Stop()

	for {
		var snap snapshot
		if err := client.getJSON(ctx, config.BaseURL+"/session", &snap); err != nil {
			return snapshot{}, err
		}
		if snap.Phase == phase {
			return snap, nil
		}

		select {
		case <-ctx.Done():
			return snapshot{}, fmt.Errorf("waiting for phase %s: %w", phase, ctx.Err())
		case <-ticker.C:
		}
	}
}

// verifyBookkeeping cross-checks the service's stats and records against
// what the simulation observed.
func verifyBookkeeping(ctx context.Context, config *Config, stats *Stats) error {
	log.Println("🔍 Verifying bookkeeping...")
	client := newHTTPClient(config.Timeout)

	var sum summary
	if err := client.getJSON(ctx, config.BaseURL+"/stats", &sum); err != nil {
		return fmt.Errorf("fetch stats: %w", err)
	}
	var records []record
	if err := client.getJSON(ctx, config.BaseURL+"/records", &records); err != nil {
		return fmt.Errorf("fetch records: %w", err)
	}

	if sum.TotalUsers != stats.UsersRegistered {
		return fmt.Errorf("user count mismatch: service %d, simulated %d", sum.TotalUsers, stats.UsersRegistered)
	}
	if len(records) != stats.SessionsCompleted {
		return fmt.Errorf("record count mismatch: service %d, completed %d", len(records), stats.SessionsCompleted)
	}
	if sum.CorrectSegregations != stats.CorrectVerdicts {
		return fmt.Errorf("correct count mismatch: service %d, observed %d", sum.CorrectSegregations, stats.CorrectVerdicts)
	}
	if sum.RewardsGiven-sum.FinesCollected != stats.TotalPoints {
		return fmt.Errorf("points mismatch: service net %d, observed %d",
			sum.RewardsGiven-sum.FinesCollected, stats.TotalPoints)
	}

	for _, r := range records {
		if (r.Points > 0) != r.IsCorrect {
			return fmt.Errorf("record %s violates the points sign rule", r.ID)
		}
	}

	log.Println("✅ Bookkeeping verified")
	return nil
}

// displayFinalStats prints the simulation summary.
func displayFinalStats(stats *Stats) {
	log.Println("📊 Simulation summary")
	log.Printf("  users registered:   %d", stats.UsersRegistered)
	log.Printf("  sessions started:   %d", stats.SessionsStarted)
	log.Printf("  sessions completed: %d", stats.SessionsCompleted)
	log.Printf("  sessions failed:    %d", stats.SessionsFailed)
	log.Printf("  correct verdicts:   %d", stats.CorrectVerdicts)
	log.Printf("  net points:         %d", stats.TotalPoints)
	log.Printf("  duration:           %s", stats.Duration)
}
