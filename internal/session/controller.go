// Package session implements the kiosk session lifecycle: a single-slot
// state machine driving user selection, timed recording, simulated
// processing and result display, always returning to idle.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/okian/binsight/internal/adapters/repository"
	"github.com/okian/binsight/internal/bus"
	"github.com/okian/binsight/internal/domain/classify"
	model "github.com/okian/binsight/internal/domain/model"
	"github.com/okian/binsight/pkg/logger"
	"github.com/okian/binsight/pkg/metrics"
)

// Phase identifies where the session currently is in its lifecycle.
type Phase string

const (
	// PhaseIdle means no session is active.
	PhaseIdle Phase = "idle"
	// PhaseAwaitingUser means a session has begun but the user has not
	// been resolved yet.
	PhaseAwaitingUser Phase = "awaiting_user"
	// PhaseRecording means the capture countdown is running.
	PhaseRecording Phase = "recording"
	// PhaseProcessing means the analysis pipeline is running; the session
	// can no longer be cancelled.
	PhaseProcessing Phase = "processing"
	// PhaseResultReady means the verdict is on display before the
	// automatic return to idle.
	PhaseResultReady Phase = "result_ready"
)

// Phases lists every phase in lifecycle order, for phase gauges.
func Phases() []string {
	return []string{
		string(PhaseIdle),
		string(PhaseAwaitingUser),
		string(PhaseRecording),
		string(PhaseProcessing),
		string(PhaseResultReady),
	}
}

// Step is one stage of the processing pipeline. Steps run strictly in
// order; each must finish before the next begins.
type Step struct {
	Name     string
	Duration time.Duration
}

// Default pipeline stages mirroring the remote analysis flow.
const (
	StepFrameExtraction = "frame_extraction"
	StepRemoteAnalysis  = "remote_analysis"
	StepClassification  = "classification"
)

// DefaultSteps returns the standard three-stage pipeline.
func DefaultSteps() []Step {
	return []Step{
		{Name: StepFrameExtraction, Duration: 2000 * time.Millisecond},
		{Name: StepRemoteAnalysis, Duration: 3000 * time.Millisecond},
		{Name: StepClassification, Duration: 2000 * time.Millisecond},
	}
}

// Snapshot is the externally visible session state. It is what the kiosk
// page polls and what the bus publishes on every transition.
type Snapshot struct {
	Phase          Phase         `json:"phase"`
	User           *model.User   `json:"user,omitempty"`
	RemainingTicks int           `json:"remainingTicks"`
	TotalTicks     int           `json:"totalTicks"`
	Progress       float64       `json:"progress"`
	CurrentStep    string        `json:"currentStep,omitempty"`
	LastRecord     *model.Record `json:"lastRecord,omitempty"`
	CaptureLive    bool          `json:"captureLive"`
}

// Controller is the session state machine. All commands and timer
// callbacks serialize on a single mutex, so at most one session exists and
// every transition observes a consistent state.
type Controller struct {
	mu          sync.Mutex
	phase       Phase
	user        *model.User
	remaining   int
	currentStep string
	lastRecord  *model.Record
	captureLive bool
	timer       Timer
	// generation invalidates timers scheduled by an earlier session; a
	// callback whose generation no longer matches is a no-op.
	generation uint64

	store   repository.Store
	sim     classify.Simulator
	events  *bus.Bus
	clock   Clock
	capture Capture
	log     logger.Logger
	rng     *rand.Rand

	totalTicks   int
	tickInterval time.Duration
	steps        []Step
	resultDelay  time.Duration
}

// New creates an idle Controller persisting into store and classifying
// through sim.
func New(store repository.Store, sim classify.Simulator, opts ...Option) *Controller {
	c := &Controller{
		phase:        PhaseIdle,
		store:        store,
		sim:          sim,
		clock:        realClock{},
		capture:      nopCapture{},
		log:          logger.Named("session"),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // record id suffix, not security sensitive
		totalTicks:   90,
		tickInterval: 100 * time.Millisecond,
		steps:        DefaultSteps(),
		resultDelay:  3000 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current visible state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Phase:          c.phase,
		User:           c.user,
		RemainingTicks: c.remaining,
		TotalTicks:     c.totalTicks,
		CurrentStep:    c.currentStep,
		LastRecord:     c.lastRecord,
		CaptureLive:    c.captureLive,
	}
	if c.phase == PhaseRecording && c.totalTicks > 0 {
		s.Progress = float64(c.totalTicks-c.remaining) / float64(c.totalTicks)
	}
	return s
}

// SelectUser begins a session for the given user id. Legal from idle or
// from awaiting-user (re-scan after a failed lookup). A failed lookup
// leaves the session awaiting a user and returns the lookup error.
func (c *Controller) SelectUser(ctx context.Context, id string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseIdle && c.phase != PhaseAwaitingUser {
		return c.snapshotLocked(), fmt.Errorf("select user in %s: %w", c.phase, ErrInvalidPhase)
	}

	c.phase = PhaseAwaitingUser
	user, err := c.store.FindUser(ctx, id)
	if err != nil {
		metrics.RecordLookupFailure()
		c.log.Warn(ctx, "user lookup failed", logger.String("user_id", id), logger.Error(err))
		c.publishLocked()
		return c.snapshotLocked(), fmt.Errorf("select user: %w", err)
	}

	c.user = &user
	c.publishLocked()
	return c.snapshotLocked(), nil
}

// StartRecording begins the capture countdown for the selected user. If the
// capture device cannot be acquired the countdown still runs with the feed
// marked as not live.
func (c *Controller) StartRecording(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseAwaitingUser {
		return c.snapshotLocked(), fmt.Errorf("start recording in %s: %w", c.phase, ErrInvalidPhase)
	}
	if c.user == nil {
		return c.snapshotLocked(), fmt.Errorf("start recording: %w", ErrNoUser)
	}

	c.captureLive = true
	if err := c.capture.Acquire(ctx); err != nil {
		c.captureLive = false
		metrics.RecordCaptureFallback()
		c.log.Warn(ctx, "capture unavailable, using placeholder feed", logger.Error(err))
	}

	c.phase = PhaseRecording
	c.remaining = c.totalTicks
	metrics.RecordSessionStarted()
	c.scheduleLocked(c.tickInterval, c.tick)
	c.publishLocked()
	return c.snapshotLocked(), nil
}

// StopRecording cancels the session before processing begins. During
// recording the countdown stops, nothing is persisted and the session
// returns to idle. After processing has started the session is committed
// and ErrNotCancellable is returned.
func (c *Controller) StopRecording(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhaseRecording:
		if c.captureLive {
			c.capture.Release()
		}
		metrics.RecordSessionCancelled()
		c.log.Info(ctx, "session cancelled",
			logger.String("user_id", c.user.ID),
			logger.Int("remaining_ticks", c.remaining))
		c.resetLocked()
		return c.snapshotLocked(), nil
	case PhaseAwaitingUser:
		c.resetLocked()
		return c.snapshotLocked(), nil
	case PhaseProcessing, PhaseResultReady:
		return c.snapshotLocked(), fmt.Errorf("stop in %s: %w", c.phase, ErrNotCancellable)
	default:
		return c.snapshotLocked(), fmt.Errorf("stop in %s: %w", c.phase, ErrInvalidPhase)
	}
}

// tick advances the recording countdown by one interval.
func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.phase != PhaseRecording {
		return
	}

	c.remaining--
	if c.remaining > 0 {
		c.scheduleLocked(c.tickInterval, c.tick)
		c.publishLocked()
		return
	}

	if c.captureLive {
		c.capture.Release()
	}
	c.phase = PhaseProcessing
	c.remaining = 0
	c.startStepLocked(0)
	c.publishLocked()
}

// startStepLocked enters pipeline step i and schedules its completion.
func (c *Controller) startStepLocked(i int) {
	step := c.steps[i]
	c.currentStep = step.Name
	c.scheduleLocked(step.Duration, func(gen uint64) {
		c.finishStep(gen, i)
	})
}

// finishStep records the completed step and either starts the next one or
// finalizes the session.
func (c *Controller) finishStep(gen uint64, i int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.phase != PhaseProcessing {
		return
	}

	metrics.RecordProcessingStepDuration(c.steps[i].Name, float64(c.steps[i].Duration.Milliseconds()))

	if i+1 < len(c.steps) {
		c.startStepLocked(i + 1)
		c.publishLocked()
		return
	}
	c.finalizeLocked()
}

// finalizeLocked runs the classifier exactly once, persists the record and
// moves to result display.
func (c *Controller) finalizeLocked() {
	outcome, err := c.sim.Simulate(context.Background())
	if err != nil {
		// Classification is simulated and cannot fail under normal
		// operation; log and abandon the session rather than wedge.
		c.log.Error(context.Background(), "classification failed", logger.Error(err))
		c.resetLocked()
		c.publishLocked()
		return
	}

	record := model.Record{
		ID:            c.newRecordID(),
		UserID:        c.user.ID,
		UserName:      c.user.Name,
		Timestamp:     c.clock.Now(),
		DetectedItems: outcome.DetectedItems,
		IsCorrect:     outcome.IsCorrect,
		Points:        outcome.Points,
	}

	if err := c.store.AddRecord(context.Background(), record); err != nil {
		// The verdict is still shown; only persistence failed.
		c.log.Error(context.Background(), "store record", logger.String("record_id", record.ID), logger.Error(err))
	} else {
		metrics.RecordWritten(record.IsCorrect, record.Points)
	}
	metrics.RecordSessionCompleted()

	c.phase = PhaseResultReady
	c.currentStep = ""
	c.lastRecord = &record
	c.log.Info(context.Background(), "session completed",
		logger.String("record_id", record.ID),
		logger.String("user_id", record.UserID),
		logger.Bool("correct", record.IsCorrect),
		logger.Int("points", record.Points))

	c.scheduleLocked(c.resultDelay, func(gen uint64) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation || c.phase != PhaseResultReady {
			return
		}
		c.resetLocked()
		c.publishLocked()
	})
	c.publishLocked()
}

// resetLocked returns the machine to idle, clearing all per-session state
// and invalidating any pending timers.
func (c *Controller) resetLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.phase = PhaseIdle
	c.user = nil
	c.remaining = 0
	c.currentStep = ""
	c.lastRecord = nil
	c.captureLive = false
}

// scheduleLocked arms the session timer with a callback bound to the
// current generation.
func (c *Controller) scheduleLocked(d time.Duration, f func(gen uint64)) {
	gen := c.generation
	c.timer = c.clock.AfterFunc(d, func() { f(gen) })
}

// publishLocked emits the current snapshot on the session bus and updates
// the phase gauge. Publish failures are logged, never fatal; observers are
// best-effort.
func (c *Controller) publishLocked() {
	metrics.UpdateSessionPhase(string(c.phase), Phases())
	if c.events == nil {
		return
	}
	payload, err := json.Marshal(c.snapshotLocked())
	if err != nil {
		c.log.Error(context.Background(), "marshal snapshot", logger.Error(err))
		return
	}
	if err := c.events.Publish(bus.SessionStateTopic, payload); err != nil {
		c.log.Error(context.Background(), "publish snapshot", logger.Error(err))
	}
}

// Subscribe invokes handler for every snapshot the controller publishes,
// until ctx is cancelled.
func (c *Controller) Subscribe(ctx context.Context, handler func(Snapshot)) error {
	if c.events == nil {
		return fmt.Errorf("subscribe: no event bus configured")
	}
	return c.events.Subscribe(ctx, bus.SessionStateTopic, func(payload []byte) {
		var snap Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			c.log.Error(ctx, "decode snapshot", logger.Error(err))
			return
		}
		handler(snap)
	})
}

const recordIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newRecordID builds a record identifier from the current timestamp plus a
// short random base36 suffix, uppercased.
func (c *Controller) newRecordID() string {
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = recordIDAlphabet[c.rng.Intn(len(recordIDAlphabet))]
	}
	return strings.ToUpper(fmt.Sprintf("RES%d%s", c.clock.Now().UnixMilli(), suffix))
}
