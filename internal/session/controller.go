package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"prepai/internal/config"
	"prepai/internal/logging"
	"prepai/internal/media"
	"prepai/internal/notifications"
	"prepai/internal/resume"
	"prepai/internal/scoring"
	"prepai/internal/services"
)

// TickerFunc returns a channel ticking every d and a function that stops it.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Option configures optional Controller collaborators.
type Option func(*Controller)

// WithFrameSource sets the camera. Without one the camera is off.
func WithFrameSource(src media.FrameSource) Option {
	return func(c *Controller) { c.frames = src }
}

// WithMicrophone sets the microphone used for recording answers.
func WithMicrophone(mic media.Microphone) Option {
	return func(c *Controller) { c.mic = mic }
}

// WithSpeaker sets the question speaker.
func WithSpeaker(s media.Speaker) Option {
	return func(c *Controller) { c.speaker = s }
}

// WithResumeParser overrides the parser used by UploadResume.
func WithResumeParser(p resume.Parser) Option {
	return func(c *Controller) { c.parser = p }
}

// WithNotifier sets the operator notifier used by finalization.
func WithNotifier(n notifications.Service) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithUpdateHook registers fn to receive a snapshot after every state
// change. fn runs on the controller goroutine and must not call back into
// the controller.
func WithUpdateHook(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onUpdate = fn }
}

// WithCompletionHook registers fn to run once persistence has settled.
func WithCompletionHook(fn func(Outcome)) Option {
	return func(c *Controller) { c.onComplete = fn }
}

// WithClockTicks replaces the one-second session clock ticker.
func WithClockTicks(fn TickerFunc) Option {
	return func(c *Controller) { c.clockTicks = fn }
}

// WithFrameTicks replaces the frame pump ticker.
func WithFrameTicks(fn TickerFunc) Option {
	return func(c *Controller) { c.frameTicks = fn }
}

// Controller runs one session. All fields below the inbox are owned by the
// controller goroutine.
type Controller struct {
	cfg       *config.Config
	logger    *slog.Logger
	sessionID string
	userID    string
	streams   Streams
	persister Persister

	frames     media.FrameSource
	mic        media.Microphone
	speaker    media.Speaker
	parser     resume.Parser
	notifier   notifications.Service
	finalizer  *Finalizer
	onUpdate   func(Snapshot)
	onComplete func(Outcome)
	clockTicks TickerFunc
	frameTicks TickerFunc

	framesSent    atomic.Int64
	framesDropped atomic.Int64

	startOnce sync.Once
	started   atomic.Bool
	inbox     chan any
	loopDone  chan struct{}
	doneOnce  sync.Once
	done      chan struct{}

	mu        sync.Mutex
	outcome   *Outcome
	lastSnap  Snapshot
	completed bool

	state         State
	clock         Clock
	clockC        <-chan time.Time
	clockStop     func()
	streamCancel  context.CancelFunc
	visual        VisualStream
	audio         AudioStream
	visualOpen    bool
	audioOpen     bool
	cameraOn      bool
	last          VisualScores
	lastAudio     float64
	aggregator    *scoring.AudioAggregator
	answerQuality float64
	chat          []ChatEntry
	recorder      *media.Recorder
	recording     bool
	endRequested  bool
	graceTimer    *time.Timer
}

// New returns a controller for userID. An empty userID is recorded under
// the identity error sentinel at finalization.
func New(cfg *config.Config, streams Streams, persister Persister, userID string, logger *slog.Logger, opts ...Option) *Controller {
	sessionID := uuid.NewString()
	c := &Controller{
		cfg:        cfg,
		sessionID:  sessionID,
		userID:     userID,
		streams:    streams,
		persister:  persister,
		speaker:    media.NoopSpeaker{},
		clockTicks: realTicker,
		frameTicks: realTicker,
		inbox:      make(chan any),
		loopDone:   make(chan struct{}),
		done:       make(chan struct{}),
		aggregator: scoring.NewAudioAggregator(cfg.Scoring.NoiseFloor),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(logging.WithSessionID(logger, sessionID), "session")
	if c.parser == nil {
		c.parser = resume.NewParser(cfg, logger)
	}
	c.finalizer = NewFinalizer(persister, c.notifier, logger)
	c.lastSnap = c.snapshot()
	return c
}

// SessionID returns the generated session identifier.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Start runs the controller loop until ctx is cancelled. Cancelling a live
// session tears it down without finalizing it.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		ctx = services.WithSessionID(ctx, c.sessionID)
		if c.userID != "" {
			ctx = services.WithUserID(ctx, c.userID)
		}
		c.started.Store(true)
		go c.run(ctx)
	})
}

// Begin opens both streams with resumeText as the dialogue seed and starts
// the clock.
func (c *Controller) Begin(ctx context.Context, resumeText string) error {
	reply := make(chan error, 1)
	if err := c.post(ctx, beginCmd{resumeText: resumeText, reply: reply}); err != nil {
		return err
	}
	return c.await(ctx, reply)
}

// UploadResume parses the PDF at path and begins the session with its text.
func (c *Controller) UploadResume(ctx context.Context, path string) error {
	if snap := c.Snapshot(); snap.State != StateAwaitingResume {
		return ErrAlreadyStarted
	}
	text, err := c.parser.Parse(ctx, path)
	if err != nil {
		return err
	}
	return c.Begin(ctx, text)
}

// ToggleRecording starts or stops answer recording and reports whether
// recording is now active.
func (c *Controller) ToggleRecording(ctx context.Context) (bool, error) {
	reply := make(chan toggleReply, 1)
	if err := c.post(ctx, toggleCmd{reply: reply}); err != nil {
		return false, err
	}
	select {
	case r := <-reply:
		return r.recording, r.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// End asks for the final visual report and finalizes when it arrives, the
// grace period expires, or the visual stream is unavailable. Ending an ended
// session is a no-op.
func (c *Controller) End(ctx context.Context) error {
	reply := make(chan error, 1)
	if err := c.post(ctx, endCmd{reply: reply}); err != nil {
		return err
	}
	return c.await(ctx, reply)
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	if err := c.post(context.Background(), snapshotCmd{reply: reply}); err == nil {
		select {
		case snap := <-reply:
			return snap
		case <-c.loopDone:
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSnap
}

// Done is closed once the session has completed: after persistence settles
// and the completion hook has run, or after a cancelled session tore down.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Outcome returns the persistence outcome once finalization has completed.
func (c *Controller) Outcome() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome == nil {
		return Outcome{}, false
	}
	return *c.outcome, true
}

func (c *Controller) post(ctx context.Context, msg any) error {
	if !c.started.Load() {
		return ErrStopped
	}
	select {
	case c.inbox <- msg:
		return nil
	case <-c.loopDone:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// emit delivers an internal event and reports whether the loop accepted it.
func (c *Controller) emit(msg any) bool {
	select {
	case c.inbox <- msg:
		return true
	case <-c.loopDone:
		return false
	}
}

func (c *Controller) await(ctx context.Context, reply <-chan error) error {
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) complete(outcome *Outcome) {
	c.mu.Lock()
	if c.completed {
		c.mu.Unlock()
		return
	}
	c.completed = true
	c.outcome = outcome
	c.mu.Unlock()

	if outcome != nil && c.onComplete != nil {
		c.onComplete(*outcome)
	}
	c.doneOnce.Do(func() { close(c.done) })
}
