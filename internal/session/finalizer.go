package session

import (
	"context"
	"log/slog"

	"prepai/internal/api"
	"prepai/internal/identity"
	"prepai/internal/logging"
	"prepai/internal/notifications"
	"prepai/internal/scoring"
	"prepai/internal/services"
	"prepai/internal/stream"
)

// Persister stores a finalized result.
type Persister interface {
	Save(ctx context.Context, req api.SaveRequest) (*api.InterviewRecord, error)
}

// VisualScores are the last-known realtime visual values as reported.
type VisualScores struct {
	Confidence float64
	Attention  float64
	Stability  float64
	Smoothness float64
}

// Result is one finalized session.
type Result struct {
	UserID   string
	Duration int
	Scores   api.Scores
}

// SaveRequest converts r into the gateway payload.
func (r Result) SaveRequest() api.SaveRequest {
	return api.SaveRequest{UserID: r.UserID, Duration: r.Duration, Scores: r.Scores}
}

// Inputs are the values finalization merges.
type Inputs struct {
	Report        *stream.VisualMessage
	Visual        VisualScores
	AudioMean     int
	AnswerQuality float64
	Duration      int
	UserID        string
}

// Outcome is passed to the completion hook once persistence settles.
type Outcome struct {
	Result Result
	Record *api.InterviewRecord
	Err    error
}

// Finalizer builds results and persists them.
type Finalizer struct {
	persister Persister
	notifier  notifications.Service
	logger    *slog.Logger
}

// NewFinalizer returns a Finalizer. A nil notifier is replaced by a no-op.
func NewFinalizer(persister Persister, notifier notifications.Service, logger *slog.Logger) *Finalizer {
	if notifier == nil {
		notifier = notifications.NewService(nil)
	}
	return &Finalizer{persister: persister, notifier: notifier, logger: logging.NewComponentLogger(logger, "finalizer")}
}

// Build merges in into a Result. Fields present on the terminal report win
// over the last-known realtime values.
func (f *Finalizer) Build(in Inputs) Result {
	visual := in.Visual
	if r := in.Report; r != nil {
		visual.Confidence = pick(r.Confidence, visual.Confidence)
		visual.Attention = pick(r.Attention, visual.Attention)
		visual.Stability = pick(r.Stability, visual.Stability)
		visual.Smoothness = pick(r.Smoothness, visual.Smoothness)
	}
	userID := in.UserID
	if userID == "" {
		userID = identity.ErrorSentinel
	}
	return Result{
		UserID:   userID,
		Duration: in.Duration,
		Scores: api.Scores{
			Confidence:      visual.Confidence,
			Attention:       visual.Attention,
			Stability:       visual.Stability,
			Smoothness:      visual.Smoothness,
			AudioConfidence: float64(in.AudioMean),
			AnswerQuality:   in.AnswerQuality,
		},
	}
}

func pick(reported any, last float64) float64 {
	if reported == nil {
		return last
	}
	return scoring.Value(reported)
}

// Persist saves result and reports the outcome. Failures are logged and
// published to operators but never returned to the caller's flow.
func (f *Finalizer) Persist(ctx context.Context, result Result) Outcome {
	logger := logging.WithContext(ctx, f.logger)
	if result.UserID == identity.ErrorSentinel {
		logging.ErrorWithContext(logger, "identity unresolved; saving under sentinel", "identity_fallback",
			logging.String(logging.FieldUserID, result.UserID),
			logging.String(logging.FieldErrorHint, "check the identity store and stored credential"),
		)
		sessionID, _ := services.SessionIDFromContext(ctx)
		if err := f.notifier.NotifyIdentityFallback(ctx, sessionID); err != nil {
			logger.Debug("identity fallback notification failed", logging.Error(err))
		}
	}
	if f.persister == nil {
		err := services.Wrap(services.ErrPersistence, "finalizer", "persist", "no persister configured", nil)
		logger.Error("interview not saved", logging.Error(err))
		return Outcome{Result: result, Err: err}
	}

	record, err := f.persister.Save(ctx, result.SaveRequest())
	if err != nil {
		err = services.Wrap(services.ErrPersistence, "finalizer", "persist", "save interview", err)
		logging.ErrorWithContext(logger, "interview not saved", "persist_failed",
			logging.Error(err),
			logging.String(logging.FieldUserID, result.UserID),
			logging.Int("duration", result.Duration),
			logging.String(logging.FieldErrorHint, "check that prepaid is running and reachable at gateway.url"),
		)
		if notifyErr := f.notifier.NotifyPersistFailed(ctx, result.UserID, err); notifyErr != nil {
			logger.Debug("persist failure notification failed", logging.Error(notifyErr))
		}
		return Outcome{Result: result, Err: err}
	}
	logger.Info("interview saved",
		logging.String("record_id", record.ID),
		logging.String(logging.FieldUserID, result.UserID),
		logging.Int("duration", result.Duration),
	)
	return Outcome{Result: result, Record: record}
}
