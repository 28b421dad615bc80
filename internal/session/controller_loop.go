package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"prepai/internal/logging"
	"prepai/internal/media"
	"prepai/internal/scoring"
	"prepai/internal/services"
	"prepai/internal/stream"
)

type beginCmd struct {
	resumeText string
	reply      chan error
}

type toggleReply struct {
	recording bool
	err       error
}

type toggleCmd struct {
	reply chan toggleReply
}

type endCmd struct {
	reply chan error
}

type snapshotCmd struct {
	reply chan Snapshot
}

type visualEvent struct {
	msg stream.VisualMessage
}

type audioEvent struct {
	msg stream.AudioMessage
}

type streamClosed struct {
	name string
	err  error
}

type decodeFailed struct {
	name string
	err  error
}

type recorderStopped struct {
	rec *media.Recorder
}

type graceExpired struct{}

const (
	visualName = "visual"
	audioName  = "audio"
)

func (c *Controller) run(ctx context.Context) {
	defer close(c.loopDone)
	for {
		select {
		case <-ctx.Done():
			if c.state != StateEnded {
				c.logger.Info("session cancelled", logging.String("state", c.state.String()))
				c.state = StateEnded
				c.clock.Stop()
				c.teardown()
				c.saveSnapshot()
				c.complete(nil)
			}
			return
		case <-c.clockC:
			c.clock.Tick()
			c.notify()
		case msg := <-c.inbox:
			c.handle(ctx, msg)
		}
	}
}

func (c *Controller) handle(ctx context.Context, msg any) {
	switch m := msg.(type) {
	case beginCmd:
		m.reply <- c.begin(ctx, m.resumeText)
	case toggleCmd:
		on, err := c.toggle(ctx)
		m.reply <- toggleReply{recording: on, err: err}
	case endCmd:
		m.reply <- c.requestEnd(ctx, "user")
	case snapshotCmd:
		m.reply <- c.snapshot()
	case visualEvent:
		c.onVisual(ctx, m.msg)
	case audioEvent:
		c.onAudio(ctx, m.msg)
	case decodeFailed:
		logging.WarnWithContext(logging.WithContext(services.WithStream(ctx, m.name), c.logger),
			"dropped malformed frame", "stream_decode_failed",
			logging.Error(m.err),
			logging.String(logging.FieldImpact, "one message skipped; stream continues"),
		)
	case streamClosed:
		c.onStreamClosed(ctx, m)
	case recorderStopped:
		c.onRecorderStopped(m.rec)
	case graceExpired:
		if c.state == StateLive {
			c.logger.Info("final report not received in time; using last known values")
			c.finalize(ctx, nil, "grace_expired")
		}
	}
}

func (c *Controller) begin(ctx context.Context, resumeText string) error {
	switch c.state {
	case StateLive:
		return ErrAlreadyStarted
	case StateEnded:
		return ErrNotLive
	}

	streamCtx, cancel := context.WithCancel(ctx)
	c.streamCancel = cancel

	if visual, err := c.streams.OpenVisual(streamCtx); err != nil {
		c.warnTransport(ctx, visualName, "visual stream unavailable", err)
	} else {
		c.visual = visual
		c.visualOpen = true
		go c.readVisual(visual)
	}

	seed := stream.Seed{ResumeText: resumeText, JobDescription: c.cfg.Streams.JobDescription}
	if audio, err := c.streams.OpenAudio(streamCtx, seed); err != nil {
		c.warnTransport(ctx, audioName, "audio stream unavailable", err)
	} else {
		c.audio = audio
		c.audioOpen = true
		go c.readAudio(audio)
	}

	c.state = StateLive
	c.clock.Start()
	c.clockC, c.clockStop = c.clockTicks(time.Second)

	switch {
	case c.frames == nil:
		logging.WarnWithContext(c.logger, "camera off", "camera_unavailable",
			logging.String(logging.FieldImpact, "visual scores stay at their last values"),
			logging.String(logging.FieldErrorHint, "set media.frames_dir to a directory of images"),
		)
	case c.visual != nil:
		c.cameraOn = true
		go c.pumpFrames(streamCtx, c.visual)
	}

	c.logger.Info("session live",
		logging.Bool("visual", c.visualOpen),
		logging.Bool("audio", c.audioOpen),
		logging.Bool("camera", c.cameraOn),
		logging.Int("resume_chars", len(resumeText)),
	)
	c.notify()
	return nil
}

func (c *Controller) toggle(ctx context.Context) (bool, error) {
	if c.state != StateLive || c.endRequested {
		return false, ErrNotLive
	}
	if c.recording {
		c.recorder.Stop()
		c.recording = false
		c.notify()
		return false, nil
	}

	rec := media.NewRecorder(c.mic, c.cfg.AudioSlice(), 0)
	audio := c.audio
	logger := c.logger
	onChunk := func(chunk []byte) {
		if audio == nil {
			return
		}
		if err := audio.SendChunk(chunk); err != nil {
			logger.Debug("audio chunk not sent", logging.Error(err))
		}
	}
	if err := rec.Start(ctx, onChunk); err != nil {
		logging.WarnWithContext(c.logger, "microphone unavailable", "microphone_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "answers are not recorded"),
			logging.String(logging.FieldErrorHint, "set media.audio_file to a readable audio file"),
		)
		return false, err
	}
	c.recorder = rec
	c.recording = true
	go func() {
		<-rec.Done()
		c.emit(recorderStopped{rec: rec})
	}()
	c.notify()
	return true, nil
}

// onRecorderStopped sends STOP_ANSWER once every chunk of rec has been
// handed to the audio stream.
func (c *Controller) onRecorderStopped(rec *media.Recorder) {
	if rec == c.recorder && c.recording {
		c.recording = false
		c.notify()
	}
	if c.state != StateLive || !c.audioOpen {
		return
	}
	if err := c.audio.SendStopAnswer(); err != nil {
		c.logger.Debug("stop answer not sent", logging.Error(err))
	}
}

func (c *Controller) requestEnd(ctx context.Context, trigger string) error {
	switch c.state {
	case StateAwaitingResume:
		return ErrNotLive
	case StateEnded:
		return nil
	}
	if c.endRequested {
		return nil
	}
	c.endRequested = true
	if c.recording {
		c.recorder.Stop()
		c.recording = false
	}
	c.logger.Info("end requested", logging.String("trigger", trigger))

	if !c.visualOpen {
		c.finalize(ctx, nil, trigger)
		return nil
	}
	if err := c.visual.Stop(); err != nil {
		c.warnTransport(ctx, visualName, "could not request final report", err)
		c.finalize(ctx, nil, trigger)
		return nil
	}
	grace := c.cfg.FinalReportGrace()
	if grace <= 0 {
		c.finalize(ctx, nil, trigger)
		return nil
	}
	c.graceTimer = time.AfterFunc(grace, func() { c.emit(graceExpired{}) })
	c.notify()
	return nil
}

func (c *Controller) onVisual(ctx context.Context, msg stream.VisualMessage) {
	if c.state != StateLive {
		return
	}
	switch msg.Type {
	case stream.TypeRealtime:
		c.last = VisualScores{
			Confidence: scoring.Value(msg.Confidence),
			Attention:  scoring.Value(msg.Attention),
			Stability:  scoring.Value(msg.Stability),
			Smoothness: scoring.Value(msg.Smoothness),
		}
		c.notify()
	case stream.TypeFinalReport:
		c.finalize(ctx, &msg, "final_report")
	default:
		c.logger.Debug("ignoring visual message", logging.String("type", msg.Type))
	}
}

func (c *Controller) onAudio(ctx context.Context, msg stream.AudioMessage) {
	if c.state != StateLive {
		return
	}
	switch msg.Kind() {
	case stream.AudioQuestion:
		c.chat = append(c.chat, ChatEntry{Role: RoleAI, Text: msg.Text, At: time.Now()})
		if msg.Speak {
			go c.speak(ctx, msg.Text)
		}
		c.notify()
	case stream.AudioRealtimeFeed:
		// The noise floor applies to the producer's raw 0-100 volume scale.
		v := scoring.Value(msg.AudioConfidence)
		c.lastAudio = v
		c.aggregator.Observe(v)
		c.notify()
	case stream.AudioTranscription:
		c.chat = append(c.chat, ChatEntry{Role: RoleUser, Text: msg.UserTranscription, At: time.Now()})
		if msg.Scores != nil && msg.Scores.AnswerScore != nil {
			c.answerQuality = scoring.Value(msg.Scores.AnswerScore)
		}
		c.notify()
	case stream.AudioEnd:
		_ = c.requestEnd(ctx, "dialogue_end")
	default:
		c.logger.Debug("ignoring audio message", logging.String("type", msg.Type))
	}
}

func (c *Controller) onStreamClosed(ctx context.Context, ev streamClosed) {
	if c.state != StateLive {
		return
	}
	if !errors.Is(ev.err, stream.ErrClosed) {
		c.warnTransport(ctx, ev.name, "stream failed", ev.err)
	} else {
		c.logger.Info("stream closed by server", logging.String(logging.FieldStream, ev.name))
	}
	switch ev.name {
	case visualName:
		c.visualOpen = false
		c.cameraOn = false
		if c.endRequested {
			c.finalize(ctx, nil, "visual_closed")
			return
		}
	case audioName:
		c.audioOpen = false
	}
	c.notify()
}

// finalize is the single entry point into the ended state.
func (c *Controller) finalize(ctx context.Context, report *stream.VisualMessage, trigger string) {
	if c.state == StateEnded {
		return
	}
	c.state = StateEnded
	duration := c.clock.Stop()

	result := c.finalizer.Build(Inputs{
		Report:        report,
		Visual:        c.last,
		AudioMean:     c.aggregator.Mean(),
		AnswerQuality: c.answerQuality,
		Duration:      duration,
		UserID:        c.userID,
	})
	c.logger.Info("session finalized",
		logging.String("trigger", trigger),
		logging.Int("duration", duration),
		logging.Bool("terminal_report", report != nil),
		logging.Int("audio_samples", c.aggregator.Count()),
	)

	c.teardown()
	c.saveSnapshot()
	c.notify()

	persistCtx := context.WithoutCancel(ctx)
	go func() {
		outcome := c.finalizer.Persist(persistCtx, result)
		c.complete(&outcome)
	}()
}

// teardown releases streams, devices and timers. Safe to call repeatedly.
func (c *Controller) teardown() {
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
	if c.clockStop != nil {
		c.clockStop()
		c.clockStop = nil
		c.clockC = nil
	}
	if c.recorder != nil {
		c.recorder.Stop()
		c.recording = false
	}
	if c.streamCancel != nil {
		c.streamCancel()
		c.streamCancel = nil
	}
	if c.visual != nil {
		if err := c.visual.Close(); err != nil {
			c.logger.Debug("close visual stream", logging.Error(err))
		}
		c.visual = nil
	}
	if c.audio != nil {
		if err := c.audio.Close(); err != nil {
			c.logger.Debug("close audio stream", logging.Error(err))
		}
		c.audio = nil
	}
	c.visualOpen = false
	c.audioOpen = false
	c.cameraOn = false
}

func (c *Controller) notify() {
	if c.onUpdate != nil {
		c.onUpdate(c.snapshot())
	}
}

func (c *Controller) saveSnapshot() {
	snap := c.snapshot()
	c.mu.Lock()
	c.lastSnap = snap
	c.mu.Unlock()
}

func (c *Controller) warnTransport(ctx context.Context, name, msg string, err error) {
	logger := logging.WithContext(services.WithStream(ctx, name), c.logger)
	logging.WarnWithContext(logger, msg, "stream_transport_error",
		logging.Error(err),
		logging.String(logging.FieldImpact, "live scores from this stream stop updating"),
		logging.String(logging.FieldErrorHint, "check that the analysis service is running"),
	)
}

func (c *Controller) readVisual(v VisualStream) {
	for {
		msg, err := v.Read()
		if err != nil {
			if errors.Is(err, services.ErrDecode) {
				if !c.emit(decodeFailed{name: visualName, err: err}) {
					return
				}
				continue
			}
			c.emit(streamClosed{name: visualName, err: err})
			return
		}
		if !c.emit(visualEvent{msg: msg}) {
			return
		}
	}
}

func (c *Controller) readAudio(a AudioStream) {
	for {
		msg, err := a.Read()
		if err != nil {
			if errors.Is(err, services.ErrDecode) {
				if !c.emit(decodeFailed{name: audioName, err: err}) {
					return
				}
				continue
			}
			c.emit(streamClosed{name: audioName, err: err})
			return
		}
		if !c.emit(audioEvent{msg: msg}) {
			return
		}
	}
}

// pumpFrames sends one camera frame per tick. A tick that arrives while the
// previous frame is still being encoded or sent is dropped.
func (c *Controller) pumpFrames(ctx context.Context, v VisualStream) {
	ticks, stop := c.frameTicks(c.cfg.FrameInterval())
	defer stop()

	var busy atomic.Bool
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			if !busy.CompareAndSwap(false, true) {
				c.framesDropped.Add(1)
				continue
			}
			go func() {
				defer busy.Store(false)
				frame, err := c.frames.Frame(ctx)
				if err != nil {
					c.logger.Debug("frame unavailable", logging.Error(err))
					return
				}
				if err := v.SendFrame(frame); err != nil {
					c.logger.Debug("frame not sent", logging.Error(err))
					return
				}
				c.framesSent.Add(1)
			}()
		}
	}
}

func (c *Controller) speak(ctx context.Context, text string) {
	if err := c.speaker.Speak(ctx, text); err != nil {
		c.logger.Debug("speech failed", logging.Error(err))
	}
}
