package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"prepai/internal/config"
	"prepai/internal/logging"
	"prepai/internal/media"
	"prepai/internal/notifications"
	"prepai/internal/session"
)

type sessionOptions struct {
	resumePath string
	resumeText string
	framesDir  string
	audioFile  string
}

func newSessionCommand(ctx *commandContext) *cobra.Command {
	var opts sessionOptions
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run a live mock interview",
		Long: "Run a live mock interview. Type r and Enter to start or stop answering,\n" +
			"s to show status, and q to end the interview and save the result.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runSession(cmd, ctx, cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.resumePath, "resume", "", "Resume PDF to seed the interview")
	cmd.Flags().StringVar(&opts.resumeText, "resume-text", "", "Plain-text resume file, used instead of --resume")
	cmd.Flags().StringVar(&opts.framesDir, "frames", "", "Directory of images replayed as the camera (overrides media.frames_dir)")
	cmd.Flags().StringVar(&opts.audioFile, "audio", "", "Audio file replayed as the microphone (overrides media.audio_file)")
	return cmd
}

func runSession(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, opts sessionOptions) error {
	if opts.resumePath == "" && opts.resumeText == "" {
		return errors.New("--resume or --resume-text is required")
	}
	logger := ctx.log()
	out := cmd.OutOrStdout()
	view := newSessionView(out, shouldColorize(out))

	userID := ""
	id, token, err := ctx.currentIdentity()
	if err != nil {
		// The session still runs; the result is recorded under the error sentinel.
		logging.WarnWithContext(logger, "identity unavailable", "identity_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "result will be saved under the identity error sentinel"),
		)
		view.warn("identity unavailable: %v", err)
	} else {
		userID = id.UserID
		view.info("Interviewing as %s", identityLabel(id))
	}

	client, err := ctx.gatewayClient(token)
	if err != nil {
		return err
	}

	sessionOpts := []session.Option{
		session.WithSpeaker(media.NewSpeaker(cfg.Media.SpeechCommand)),
		session.WithNotifier(notifications.NewService(cfg)),
		session.WithUpdateHook(view.update),
	}
	if dir := firstNonEmpty(opts.framesDir, cfg.Media.FramesDir); dir != "" {
		frames, err := media.OpenDirFrameSource(dir, cfg.Streams.JPEGQuality)
		if err != nil {
			view.warn("camera unavailable: %v", err)
		} else {
			sessionOpts = append(sessionOpts, session.WithFrameSource(frames))
		}
	}
	if path := firstNonEmpty(opts.audioFile, cfg.Media.AudioFile); path != "" {
		sessionOpts = append(sessionOpts, session.WithMicrophone(media.FileMicrophone{Path: path}))
	}

	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	ctrl := session.New(cfg, session.NewWebSocketStreams(cfg), client, userID, logger, sessionOpts...)
	ctrl.Start(runCtx)

	if opts.resumePath != "" {
		err = ctrl.UploadResume(runCtx, opts.resumePath)
	} else {
		var text []byte
		text, err = os.ReadFile(opts.resumeText)
		if err == nil {
			err = ctrl.Begin(runCtx, string(text))
		}
	}
	if err != nil {
		return fmt.Errorf("start interview: %w", err)
	}

	if err := driveSession(runCtx, ctrl, cmd.InOrStdin(), view); err != nil {
		return err
	}
	return reportOutcome(ctrl, view)
}

// driveSession relays terminal commands to ctrl until the session completes.
func driveSession(ctx context.Context, ctrl *session.Controller, in io.Reader, view *sessionView) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctrl.Done():
				return
			}
		}
	}()

	ending := false
	for {
		select {
		case <-ctrl.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				lines = nil
				if !ending {
					ending = true
					if err := ctrl.End(ctx); err != nil && !errors.Is(err, session.ErrStopped) {
						view.warn("end interview: %v", err)
					}
				}
				continue
			}
			switch strings.ToLower(line) {
			case "r", "record":
				if _, err := ctrl.ToggleRecording(ctx); err != nil {
					view.warn("toggle recording: %v", err)
				}
			case "s", "status":
				view.status(ctrl.Snapshot())
			case "q", "quit", "end":
				ending = true
				if err := ctrl.End(ctx); err != nil && !errors.Is(err, session.ErrStopped) {
					view.warn("end interview: %v", err)
				}
			case "":
			default:
				view.warn("unknown command %q (r=record, s=status, q=end)", line)
			}
		case <-ctx.Done():
			<-ctrl.Done()
			return ctx.Err()
		}
	}
}

func reportOutcome(ctrl *session.Controller, view *sessionView) error {
	outcome, ok := ctrl.Outcome()
	if !ok {
		view.warn("interview ended without a result")
		return errors.New("interview was not finalized")
	}
	view.result(outcome)
	if outcome.Err != nil {
		return fmt.Errorf("interview finished but was not saved: %w", outcome.Err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
