package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Speaker speaks interviewer questions aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// NoopSpeaker discards speech.
type NoopSpeaker struct{}

func (NoopSpeaker) Speak(context.Context, string) error { return nil }

// CommandSpeaker runs an external text-to-speech command with the text as
// its final argument, e.g. "espeak -s 160".
type CommandSpeaker struct {
	binary string
	args   []string
}

// NewSpeaker returns a CommandSpeaker for command, or a NoopSpeaker when
// command is empty.
func NewSpeaker(command string) Speaker {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return NoopSpeaker{}
	}
	return &CommandSpeaker{binary: fields[0], args: fields[1:]}
}

func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	args := append(append([]string(nil), s.args...), text)
	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("speak: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
