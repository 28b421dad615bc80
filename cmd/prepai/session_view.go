package main

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/pterm/pterm"

	"prepai/internal/scoring"
	"prepai/internal/session"
)

// sessionView prints session changes as they happen. update is called from
// the controller goroutine and must not block.
type sessionView struct {
	out      io.Writer
	colorize bool

	mu           sync.Mutex
	shownChat    int
	state        session.State
	recording    bool
	endRequested bool
}

func newSessionView(out io.Writer, colorize bool) *sessionView {
	return &sessionView{out: out, colorize: colorize}
}

func (v *sessionView) update(snap session.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if snap.State != v.state {
		v.state = snap.State
		switch snap.State {
		case session.StateLive:
			v.line(pterm.FgGreen, "Interview live. Commands: r=record answer, s=status, q=end")
			if !snap.CameraOn {
				v.line(pterm.FgYellow, "Camera off: visual scores will stay at their last values")
			}
		case session.StateEnded:
			v.line(pterm.FgBlue, "Interview ended after "+formatDuration(snap.Elapsed)+"; saving result")
		}
	}
	for _, entry := range snap.Chat[min(v.shownChat, len(snap.Chat)):] {
		v.chat(entry)
	}
	v.shownChat = max(v.shownChat, len(snap.Chat))
	if snap.Recording != v.recording {
		v.recording = snap.Recording
		if snap.Recording {
			v.line(pterm.FgRed, "Recording answer... (r to stop)")
		} else {
			v.line(pterm.FgBlue, "Answer submitted")
		}
	}
	if snap.EndRequested && !v.endRequested {
		v.endRequested = true
		v.line(pterm.FgBlue, "Waiting for the final visual report")
	}
}

func (v *sessionView) chat(entry session.ChatEntry) {
	label, color := "You", pterm.FgWhite
	if entry.Role == session.RoleAI {
		label, color = "Interviewer", pterm.FgCyan
	}
	prefix := label + ": "
	if v.colorize {
		prefix = color.Sprint(prefix)
	}
	fmt.Fprintln(v.out, prefix+entry.Text)
}

func (v *sessionView) line(color pterm.Color, text string) {
	if v.colorize {
		text = color.Sprint(text)
	}
	fmt.Fprintln(v.out, text)
}

func (v *sessionView) info(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.line(pterm.FgBlue, fmt.Sprintf(format, args...))
}

func (v *sessionView) warn(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.line(pterm.FgYellow, "warning: "+fmt.Sprintf(format, args...))
}

func (v *sessionView) status(snap session.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	lines := []string{
		renderStatusLine("State", statusInfo, snap.State.String(), v.colorize),
		renderStatusLine("Elapsed", statusInfo, formatDuration(snap.Elapsed), v.colorize),
		renderStatusLine("Face confidence", kindFor(snap.Visual.Confidence), score(snap.Visual.Confidence), v.colorize),
		renderStatusLine("Attention", kindFor(snap.Visual.Attention), score(snap.Visual.Attention), v.colorize),
		renderStatusLine("Voice confidence", kindFor(float64(snap.AudioMean)), strconv.Itoa(snap.AudioMean)+" ("+strconv.Itoa(snap.AudioSamples)+" samples)", v.colorize),
		renderStatusLine("Answer quality", kindFor(snap.AnswerQuality), score(snap.AnswerQuality), v.colorize),
		renderStatusLine("Frames", statusInfo, fmt.Sprintf("%d sent, %d dropped", snap.FramesSent, snap.FramesDropped), v.colorize),
	}
	for _, l := range lines {
		fmt.Fprintln(v.out, l)
	}
}

func (v *sessionView) result(outcome session.Outcome) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := outcome.Result.Scores
	rows := [][]string{
		{"Face confidence", score(s.Confidence)},
		{"Attention", score(s.Attention)},
		{"Stability", score(s.Stability)},
		{"Smoothness", score(s.Smoothness)},
		{"Voice confidence", score(s.AudioConfidence)},
		{"Answer quality", score(s.AnswerQuality)},
	}
	fmt.Fprintln(v.out, renderTable([]string{"Score", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
	if outcome.Err != nil {
		v.line(pterm.FgRed, "Result was not saved: "+outcome.Err.Error())
		return
	}
	saved := "Saved interview for " + outcome.Result.UserID
	if outcome.Record != nil && outcome.Record.ID != "" {
		saved += " (id " + outcome.Record.ID + ")"
	}
	v.line(pterm.FgGreen, saved+". Run prepai report to review it.")
}

func kindFor(v float64) statusKind {
	return scoreKind(scoring.NormalizeRounded(v))
}
