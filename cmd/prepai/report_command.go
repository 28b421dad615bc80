package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"prepai/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "report [userId]",
		Short: "Show the report for the most recent interview",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, token, err := ctx.currentIdentity()
			if err != nil {
				return err
			}
			client, err := ctx.gatewayClient(token)
			if err != nil {
				return err
			}
			userID := id.UserID
			if len(args) == 1 {
				userID = args[0]
			}
			rep, err := report.Fetch(cmd.Context(), client, userID)
			if err != nil {
				return fmt.Errorf("report: %w", err)
			}
			if jsonOutput {
				return writeJSON(cmd, rep)
			}
			out := cmd.OutOrStdout()
			renderReport(out, rep, shouldColorize(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderReport(out io.Writer, rep *report.Report, colorize bool) {
	for _, line := range renderSectionHeader("Interview report", colorize) {
		fmt.Fprintln(out, line)
	}
	date := "unknown"
	if !rep.Date.IsZero() {
		date = rep.Date.Local().Format("2006-01-02 15:04")
	}
	fmt.Fprintln(out, renderStatusLine("Date", statusInfo, date, colorize))
	fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, formatDuration(rep.Duration), colorize))
	fmt.Fprintln(out, renderStatusLine("Success", scoreKind(rep.Success), percent(rep.Success), colorize))
	fmt.Fprintln(out, renderStatusLine("Confidence", scoreKind(rep.Confidence), percent(rep.Confidence), colorize))
	fmt.Fprintln(out, renderStatusLine("Answer quality", scoreKind(rep.AnswerQuality), percent(rep.AnswerQuality), colorize))
	fmt.Fprintln(out, renderStatusLine("Voice confidence", scoreKind(rep.VoiceConfidence), percent(rep.VoiceConfidence), colorize))
	fmt.Fprintln(out)

	rows := make([][]string, 0, len(rep.NonVerbal))
	for _, m := range rep.NonVerbal {
		rows = append(rows, []string{m.Name, percent(m.Score), m.Feedback})
	}
	fmt.Fprintln(out, renderTable([]string{"Non-verbal", "Score", "Feedback"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
}

func scoreKind(v int) statusKind {
	switch {
	case v > 70:
		return statusOK
	case v >= 40:
		return statusWarn
	default:
		return statusError
	}
}

func percent(v int) string {
	return strconv.Itoa(v) + "%"
}
