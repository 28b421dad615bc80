package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"prepai/internal/api"
	"prepai/internal/scoring"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "history [userId]",
		Short: "List saved interviews, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, token, err := ctx.currentIdentity()
			if err != nil {
				return err
			}
			userID := id.UserID
			if len(args) == 1 {
				userID = args[0]
			}
			client, err := ctx.gatewayClient(token)
			if err != nil {
				return err
			}
			records, err := client.History(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			if jsonOutput {
				return writeJSON(cmd, records)
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "No interviews recorded for %s\n", userID)
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(records))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderHistoryTable(records []api.InterviewRecord) string {
	headers := []string{"Date", "Duration", "Face", "Attention", "Stability", "Smoothness", "Voice", "Answers"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		date := rec.Date
		if ts := api.ParseDate(rec.Date); !ts.IsZero() {
			date = ts.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			date,
			formatDuration(rec.Duration),
			score(rec.Scores.Confidence),
			score(rec.Scores.Attention),
			score(rec.Scores.Stability),
			score(rec.Scores.Smoothness),
			score(rec.Scores.AudioConfidence),
			score(rec.Scores.AnswerQuality),
		})
	}
	return renderTable(headers, rows, aligns)
}

func score(raw float64) string {
	return strconv.Itoa(scoring.NormalizeRounded(raw))
}

func formatDuration(seconds int) string {
	return strconv.Itoa(seconds) + "s"
}
