package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matchforge/matchengine/internal/config"
	"github.com/matchforge/matchengine/internal/domain"
)

func newMatchCmd() *cobra.Command {
	var (
		candidatePath string
		jobPath       string
		reason        string
		advisory      bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score one candidate/job pair from JSON files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			candidate, err := readJSON[domain.CandidateProfile](candidatePath)
			if err != nil {
				return fmt.Errorf("candidate file: %w", err)
			}
			job, err := readJSON[domain.JobPosting](jobPath)
			if err != nil {
				return fmt.Errorf("job file: %w", err)
			}

			req := &domain.MatchRequest{Candidate: candidate, Job: job}
			if reason != "" {
				req.ListeningReasonOverride = domain.ListeningReason(reason)
			}
			if advisory {
				req.HardGateMode = domain.GateAdvisory
			}

			eng, _, cleanup, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := eng.Match(cmd.Context(), req)
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			printSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&candidatePath, "candidate", "", "path to CandidateProfile JSON (required)")
	cmd.Flags().StringVar(&jobPath, "job", "", "path to JobPosting JSON (required)")
	cmd.Flags().StringVar(&reason, "reason", "", "listening reason override")
	cmd.Flags().BoolVar(&advisory, "advisory", false, "emit alerts without hard-gate caps")
	_ = cmd.MarkFlagRequired("candidate")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}

func readJSON[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// printSummary renders the compact human-readable tail of the match
// command output.
func printSummary(cmd *cobra.Command, result *domain.MatchResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\nScore %.3f (confidence %.2f) using matrix %s\n", result.TotalScore, result.Confidence, result.MatrixID)
	fmt.Fprintf(out, "Top contributors: %s\n", strings.Join(result.TopContributors, ", "))
	if len(result.Strengths) > 0 {
		fmt.Fprintf(out, "Strengths: %s\n", strings.Join(result.Strengths, ", "))
	}
	if len(result.Weaknesses) > 0 {
		fmt.Fprintf(out, "Weaknesses: %s\n", strings.Join(result.Weaknesses, ", "))
	}
	for _, alert := range result.Alerts {
		fmt.Fprintf(out, "[%s] %s: %s\n", alert.Severity, alert.Kind, alert.Message)
	}
	if result.HardGateTriggered != "" {
		fmt.Fprintf(out, "Hard gate applied: %s\n", result.HardGateTriggered)
	}
	if result.DeadlineExceeded {
		fmt.Fprintln(out, "Warning: partial scores, deadline exceeded")
	}
}
