package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"floodwatch/internal/prediction"
	"floodwatch/internal/risk"
)

func newScoreCmd() *cobra.Command {
	var (
		preset  string
		policy  string
		remote  string
		timeout time.Duration
		asJSON  bool
		bare    bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a reading with the weighted heuristic",
		Example: `  floodctl score --preset monsoon
  floodctl score --rainfall 320 --river_discharge 700 --policy strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := risk.ParsePolicy(policy)
			if err != nil {
				return err
			}
			in, err := readingInput(cmd, preset, !bare)
			if err != nil {
				return err
			}

			var assessor risk.Assessor = risk.NewLocalAssessor(p)
			if remote != "" {
				client := prediction.NewClient(remote, timeout, prediction.WithPolicy(p))
				assessor = prediction.NewFallbackAssessor(client, assessor)
			}

			a, err := assessor.Assess(cmd.Context(), in)
			if err != nil {
				if risk.IsValidation(err) {
					cmd.PrintErrln("invalid reading:")
					printValidation(cmd, err)
				}
				return fmt.Errorf("score: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}
			cmd.Printf("score:  %.2f\n", a.Score)
			cmd.Printf("level:  %s\n", a.Label)
			cmd.Printf("source: %s\n", a.Source)
			if a.Probability != nil {
				cmd.Printf("probability: %.3f (%s)\n", *a.Probability, a.RiskLabel)
				cmd.Printf("recommendation: %s\n", a.Recommendation)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "apply a named preset before the field flags")
	cmd.Flags().StringVar(&policy, "policy", string(risk.PolicyClamp), "input policy: coerce, clamp or strict")
	cmd.Flags().StringVar(&remote, "url", "", "remote prediction endpoint; falls back to the local scorer when unreachable")
	cmd.Flags().DurationVar(&timeout, "timeout", prediction.DefaultTimeout, "remote prediction timeout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the assessment as JSON")
	cmd.Flags().BoolVar(&bare, "no-defaults", false, "leave unset fields absent instead of using their defaults")
	addFieldFlags(cmd.Flags())
	return cmd
}
