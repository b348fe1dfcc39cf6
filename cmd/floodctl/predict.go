package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"floodwatch/internal/prediction"
	"floodwatch/internal/risk"
)

func newPredictCmd() *cobra.Command {
	var (
		preset   string
		remote   string
		timeout  time.Duration
		defaults bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run the flood probability model on a complete reading",
		Long: `Run the flood probability model locally, or post the reading to a
remote /predict endpoint with --url. Every field is required; --defaults
fills the ones not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := readingInput(cmd, preset, defaults)
			if err != nil {
				return err
			}

			var resp prediction.Response
			if remote == "" {
				resp, err = prediction.NewModel().Predict(in)
			} else {
				var r risk.Reading
				r, err = risk.PolicyStrict.Apply(in, risk.Fields())
				if err == nil {
					resp, err = prediction.NewClient(remote, timeout).Predict(cmd.Context(), r)
				}
			}
			if err != nil {
				if risk.IsValidation(err) {
					return fmt.Errorf("predict: %s", prediction.ErrorMessage(err))
				}
				return fmt.Errorf("predict: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "apply a named preset before the field flags")
	cmd.Flags().StringVar(&remote, "url", "", "remote prediction endpoint (default: local model)")
	cmd.Flags().DurationVar(&timeout, "timeout", prediction.DefaultTimeout, "remote prediction timeout")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "fill absent fields with their defaults")
	addFieldFlags(cmd.Flags())
	return cmd
}
