package cmd

import (
	"fmt"

	"roomclean/internal/utils"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var flags pathFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score the room photo against the rubric and save the analysis JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.apply)
			if err != nil {
				return err
			}

			result, err := a.analyzer.Analyze(cmd.Context(), a.cfg.RoomImagePath, a.cfg.RoomPromptPath)
			if err != nil {
				return err
			}
			if err := utils.WriteJSON(a.cfg.AnalysisOutputPath, result); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Analysis saved to %s\n", a.cfg.AnalysisOutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.image, "image", "", "Room photo to analyze (default ROOM_IMAGE_PATH)")
	cmd.Flags().StringVar(&flags.prompt, "prompt", "", "Rubric prompt file (default ROOM_PROMPT_PATH)")
	cmd.Flags().StringVar(&flags.analysisOut, "analysis-out", "", "Analysis JSON output path (default ANALYSIS_OUTPUT_PATH)")

	return cmd
}
