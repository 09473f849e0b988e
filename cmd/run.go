package cmd

import (
	"fmt"

	"roomclean/common"
	"roomclean/internal/pipeline"

	"github.com/spf13/cobra"
)

// pathFlags 各命令共用的路径参数
type pathFlags struct {
	image       string
	prompt      string
	analysisOut string
	imageOut    string
}

func (f *pathFlags) apply(cfg *common.Config) {
	if f.image != "" {
		cfg.RoomImagePath = f.image
	}
	if f.prompt != "" {
		cfg.RoomPromptPath = f.prompt
	}
	if f.analysisOut != "" {
		cfg.AnalysisOutputPath = f.analysisOut
	}
	if f.imageOut != "" {
		cfg.ImageOutputPath = f.imageOut
	}
}

func newRunCmd() *cobra.Command {
	var flags pathFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze the room, save the analysis JSON, then generate the cleaned image",
		Example: `  # Use paths from the environment / .env
  roomclean run

  # Override inputs and outputs
  roomclean run --image photos/bedroom.jpg --analysis-out out/bedroom.json --image-out out/bedroom_clean.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.apply)
			if err != nil {
				return err
			}

			report, err := a.pipeline.Run(cmd.Context(), pipeline.Options{
				ImagePath:          a.cfg.RoomImagePath,
				PromptPath:         a.cfg.RoomPromptPath,
				AnalysisOutputPath: a.cfg.AnalysisOutputPath,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Analysis saved to %s\nCleaned image saved to %s\n", report.AnalysisPath, report.Generation.OutputPath)
			if report.ImageURL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Published: %s\n", report.ImageURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.image, "image", "", "Room photo to analyze (default ROOM_IMAGE_PATH)")
	cmd.Flags().StringVar(&flags.prompt, "prompt", "", "Rubric prompt file (default ROOM_PROMPT_PATH)")
	cmd.Flags().StringVar(&flags.analysisOut, "analysis-out", "", "Analysis JSON output path (default ANALYSIS_OUTPUT_PATH)")
	cmd.Flags().StringVar(&flags.imageOut, "image-out", "", "Generated image output path (default IMAGE_OUTPUT_PATH)")

	return cmd
}
