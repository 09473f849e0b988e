package cmd

import (
	"fmt"

	"roomclean/common"
	"roomclean/internal/instructions"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		flags           pathFlags
		instructionPath string
		instructionURL  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the cleaned room image from existing instructions",
		Long: `Generates the cleaned room image from a pre-existing instructions document.

Instructions are read from a JSON or YAML file (--instructions, default
INSTRUCTIONS_PATH) or fetched from a running instruction service
(--instructions-url, e.g. "roomclean serve").`,
		Example: `  roomclean generate --instructions instructions.json
  roomclean generate --instructions tasks.yaml --image-out out/clean.png
  roomclean generate --instructions-url http://localhost:8080/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.apply)
			if err != nil {
				return err
			}

			var input interface{}
			if instructionURL != "" {
				common.WithField("url", instructionURL).Info("Fetching instructions from service")
				input, err = instructions.Fetch(cmd.Context(), instructionURL)
			} else {
				path := instructionPath
				if path == "" {
					path = a.cfg.InstructionsPath
				}
				input, err = instructions.LoadFile(path)
			}
			if err != nil {
				return err
			}

			result, err := a.generator.Generate(cmd.Context(), a.cfg.RoomImagePath, input)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cleaned image saved to %s\n", result.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.image, "image", "", "Room photo to clean up (default ROOM_IMAGE_PATH)")
	cmd.Flags().StringVar(&flags.imageOut, "image-out", "", "Generated image output path (default IMAGE_OUTPUT_PATH)")
	cmd.Flags().StringVar(&instructionPath, "instructions", "", "Instructions file, JSON or YAML (default INSTRUCTIONS_PATH)")
	cmd.Flags().StringVar(&instructionURL, "instructions-url", "", "Fetch instructions from an instruction service instead of a file")
	cmd.MarkFlagsMutuallyExclusive("instructions", "instructions-url")

	return cmd
}
