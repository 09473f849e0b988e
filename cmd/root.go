package cmd

import (
	"github.com/spf13/cobra"
)

// Version 程序版本
const Version = "1.0.0"

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roomclean",
		Short: "Analyze a messy room photo and generate a tidied-up version with Gemini",
		Long: `roomclean sends a room photo and a scoring rubric to a Gemini vision model,
saves the resulting condition assessment as JSON, and then asks an image
generation model to render the same room after following the suggestions.

Configuration is read from the environment and an optional .env file.
GENAI_API_KEY (or API_KEY) is required.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMCPCmd())

	return cmd
}
