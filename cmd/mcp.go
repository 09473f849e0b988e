package cmd

import (
	"strings"

	"roomclean/common"
	"roomclean/internal/tools"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose the room cleanup tools as an MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), keepStdoutForProtocol)
			if err != nil {
				return err
			}

			s := server.NewMCPServer(
				"Room Cleanup MCP Server",
				Version,
				server.WithToolCapabilities(true),
			)

			roomTools := tools.NewRoomTools(a.analyzer, a.generator, a.pipeline, tools.Defaults{
				ImagePath:          a.cfg.RoomImagePath,
				PromptPath:         a.cfg.RoomPromptPath,
				AnalysisOutputPath: a.cfg.AnalysisOutputPath,
			})
			roomTools.Register(s)

			common.Info("MCP server starting on stdio")
			return server.ServeStdio(s)
		},
	}

	return cmd
}

// keepStdoutForProtocol stdout 留给 MCP 协议，日志改写到 stderr
func keepStdoutForProtocol(cfg *common.Config) {
	switch strings.ToLower(cfg.LogOutput) {
	case "stderr":
	case "file":
		if cfg.LogFile == "" {
			cfg.LogOutput = "stderr"
		}
	default:
		cfg.LogOutput = "stderr"
	}
}
