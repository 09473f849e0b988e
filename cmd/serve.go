package cmd

import (
	"roomclean/common"
	"roomclean/internal/server"

	"github.com/spf13/cobra"
)

// serveFlags serve 命令参数
type serveFlags struct {
	pathFlags
	port string
}

func (f *serveFlags) apply(cfg *common.Config) {
	f.pathFlags.apply(cfg)
	if f.port != "" {
		cfg.ServerPort = f.port
	}
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the room analysis over HTTP as an instruction service",
		Long: `Starts an HTTP service that re-runs the analysis step on every GET /
and returns the analysis JSON. "roomclean generate --instructions-url"
can consume it directly. GET /health reports liveness.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.apply)
			if err != nil {
				return err
			}

			handler := server.NewHandler(a.analyzer, a.cfg.RoomImagePath, a.cfg.RoomPromptPath)
			return server.ListenAndServe(cmd.Context(), a.cfg.GetServerAddr(), handler.Routes())
		},
	}

	cmd.Flags().StringVar(&flags.image, "image", "", "Room photo to analyze (default ROOM_IMAGE_PATH)")
	cmd.Flags().StringVar(&flags.prompt, "prompt", "", "Rubric prompt file (default ROOM_PROMPT_PATH)")
	cmd.Flags().StringVarP(&flags.port, "port", "p", "", "Port to listen on (default SERVER_PORT)")

	return cmd
}
