package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// サブコマンド名
const (
	CommandServe       = "serve"
	CommandMigrate     = "migrate"
	CommandHealthcheck = "healthcheck"
)

// NewRootCommand はdailydietのルートコマンドを生成する。
// サブコマンド省略時はserveとして動作する。
func NewRootCommand(w io.Writer) *cobra.Command {
	serve := func(cmd *cobra.Command, args []string) error {
		cfg, err := Init(w)
		if err != nil {
			return fmt.Errorf("initialization failed: %w", err)
		}
		return runServe(cmd.Context(), cfg)
	}

	root := &cobra.Command{
		Use:           "dailydiet",
		Short:         "Daily diet meal tracking API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	root.SetOut(w)
	root.SetErr(w)

	root.AddCommand(
		&cobra.Command{
			Use:   CommandServe,
			Short: "Start the HTTP API server",
			Args:  cobra.NoArgs,
			RunE:  serve,
		},
		&cobra.Command{
			Use:   CommandMigrate,
			Short: "Apply pending database migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := Init(w)
				if err != nil {
					return fmt.Errorf("initialization failed: %w", err)
				}
				return runMigrate(cfg)
			},
		},
		newHealthcheckCommand(),
	)

	return root
}

// newHealthcheckCommand はヘルスチェック用のサブコマンドを生成する。
// 軽量サブコマンドのため、設定の読み込みを行わない。
func newHealthcheckCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   CommandHealthcheck,
		Short: "Probe GET /health on the local server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealthcheck(cmd.Context(), fmt.Sprintf("http://localhost:%s/health", port))
		},
	}

	defaultPort := os.Getenv("SERVER_PORT")
	if defaultPort == "" {
		defaultPort = "8080"
	}
	cmd.Flags().StringVar(&port, "port", defaultPort, "port of the local API server")

	return cmd
}
