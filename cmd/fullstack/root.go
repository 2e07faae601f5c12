package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fullstack-project/fullstack-go/internal/adapter"
	"github.com/fullstack-project/fullstack-go/internal/adapter/awslambda"
	"github.com/fullstack-project/fullstack-go/internal/adapter/httpserver"
	"github.com/fullstack-project/fullstack-go/internal/adapter/wagi"
	"github.com/fullstack-project/fullstack-go/internal/app"
	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/registry"
	"github.com/fullstack-project/fullstack-go/internal/store"
	"github.com/fullstack-project/fullstack-go/internal/version"
)

var configDir string

// rootCmd runs the server functions in the host runtime detected from the
// environment.
var rootCmd = &cobra.Command{
	Use:          "fullstack",
	Short:        "Serve the fullstack application's server functions.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(adapter.DetectMode())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the native HTTP server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(adapter.ModeHTTPServer)
	},
}

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Run as an AWS Lambda function.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(adapter.ModeLambda)
	},
}

var wagiCmd = &cobra.Command{
	Use:   "wagi",
	Short: "Handle a single request as a CGI-style edge worker.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(adapter.ModeWAGI)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", "", "function config directories, comma separated (default $FULLSTACK_CONFIG_DIR)")
	rootCmd.AddCommand(serveCmd, lambdaCmd, wagiCmd, versionCmd)
}

func registerApp(b *registry.Builder, provider store.Provider) error {
	return app.NewServer(provider).Register(b)
}

func run(mode adapter.Mode) error {
	startTime := time.Now()

	dir := configDir
	if dir == "" && mode == adapter.ModeLambda {
		dir = awslambda.DefaultConfigDir()
	}

	rt := adapter.InitialiseFullstack(dir, registerApp)
	defer rt.Close()

	var a adapter.Adapter
	switch mode {
	case adapter.ModeLambda:
		a = awslambda.NewAdapter(rt.Router)
	case adapter.ModeWAGI:
		a = wagi.NewAdapter(rt.Router)
	default:
		a = httpserver.NewAdapter(rt.Config, rt.Router, rt.Store)
	}

	logger.Infof("startup completed in %v (mode: %s)", time.Since(startTime), mode)
	return a.Start()
}
