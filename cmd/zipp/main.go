// Zipp is a command line remote for Libratone Zipp speakers.
//
// It talks to the speaker over its UDP control protocol: commands go to port
// 7777 and the speaker answers on 7778 and 3333. Speakers can be given by
// IP address, hostname, or a nickname stored in the config file.
//
// Usage:
//
//	zipp [command] [flags]
//
// See 'zipp --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/muurk/zipp/internal/logging"
	"github.com/muurk/zipp/internal/ui"
	"github.com/muurk/zipp/internal/version"
)

// Global flags
var (
	speakerRef string
	logLevel   string
)

// speakerEnvVar names a speaker when --speaker is not given
const speakerEnvVar = "ZIPP_SPEAKER"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderFailure(failureTitle(rootCmd, err), err, ui.GetTerminalWidth()))
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zipp",
	Short: "Libratone Zipp remote control",
	Long: `Control Libratone Zipp speakers on the local network.

Playback, volume, voicing, room correction, sleep timers and favorites are
all available. Use 'zipp scan' to find speakers and 'zipp nickname' to give
them short names.

A .env file in the working directory is read for ZIPP_SPEAKER and
ZIPP_LOG_LEVEL.`,
	Version:       version.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is fine
		_ = godotenv.Load()

		if err := logging.Initialize(logLevel); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		if speakerRef == "" {
			speakerRef = os.Getenv(speakerEnvVar)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&speakerRef, "speaker", "s", "", "Speaker IP, hostname or nickname (default from config or "+speakerEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Detailed())
	},
}
