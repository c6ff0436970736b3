package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/pixelfall-labs/vidcap/internal/cliconfig"
	"github.com/pixelfall-labs/vidcap/internal/inspect"
	"github.com/pixelfall-labs/vidcap/internal/watch"
)

const longHelp = `Tooling for vidcap capture session directories.

A capture session directory holds the raw bitstream (video.h264/.h265/.av1),
a sample index (sample_index.jsonl) mapping every sample to its byte range,
optional per-frame latency stats (frame_stats.jsonl), and session.json
metadata. This tool summarizes, verifies, and live-monitors those
directories.`

var exampleUsage = `  vidcap inspect ~/.vidcap/captures/20260831-143052-h264-1920x1080@60
  vidcap verify ~/.vidcap/captures/20260831-143052-h264-1920x1080@60
  vidcap watch --captures-dir ~/.vidcap/captures`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "vidcap",
		Short:   "Inspect, verify, and watch video capture session directories",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Config file first, then env, then flags (via the changed map).
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			cmd.InheritedFlags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.vidcap/config.toml)")
	root.PersistentFlags().StringVar(&cfg.CapturesDir, "captures-dir", cfg.CapturesDir, "directory holding capture session directories")
	root.PersistentFlags().BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")

	inspectCmd := &cobra.Command{
		Use:   "inspect <session-dir>",
		Short: "Summarize a capture session directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := inspect.Inspect(args[0])
			if err != nil {
				return err
			}
			printSummary(cmd, sum)
			return nil
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <session-dir>",
		Short: "Verify index/bitstream consistency of a session directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := inspect.Verify(args[0]); err != nil {
				return fmt.Errorf("verify %s: %w", args[0], err)
			}
			cmd.Printf("%s: OK\n", args[0])
			return nil
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch [captures-dir]",
		Short: "Watch a captures directory and log session activity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.CapturesDir
			if len(args) == 1 {
				dir = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info().Str("dir", dir).Msg("watching captures")
			return watch.New(dir, cfg.Debounce, nil).Run(ctx)
		},
	}

	root.AddCommand(inspectCmd, verifyCmd, watchCmd)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func printSummary(cmd *cobra.Command, sum inspect.Summary) {
	m := sum.Meta
	cmd.Printf("session:    %s\n", m.SessionDir)
	cmd.Printf("created:    %s\n", m.CreatedWallTime)
	cmd.Printf("stream:     %s %dx%d@%d (%s)\n", m.Codec, m.Width, m.Height, m.FPS, m.CaptureMode)
	cmd.Printf("bitstream:  %s (%d bytes)\n", m.BitstreamFile, sum.BitstreamBytes)
	cmd.Printf("events:     %d (seq %d..%d)\n", sum.Events, sum.FirstSeq, sum.LastSeq)
	cmd.Printf("samples:    %d\n", sum.Samples)
	cmd.Printf("csd:        %d\n", sum.CSD)
	cmd.Printf("indexed:    %d bytes\n", sum.SampleBytes)
	if sum.EndReason != "" {
		cmd.Printf("ended:      %s (cap_reached=%v)\n", sum.EndReason, sum.CapReached)
	} else {
		cmd.Printf("ended:      still running\n")
	}
}
