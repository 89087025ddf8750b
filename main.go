package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	sampleType string
	minPixels  float64
	noMerge    bool
	refresh    time.Duration
	timeout    time.Duration
	logFile    string
	logLevel   string

	svgOutput string
	svgWidth  float64
)

var rootCmd = &cobra.Command{
	Use:   "flametui <path/to/profile.pprof | http://host/path/to/profile>",
	Short: "Interactive flame graphs for pprof profiles in the terminal",
	Args:  cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		data, err := loadWithTimeout(cmd.Context(), src)
		if err != nil {
			return err
		}
		if sampleType != "" {
			if _, err := data.SelectView(sampleType); err != nil {
				return err
			}
		}

		m := newModel(data, options{
			source:     src,
			sampleType: sampleType,
			minPixels:  minPixels,
			noMerge:    noMerge,
			refresh:    refresh,
			timeout:    timeout,
		})
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run program: %w", err)
		}
		return nil
	},
}

var svgCmd = &cobra.Command{
	Use:   "svg <path/to/profile.pprof | http://host/path/to/profile>",
	Short: "Write a flame graph as an SVG file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := loadWithTimeout(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		i, err := data.SelectView(sampleType)
		if err != nil {
			return err
		}

		f, err := os.Create(svgOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()

		err = renderSVG(f, data.Views[i], svgConfig{
			width:     svgWidth,
			minPixels: minPixels,
			noMerge:   noMerge,
		})
		if err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", svgOutput, data.Views[i].Name)
		return nil
	},
}

func loadWithTimeout(ctx context.Context, src string) (*ProfileData, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return LoadProfile(ctx, src)
}

// setupLogging sends logs to a file: the terminal belongs to the TUI.
func setupLogging(name string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(level)

	path := logFile
	if path == "" {
		path, err = xdg.StateFile("flametui/flametui.log")
		if err != nil {
			return fmt.Errorf("resolve log file: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.WithField("command", name).Debug("logging initialised")
	return nil
}

func addGraphFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&sampleType, "sample-type", "t", "", "sample type to show (default: the profile's default sample type)")
	flags.Float64Var(&minPixels, "min-pixels", 1, "merge sibling frames narrower than this many cells or pixels")
	flags.BoolVar(&noMerge, "no-merge", false, "draw every frame, however narrow")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default: flametui.log in the XDG state directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "deadline for loading a profile")
	addGraphFlags(rootCmd.PersistentFlags())

	rootCmd.Flags().DurationVar(&refresh, "refresh", 0, "reload the profile at this interval (0 disables)")

	svgCmd.Flags().StringVarP(&svgOutput, "output", "o", "flamegraph.svg", "output file")
	svgCmd.Flags().Float64Var(&svgWidth, "width", 1200, "image width in pixels")
	rootCmd.AddCommand(svgCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
