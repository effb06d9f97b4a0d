package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-theft-auto/shell"
	"github.com/go-theft-auto/shell/backend/opengl"
	"github.com/go-theft-auto/shell/bus"
	"github.com/go-theft-auto/shell/config"
	"github.com/go-theft-auto/shell/font"
	"github.com/go-theft-auto/shell/resource"
)

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath string
	FontDir    string
	Verbose    bool
}

// NewRootCommand creates the root command for the shell binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Desktop GUI application shell",
		Long: `Runs the application shell: spawns the engine and UI threads,
opens the window, and supervises until quit.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.FontDir, "fonts", "", "font directory override")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	return cmd
}

func runShell(opts *RootOptions) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Load(opts.ConfigPath, logger)
	if opts.Verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	shell.SetVerbose(cfg.Verbose)
	bus.SetVerbose(cfg.Verbose)
	font.SetVerbose(cfg.Verbose)

	fontDir := opts.FontDir
	if fontDir == "" {
		base, err := resource.BaseDir(cfg.ResourceDir)
		if err != nil {
			return fmt.Errorf("resolving resource path: %w", err)
		}
		fontDir = resource.FontsDir(base)
	}

	fonts := font.NewManager(fontDir, font.WithSizePx(cfg.FontSizePx))
	if err := fonts.ReloadListFromResources(); err != nil {
		// The shell can run without bundled fonts; the renderer falls
		// back to its built-in bitmap font.
		logger.Warn("font scan failed, continuing without bundled fonts", "error", err)
	}

	window, err := opengl.NewWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()

	atlasTex := opengl.NewAtlasTexture()
	defer atlasTex.Delete()

	quitSent := false
	coordinator := shell.NewCoordinator(shell.NewSharedState(),
		shell.WithPollInterval(time.Duration(cfg.PollInterval)),
		shell.WithTickInterval(time.Duration(cfg.TickInterval)),
		shell.WithQueueCapacity(cfg.QueueCapacity),
		shell.WithProgramWork(func(tc *shell.ThreadContext) {
			window.PollEvents()
			window.BeginFrame()

			rebuilt, err := fonts.RebuildFontIfNeeded(atlasTex)
			if err != nil {
				logger.Warn("font atlas rebuild failed", "error", err)
			} else if rebuilt {
				// The new texture must reach the renderer before the
				// next text draw; drawing with the old one crashes.
				logger.Info("font atlas rebuilt", "texture", atlasTex.ID())
			}

			window.SwapBuffers()

			if window.ShouldClose() && !quitSent {
				quitSent = true
				if err := tc.Sender.Send(bus.QuitAppNoError{Reason: bus.QuitInteractionByUser}); err != nil {
					logger.Warn("quit message not delivered", "error", err)
				}
			}
		}),
	)

	if err := coordinator.Run(); err != nil {
		return fmt.Errorf("shell exited: %w", err)
	}
	return nil
}
