package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/eyedropper-mcp/internal/capture"
	"github.com/ironsheep/eyedropper-mcp/internal/config"
	"github.com/ironsheep/eyedropper-mcp/internal/display"
	"github.com/ironsheep/eyedropper-mcp/internal/imaging"
	"github.com/ironsheep/eyedropper-mcp/internal/logging"
	"github.com/ironsheep/eyedropper-mcp/internal/preview"
	"github.com/ironsheep/eyedropper-mcp/internal/sampler"
	"github.com/ironsheep/eyedropper-mcp/internal/server"
)

type rootOptions struct {
	configPath string
	verbose    bool

	settings config.Settings
	log      *logrus.Logger
}

type pointOptions struct {
	cursorX, cursorY       float64
	cursorXSet, cursorYSet bool
	image                  string
	scale                  float64
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var withPreview bool

	root := &cobra.Command{
		Use:   "eyedropper-mcp",
		Short: "MCP server for sampling on-screen colors",
		Long: `eyedropper-mcp reads the exact displayed color of any logical pixel on any
attached monitor and renders magnified views of the surrounding pixels.

Run without a subcommand it serves the MCP protocol over stdin/stdout.`,
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return runServe(ctx, opts, withPreview, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "settings file (default $"+config.EnvConfig+" or ~/.eyedropper/settings.ini)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().BoolVar(&withPreview, "preview", false, "also serve the last magnified image over HTTP")

	root.AddCommand(
		newSampleCmd(opts),
		newMagnifyCmd(opts),
		newMonitorsCmd(opts),
		newPreviewCmd(opts),
		newVersionCmd(),
	)
	return root
}

// init loads settings and configures logging. Logs go to stderr because
// stdout carries the MCP protocol.
func (o *rootOptions) init() error {
	settings, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.settings = settings

	o.log = logging.New(os.Stderr, settings.Level())
	if o.verbose {
		o.log.SetLevel(logrus.DebugLevel)
	}

	for _, idx := range settings.DisplayIndexes() {
		o.log.WithFields(logrus.Fields{
			"display": idx,
			"scale":   settings.DisplayScale[idx],
		}).Debug("display scale override")
	}
	return nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// runServe serves MCP on in/out until in is exhausted or ctx is cancelled.
// On cancellation it returns without waiting for the blocked read on in.
func runServe(ctx context.Context, opts *rootOptions, withPreview bool, in io.Reader, out io.Writer) error {
	srv, err := server.New(server.Options{
		Settings: opts.settings,
		Logger:   opts.log,
		Version:  Version,
	})
	if err != nil {
		return err
	}

	opts.log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("eyedropper MCP server starting")

	if withPreview {
		pv := preview.New(srv.Slot(), opts.log)
		go func() {
			if err := pv.ListenAndServe(ctx, opts.settings.PreviewAddr); err != nil {
				opts.log.WithError(err).Error("preview server stopped")
			}
		}()
	}

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(in, out)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		opts.log.Debug("eyedropper MCP server stopping")
		return nil
	}
}

func addPointFlags(cmd *cobra.Command, p *pointOptions) {
	cmd.Flags().Float64Var(&p.cursorX, "cursor-x", 0, "desktop pointer X in physical pixels (with --cursor-y; default: primary monitor)")
	cmd.Flags().Float64Var(&p.cursorY, "cursor-y", 0, "desktop pointer Y in physical pixels (with --cursor-x; default: primary monitor)")
	cmd.Flags().StringVar(&p.image, "image", "", "sample this screenshot instead of the live screen")
	cmd.Flags().Float64Var(&p.scale, "scale", 1, "scale factor of the --image screenshot")
}

func parsePoint(args []string) (display.LogicalPoint, error) {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return display.LogicalPoint{}, fmt.Errorf("invalid x %q: %w", args[0], err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return display.LogicalPoint{}, fmt.Errorf("invalid y %q: %w", args[1], err)
	}
	return display.LogicalPoint{X: x, Y: y}, nil
}

// newSampler builds a sampler for a CLI invocation.
func newSampler(opts *rootOptions, p *pointOptions, gridLines bool) (*sampler.Sampler, error) {
	cfg := sampler.Config{
		Radius:  opts.settings.MagnifyRadius,
		Ratio:   opts.settings.MagnifyRatio,
		Magnify: imaging.MagnifyOptions{GridLines: gridLines},
	}

	if p.image != "" {
		img, err := imgio.Open(p.image)
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", p.image, err)
		}
		src := capture.NewImageAdapter(img, capture.EncodingSRGB)
		return sampler.New(display.StaticProvider{src.Monitor(p.scale)}, src, cfg, sampler.WithLogger(opts.log))
	}

	if p.cursorXSet != p.cursorYSet {
		return nil, errors.New("--cursor-x and --cursor-y must be given together")
	}
	monitors := display.NewScreenProvider(opts.settings.DisplayScale)
	var cursor display.CursorSource = display.PrimaryCursor{Provider: monitors}
	if p.cursorXSet {
		cursor = display.FixedCursor{X: p.cursorX, Y: p.cursorY}
	} else {
		opts.log.Debug("no cursor given, sampling relative to the primary monitor")
	}
	return sampler.New(
		monitors,
		&capture.ScreenAdapter{Encoding: opts.settings.Encoding()},
		cfg,
		sampler.WithLogger(opts.log),
		sampler.WithCursor(cursor),
	)
}

func newSampleCmd(opts *rootOptions) *cobra.Command {
	p := &pointOptions{}
	var format string

	cmd := &cobra.Command{
		Use:   "sample X Y",
		Short: "Print the color of one logical pixel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parsePoint(args)
			if err != nil {
				return err
			}
			p.cursorXSet, p.cursorYSet = cmd.Flags().Changed("cursor-x"), cmd.Flags().Changed("cursor-y")

			smp, err := newSampler(opts, p, false)
			if err != nil {
				return err
			}
			c, err := smp.SampleColor(pt)
			if err != nil {
				return err
			}
			formatted, err := imaging.FormatColor(c, format)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]interface{}{
				"color":     imaging.NewColorResult(c),
				"formatted": formatted,
			})
		},
	}
	addPointFlags(cmd, p)
	cmd.Flags().StringVarP(&format, "format", "f", imaging.FormatHex, "color format: hex, rgb, hsl or oklch")
	return cmd
}

func newMagnifyCmd(opts *rootOptions) *cobra.Command {
	p := &pointOptions{}
	var (
		output    string
		gridLines bool
	)

	cmd := &cobra.Command{
		Use:   "magnify X Y",
		Short: "Write a magnified PNG of the pixels around a point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parsePoint(args)
			if err != nil {
				return err
			}
			if output == "" {
				return errors.New("--output is required")
			}
			p.cursorXSet, p.cursorYSet = cmd.Flags().Changed("cursor-x"), cmd.Flags().Changed("cursor-y")

			smp, err := newSampler(opts, p, gridLines)
			if err != nil {
				return err
			}
			m, err := smp.SampleMagnified(pt)
			if err != nil {
				return err
			}
			if err := imgio.Save(output, m.Image, imgio.PNGEncoder()); err != nil {
				return fmt.Errorf("failed to save %s: %w", output, err)
			}
			return printJSON(cmd, map[string]interface{}{
				"output":  output,
				"width":   m.Image.Bounds().Dx(),
				"height":  m.Image.Bounds().Dy(),
				"monitor": m.Monitor.Name,
				"center":  imaging.NewColorResult(m.Center()),
			})
		},
	}
	addPointFlags(cmd, p)
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file to write")
	cmd.Flags().BoolVar(&gridLines, "grid-lines", false, "draw separators between magnified cells")
	return cmd
}

func newMonitorsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "monitors",
		Short: "List attached monitors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			monitors, err := display.NewScreenProvider(opts.settings.DisplayScale).Monitors()
			if err != nil {
				return err
			}
			if monitors == nil {
				monitors = []display.Monitor{}
			}
			return printJSON(cmd, monitors)
		},
	}
}

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	p := &pointOptions{}
	var addr string

	cmd := &cobra.Command{
		Use:   "preview X Y",
		Short: "Magnify a point and serve the image until interrupted",
		Long: `preview magnifies the pixels around X Y once and serves the result on the
preview routes (/last.png, /last/dim, /ws) until interrupted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parsePoint(args)
			if err != nil {
				return err
			}
			p.cursorXSet, p.cursorYSet = cmd.Flags().Changed("cursor-x"), cmd.Flags().Changed("cursor-y")
			if addr == "" {
				addr = opts.settings.PreviewAddr
			}

			smp, err := newSampler(opts, p, true)
			if err != nil {
				return err
			}
			m, err := smp.SampleMagnified(pt)
			if err != nil {
				return err
			}
			res, err := sampler.NewResult(m.Image)
			if err != nil {
				return err
			}
			slot := sampler.NewSlot()
			slot.Store(res)

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return preview.New(slot, opts.log).ListenAndServe(ctx, addr)
		},
	}
	addPointFlags(cmd, p)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "eyedropper-mcp %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
