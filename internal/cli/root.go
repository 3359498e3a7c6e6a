// Package cli implements the edgevec command line: the "test", "convert" and
// "menu" commands that drive the edge vectorization pipeline.
package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/edgevec/internal/config"
	"github.com/ironsheep/edgevec/internal/imaging"
	"github.com/ironsheep/edgevec/internal/pipeline"
)

// BuildInfo carries version information set by ldflags at build time.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// app is the state shared by all subcommands once configuration is loaded.
type app struct {
	v        *viper.Viper
	cfgFile  string
	cfg      *config.Config
	log      *logrus.Logger
	pipeline *pipeline.Pipeline
}

func (a *app) testPaths() pipeline.TestPaths {
	return pipeline.TestPaths{
		Input:  a.cfg.Test.Input,
		Gray:   a.cfg.Test.Gray,
		Edge:   a.cfg.Test.Edge,
		Vector: a.cfg.Test.Vector,
	}
}

// NewRootCommand builds the edgevec command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "edgevec",
		Short: "Convert raster images into SVG edge silhouettes",
		Long: `edgevec converts an image to grayscale, runs a Sobel edge detector and
writes an SVG with one black unit square per edge pixel.

Settings are read from edgevec.yaml (working directory or
$HOME/.config/edgevec), EDGEVEC_* environment variables and flags.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("edgevec %s\n  Build time: %s\n  Git commit: %s\n",
		info.Version, info.BuildTime, info.GitCommit))

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default edgevec.yaml)")
	flags.Int("threshold", 0, "draw pixels with edge intensity below this value (0-255, default 100)")
	flags.String("fill", "", `fill color of emitted squares (default "black")`)
	flags.String("log-level", "", "log level: debug, info, warn, error (default info)")
	flags.String("log-format", "", "log format: text or json (default text)")
	_ = a.v.BindPFlag("threshold", flags.Lookup("threshold"))
	_ = a.v.BindPFlag("fill", flags.Lookup("fill"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		newTestCommand(a),
		newConvertCommand(a),
		newMenuCommand(a),
	)
	return root
}

// setup reads configuration and builds the logger and pipeline.
func (a *app) setup() error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Parse(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.NewLogger()

	p, err := pipeline.New(cfg.VectorOptions(),
		pipeline.WithLogger(a.log),
		pipeline.WithCache(imaging.NewImageCache()),
	)
	if err != nil {
		return err
	}
	a.pipeline = p

	a.log.WithFields(logrus.Fields{
		"threshold": cfg.Threshold,
		"fill":      cfg.Fill,
		"config":    a.v.ConfigFileUsed(),
	}).Debug("configuration loaded")
	return nil
}

func newTestCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the full pipeline on the test image and save every stage",
		Long: `Reads the test input (default test_input.png) and writes the grayscale
image, the edge image and the SVG (defaults test_input_gray.png,
test_output.png and test_output.svg).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.pipeline.Test(a.testPaths()); err != nil {
				return fmt.Errorf("failed to process image: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Image processed successfully.")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "test input image")
	flags.String("gray", "", "grayscale output PNG")
	flags.String("edge", "", "edge output PNG")
	flags.String("vector", "", "vector output SVG")
	_ = a.v.BindPFlag("test.input", flags.Lookup("input"))
	_ = a.v.BindPFlag("test.gray", flags.Lookup("gray"))
	_ = a.v.BindPFlag("test.edge", flags.Lookup("edge"))
	_ = a.v.BindPFlag("test.vector", flags.Lookup("vector"))

	return cmd
}

func newConvertCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <image>",
		Short: "Convert an image to <name>_edge.svg next to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _, err := a.pipeline.Convert(args[0])
			if err != nil {
				return fmt.Errorf("failed to process image: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Image processed successfully.")
			fmt.Fprintf(w, "Vector image saved as: %s\n", out)
			return nil
		},
	}
}

func newMenuCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := NewMenu(a.pipeline, a.testPaths(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			return m.Run()
		},
	}
}

// Execute runs the root command with the given arguments and streams.
func Execute(info BuildInfo, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := NewRootCommand(info)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}
