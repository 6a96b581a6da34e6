// Package cli holds the flag and logging setup shared by the binaries.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/config"
	"github.com/spf13/cobra"
)

// Flags are the options every binary accepts.
type Flags struct {
	ConfigPath string
	Verbose    bool
	Landmark   string
	Width      int
	Height     int
}

// Register adds the common flags to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ConfigPath, "config", "", "YAML config file")
	cmd.Flags().BoolVarP(&f.Verbose, "verbose", "v", false, "debug logging")
	cmd.Flags().StringVar(&f.Landmark, "start", "", fmt.Sprintf("starting landmark %v", mandel.LandmarkNames()))
	cmd.Flags().IntVar(&f.Width, "width", 0, "frame width (overrides config)")
	cmd.Flags().IntVar(&f.Height, "height", 0, "frame height (overrides config)")
}

// InstallLogger logs to stderr at info level, or debug when verbose.
func InstallLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	mandel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Setup is the result of Load.
type Setup struct {
	Config     config.Config
	Iterations int
}

// Load reads the config, applies flag overrides and the positional
// iteration argument, and installs the logger.
func (f *Flags) Load(args []string) (Setup, error) {
	InstallLogger(f.Verbose)

	c, err := config.Load(f.ConfigPath)
	if err != nil {
		return Setup{}, err
	}
	if f.Landmark != "" {
		c.Start.Landmark = f.Landmark
	}
	if f.Width > 0 {
		c.Window.Width = f.Width
	}
	if f.Height > 0 {
		c.Window.Height = f.Height
	}
	if err := c.Validate(); err != nil {
		return Setup{}, err
	}
	return Setup{
		Config:     c,
		Iterations: config.ParseIterations(args, c.Iterations.Initial),
	}, nil
}

// SessionOptions builds the session settings for s. The renderer and
// pipeline are left to the caller.
func (s Setup) SessionOptions(gpu bool) (mandel.SessionOptions, error) {
	start, err := s.Config.StartView()
	if err != nil {
		return mandel.SessionOptions{}, err
	}
	return mandel.SessionOptions{
		Start:      start,
		Motion:     s.Config.Motion(),
		Budget:     s.Config.Budget(),
		Precision:  s.Config.PrecisionPolicy(gpu),
		Iterations: s.Iterations,
		Reveal:     s.Config.Iterations.Reveal,
	}, nil
}

// Execute runs cmd with the process arguments. Bare negative numbers are
// moved behind "--" so they reach the command as positional arguments
// instead of failing as unknown shorthand flags.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	cmd.SetArgs(NegativeArgs(cmd, os.Args[1:]))
	return cmd.ExecuteContext(ctx)
}

// NegativeArgs returns args with every argument that starts with '-' and a
// digit moved after a "--" separator. Values of flags that take an
// argument, such as "--x -0.5", stay where they are.
func NegativeArgs(cmd *cobra.Command, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case looksNegative(a):
			positional = append(positional, a)
		default:
			flags = append(flags, a)
			if takesValue(cmd, a) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		}
	}
	if len(positional) == 0 {
		return args
	}
	return append(append(flags, "--"), positional...)
}

func looksNegative(a string) bool {
	return len(a) > 1 && a[0] == '-' && a[1] >= '0' && a[1] <= '9'
}

// takesValue reports whether a is a flag whose value is the next argument.
func takesValue(cmd *cobra.Command, a string) bool {
	if strings.Contains(a, "=") {
		return false
	}
	fs := cmd.Flags()
	switch {
	case strings.HasPrefix(a, "--"):
		f := fs.Lookup(a[2:])
		return f != nil && f.NoOptDefVal == ""
	case len(a) == 2 && a[0] == '-':
		f := fs.ShorthandLookup(a[1:])
		return f != nil && f.NoOptDefVal == ""
	}
	return false
}
