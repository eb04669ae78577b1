package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doppelganger/archviz/pkg/config"
	"github.com/doppelganger/archviz/pkg/diagram"
	"github.com/doppelganger/archviz/pkg/diagram/batch"
	"github.com/doppelganger/archviz/pkg/errors"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	configPath  string // path to archviz.toml ("" = default lookup)
	output      string // output directory override
	format      string // output format override
	only        string // comma-separated file stems to render
	noCache     bool   // disable the render artifact cache
	interactive bool   // pick a single diagram interactively
}

// generateCommand creates the generate command, the batch entry point.
//
// Every registered diagram is attempted; a failing diagram is reported with
// its name and intended path but does not abort the batch, and the command
// exits zero after attempting all of them.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render all architecture diagrams",
		Long: `Render all architecture diagrams into the output directory.

The diagram set is the built-in generators plus any YAML topology files
configured in archviz.toml. Each diagram is rendered independently: a
failure is reported and the batch continues with the next diagram.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default archviz.toml if present)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (overrides config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png (default), jpg, svg, dot")
	cmd.Flags().StringVar(&opts.only, "only", "", "render only the given file stem(s), comma-separated")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render artifact cache")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick a single diagram interactively")

	return cmd
}

// runGenerate resolves configuration, assembles the registry, and runs the batch.
func (c *CLI) runGenerate(ctx context.Context, opts generateOpts) error {
	cfg, reg, err := c.resolve(opts.configPath, opts.output, opts.format)
	if err != nil {
		return err
	}

	if opts.only != "" {
		if reg, err = filterRegistry(reg, strings.Split(opts.only, ",")); err != nil {
			return err
		}
	}
	if opts.interactive {
		g, err := pickGenerator(reg)
		if err != nil {
			return err
		}
		if g == nil {
			printInfo("No diagram selected")
			return nil
		}
		if reg, err = diagram.NewRegistry(g); err != nil {
			return err
		}
	}

	if reg.Len() == 0 {
		printWarning("No diagrams to generate")
		return nil
	}

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering diagrams...")
	spinner.Start()

	report, err := runner.Run(ctx, reg, batch.Options{
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
	})
	spinner.Stop()
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("generate: %w", err)
	}

	printReport(report)
	prog.done(report.Summary())
	return nil
}

// resolve loads the config, applies flag overrides, and builds the registry.
func (c *CLI) resolve(configPath, output, format string) (config.Config, *diagram.Registry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if output != "" {
		cfg.OutputDir = output
	}
	if format != "" {
		cfg.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, reg, nil
}

// filterRegistry narrows a registry to the given file stems.
func filterRegistry(reg *diagram.Registry, stems []string) (*diagram.Registry, error) {
	out, err := diagram.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, stem := range stems {
		stem = strings.TrimSpace(stem)
		g, ok := reg.Get(stem)
		if !ok {
			return nil, errors.New(errors.ErrCodeDiagramNotFound, "unknown diagram %q", stem)
		}
		if err := out.Add(g); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// printReport prints the per-diagram outcome lines.
func printReport(report *batch.Report) {
	for _, res := range report.Results {
		if res.Failed() {
			printError("%s", res.Name)
			printDetail("%s: %s", res.Path, errors.UserMessage(res.Err))
			continue
		}
		if res.Cached {
			printSuccess("%s %s", res.Name, StyleDim.Render("(cached)"))
		} else {
			printSuccess("%s", res.Name)
		}
		printFile(res.Path)
	}
}
