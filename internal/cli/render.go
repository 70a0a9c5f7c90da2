package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okislab/placemat/pkg/graph"
	"github.com/okislab/placemat/pkg/pipeline"
	"github.com/okislab/placemat/pkg/target"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file path (single target) or base path (multiple)
	targets []string // render targets: dot, svg, png, pdf, json, term
	margin  float64  // region interior margin override
	width   int      // terminal canvas width (term target)
	height  int      // terminal canvas height (term target)
	noCache bool     // disable the artifact cache entirely
	refresh bool     // bypass cached artifacts and re-render
}

// renderCommand creates the render command for generating board visualizations.
//
// Default settings:
//   - target: svg (config "targets" overrides)
//   - margin: built-in resolver margin (config "margin" overrides)
//   - term canvas: 80x24
func (c *CLI) renderCommand() *cobra.Command {
	var targetsStr string
	opts := renderOpts{
		width:  pipeline.DefaultTermWidth,
		height: pipeline.DefaultTermHeight,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a board to one or more targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.targets = c.parseTargets(targetsStr)
			for _, name := range opts.targets {
				if _, err := target.Lookup(name); err != nil {
					return err
				}
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single target) or base path (multiple)")
	cmd.Flags().StringVarP(&targetsStr, "target", "t", "", "render target(s): "+strings.Join(target.Names(), ", ")+" (comma-separated)")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "region interior margin (default from config or built-in)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "terminal canvas width (term target)")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "terminal canvas height (term target)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached artifact exists")

	return cmd
}

// parseTargets parses a comma-separated target string, falling back to the
// config's targets and then to the pipeline default.
func (c *CLI) parseTargets(s string) []string {
	if s == "" {
		if len(c.Config.Targets) > 0 {
			return c.Config.Targets
		}
		return []string{pipeline.DefaultTarget}
	}
	return strings.Split(s, ",")
}

// runRender loads the board document, runs the pipeline, and writes each
// rendered artifact to its output file. The term target prints to stdout
// unless an explicit output path is given.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	doc, err := graph.UnmarshalDocument(data)
	if err != nil {
		return err
	}

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	result, err := runner.Execute(ctx, doc, pipeline.Options{
		Margin:     c.margin(opts.margin),
		Targets:    opts.targets,
		TermWidth:  opts.width,
		TermHeight: opts.height,
		Refresh:    opts.refresh,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	base := renderBasePath(opts.output, input)
	for _, name := range opts.targets {
		tgt, err := target.Lookup(name)
		if err != nil {
			return err
		}
		artifact := result.Artifacts[tgt.Name]

		if tgt.Name == target.Term.Name && opts.output == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(artifact))
			continue
		}

		path := renderOutputPath(base, tgt, len(opts.targets) == 1, opts.output)
		if err := os.WriteFile(path, artifact, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	prog.done(fmt.Sprintf("Rendered %d target(s)", len(opts.targets)))
	printStats(result.Stats.NodeCount, result.Stats.PlacematCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	return nil
}

// renderBasePath derives the base output path from the output and input
// paths. An output path carrying a known target extension is stripped so
// multiple targets land next to each other.
func renderBasePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, err := target.Lookup(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// renderOutputPath builds the destination file for one target. A single
// target with an explicit output keeps that exact path.
func renderOutputPath(base string, tgt target.Target, single bool, output string) string {
	if single && output != "" {
		return output
	}
	ext := tgt.Extension
	if ext == "" {
		ext = ".txt" // term target written to a file
	}
	return base + ext
}
