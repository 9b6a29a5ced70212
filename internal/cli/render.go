package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/infinicanvas/pkg/errors"
	"github.com/matzehuels/infinicanvas/pkg/geom"
	canvasio "github.com/matzehuels/infinicanvas/pkg/io"
	"github.com/matzehuels/infinicanvas/pkg/pipeline"
)

// defaultBase is the output file name used when -o is not given.
const defaultBase = "canvas"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file (single format) or base path (multiple)
	formats   string // comma-separated formats
	width     int
	height    int
	scale     float64
	offsetX   float64
	offsetY   float64
	ratio     float64
	anchor    string
	state     string // snapshot JSON to start from
	avatar    string
	overlay   bool
	noCache   bool
	refresh   bool
	embedFont bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame of the canvas",
		Long: `Render one frame of the canvas to PNG, SVG or JSON.

The view starts from the configuration file, then from --state if given,
then from individual flags such as --scale and --anchor.`,
		Example: `  infinicanvas render -o canvas.png
  infinicanvas render -f png,svg --scale 2 --anchor LT --overlay
  infinicanvas render --state view.json -f json -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.renderOptions(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd, popts, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file, base path for several formats, or - for stdout")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): png, svg, json (comma-separated)")
	f.IntVar(&opts.width, "width", 0, "frame width in pixels")
	f.IntVar(&opts.height, "height", 0, "frame height in pixels")
	f.Float64Var(&opts.scale, "scale", 1, "zoom level (0.1 to 5)")
	f.Float64Var(&opts.offsetX, "offset-x", 0, "horizontal pan in pixels")
	f.Float64Var(&opts.offsetY, "offset-y", 0, "vertical pan in pixels")
	f.Float64Var(&opts.ratio, "ratio", 1, "display ratio of the scene shapes (0.1 to 5)")
	f.StringVar(&opts.anchor, "anchor", "", "scaling anchor: LT, RT, RB, LB, TC, BC, LC, RC, CC")
	f.StringVar(&opts.state, "state", "", "view snapshot JSON file to start from")
	f.StringVar(&opts.avatar, "avatar", "", "image file drawn in the scene")
	f.BoolVar(&opts.overlay, "overlay", false, "draw zoom, ratio and anchor in the corner")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the frame cache")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached frames")
	f.BoolVar(&opts.embedFont, "embed-font", false, "embed the label font in SVG output")

	return cmd
}

// renderOptions merges configuration, snapshot file and flags into pipeline
// options. Flags only override when given explicitly.
func (c *CLI) renderOptions(cmd *cobra.Command, opts *renderOpts) (pipeline.Options, error) {
	cfg := c.Config
	changed := cmd.Flags().Changed

	snap := cfg.Snapshot()
	if opts.state != "" {
		s, err := canvasio.ImportJSON(opts.state)
		if err != nil {
			return pipeline.Options{}, err
		}
		snap = s
	}
	if changed("scale") {
		snap.State.Scale = opts.scale
	}
	if changed("offset-x") {
		snap.State.OffsetX = opts.offsetX
	}
	if changed("offset-y") {
		snap.State.OffsetY = opts.offsetY
	}
	if changed("ratio") {
		snap.Ratio = opts.ratio
	}
	if changed("anchor") {
		a, err := geom.ParseAnchor(opts.anchor)
		if err != nil {
			return pipeline.Options{}, err
		}
		snap.Anchor = a
	}

	frameOpts := cfg.FrameOptions()
	popts := pipeline.Options{
		Width:     cfg.Canvas.Width,
		Height:    cfg.Canvas.Height,
		View:      snap,
		Formats:   parseFormats(opts.formats, cfg.Canvas.Formats),
		Overlay:   opts.overlay || cfg.Scene.Overlay,
		Avatar:    cfg.Scene.Avatar,
		EmbedFont: opts.embedFont,
		Refresh:   opts.refresh,
		Frame:     &frameOpts,
	}
	if changed("width") {
		popts.Width = opts.width
	}
	if changed("height") {
		popts.Height = opts.height
	}
	if changed("avatar") {
		popts.Avatar = opts.avatar
	}

	if err := popts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	if opts.output == "-" && len(popts.Formats) > 1 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(popts.Formats))
	}
	return popts, nil
}

// runRender executes the pipeline and writes every artifact. Status lines
// move to stderr when the artifact itself goes to stdout.
func (c *CLI) runRender(cmd *cobra.Command, popts pipeline.Options, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	stdout, status := cmd.OutOrStdout(), cmd.OutOrStdout()
	if opts.output == "-" {
		status = cmd.ErrOrStderr()
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts.Logger = logger
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), status, "Rendering frame...")
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}

	paths := outputPaths(opts.output, popts.Formats)
	written, err := writeArtifacts(stdout, result.Artifacts, popts.Formats, paths)
	if err != nil {
		spinner.StopWithError("Write failed")
		return err
	}
	spinner.StopWithSuccess("Rendered " + StyleHighlight.Render(strings.Join(popts.Formats, ", ")))
	prog.done("Rendered frame")

	printFrameStats(status, popts.Width, popts.Height, result.View.State.ZoomIndicator(), result.CacheInfo.RenderHit)
	for _, p := range written {
		printFile(status, p)
	}
	return nil
}

// outputPaths maps each format to its destination. A single format goes to
// output (default canvas.<format>); several formats share a base path.
func outputPaths(output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 {
		p := output
		if p == "" {
			p = defaultBase + "." + formats[0]
		}
		paths[formats[0]] = p
		return paths
	}
	base := basePath(output)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension from output, or returns the
// default base when output is empty.
func basePath(output string) string {
	if output == "" {
		return defaultBase
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes artifacts in format order and returns the paths
// written. The path "-" writes to stdout and is reported as "stdout".
func writeArtifacts(stdout io.Writer, artifacts map[string][]byte, formats []string, paths map[string]string) ([]string, error) {
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := paths[f]
		out, err := openOutput(stdout, path)
		if err != nil {
			return written, fmt.Errorf("open %s: %w", path, err)
		}
		_, err = out.Write(artifacts[f])
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		if path == "-" {
			path = "stdout"
		}
		written = append(written, path)
	}
	return written, nil
}
