package cli

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/matzehuels/infinicanvas/pkg/geom"
	canvasio "github.com/matzehuels/infinicanvas/pkg/io"
	"github.com/matzehuels/infinicanvas/pkg/pipeline"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

// Terminal cells are treated as 8x16 pixel blocks, drawn as two stacked
// half-block pixels each.
const (
	cellWidth  = 8
	cellHeight = 16

	// wheelNotches is how many wheel steps one terminal wheel event applies.
	wheelNotches = 10
	// keyPanStep is the pan distance of one arrow key press, in pixels.
	keyPanStep  = 40
	sliderWidth = 20
)

// viewCommand creates the interactive terminal view command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		state   string
		avatar  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore the canvas in the terminal",
		Long: `Explore the canvas interactively in the terminal.

Mouse: wheel zooms at the cursor, drag with the left button pans.
Keys:  + / - ratio   tab / shift+tab anchor   1-9 pick anchor   0 reset
       arrows pan    e export PNG   w write view JSON   q quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap := c.Config.Snapshot()
			if state != "" {
				s, err := canvasio.ImportJSON(state)
				if err != nil {
					return err
				}
				snap = s
			}
			if !cmd.Flags().Changed("avatar") {
				avatar = c.Config.Scene.Avatar
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			img, err := runner.Avatar(avatar)
			if err != nil {
				return err
			}

			frameOpts := c.Config.FrameOptions()
			m := newViewModel(ctx, view.RestoreAt(snap.State, snap), runner, pipeline.Options{
				Width:   c.Config.Canvas.Width,
				Height:  c.Config.Canvas.Height,
				Avatar:  avatar,
				Overlay: c.Config.Scene.Overlay,
				Frame:   &frameOpts,
				Logger:  c.Logger,
			}, img)

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if vm, ok := final.(viewModel); ok && vm.lastExport != "" {
				printSuccess(cmd.OutOrStdout(), "Last export")
				printFile(cmd.OutOrStdout(), vm.lastExport)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "view snapshot JSON file to start from")
	cmd.Flags().StringVar(&avatar, "avatar", "", "image file drawn in the scene")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the frame cache for exports")

	return cmd
}

// =============================================================================
// viewModel - Interactive canvas
// =============================================================================

// exportedMsg reports the result of an export key.
type exportedMsg struct {
	path string
	err  error
}

type viewModel struct {
	ctx    context.Context
	holder *view.Holder
	runner *pipeline.Runner
	opts   pipeline.Options // export size and appearance
	avatar image.Image

	cols, rows int
	frame      string
	status     string
	lastExport string
	exportDir  string
	now        func() time.Time
}

func newViewModel(ctx context.Context, h *view.Holder, r *pipeline.Runner, opts pipeline.Options, avatar image.Image) viewModel {
	return viewModel{
		ctx:       ctx,
		holder:    h,
		runner:    r,
		opts:      opts,
		avatar:    avatar,
		cols:      80,
		rows:      24,
		exportDir: ".",
		now:       time.Now,
	}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.frame = m.renderFrame()
	case tea.MouseMsg:
		if m.handleMouse(msg) {
			m.frame = m.renderFrame()
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "exported " + msg.path
			m.lastExport = msg.path
		}
	}
	return m, nil
}

// handleMouse applies wheel and drag events. It reports whether the view
// changed.
func (m *viewModel) handleMouse(msg tea.MouseMsg) bool {
	px, py, inside := m.toPixels(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		if !inside {
			return false
		}
		delta := 1.0
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -1
		}
		for range wheelNotches {
			m.holder.Zoom(view.WheelEvent{X: px, Y: py, DeltaY: delta})
		}
		return true
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if inside {
			m.holder.PanStart(view.PointerEvent{X: px, Y: py})
		}
		return false
	case msg.Action == tea.MouseActionMotion:
		return m.holder.PanMove(view.PointerEvent{X: px, Y: py})
	case msg.Action == tea.MouseActionRelease:
		m.holder.PanEnd()
		return false
	}
	return false
}

func (m viewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := m.holder
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "+", "=":
		h.StepRatio(1)
	case "-", "_":
		h.StepRatio(-1)
	case "tab":
		h.SetAnchor(h.Anchor().Next())
	case "shift+tab":
		h.SetAnchor(h.Anchor().Prev())
	case "0":
		h.Reset()
	case "left":
		m.pan(-keyPanStep, 0)
	case "right":
		m.pan(keyPanStep, 0)
	case "up":
		m.pan(0, -keyPanStep)
	case "down":
		m.pan(0, keyPanStep)
	case "e":
		m.status = "exporting..."
		return m, m.exportFrame()
	case "w":
		path := m.exportPath("json")
		if err := canvasio.ExportJSON(h.Snapshot(), path); err != nil {
			m.status = "write failed: " + err.Error()
		} else {
			m.status = "wrote " + path
		}
		return m, nil
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			h.SetAnchor(geom.Anchors[key[0]-'1'])
		} else {
			return m, nil
		}
	}
	m.frame = m.renderFrame()
	return m, nil
}

// pan moves the view by (dx, dy) unless a mouse drag is in progress.
func (m *viewModel) pan(dx, dy float64) {
	if m.holder.Dragging() {
		return
	}
	m.holder.PanStart(view.PointerEvent{})
	m.holder.PanMove(view.PointerEvent{X: dx, Y: dy})
	m.holder.PanEnd()
}

// exportFrame renders the current view at the configured size through the
// pipeline and writes it as PNG.
func (m viewModel) exportFrame() tea.Cmd {
	opts := m.opts
	opts.View = m.holder.Snapshot()
	opts.View.Drag = nil
	opts.Formats = []string{pipeline.FormatPNG}
	path := m.exportPath(pipeline.FormatPNG)
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			return exportedMsg{err: err}
		}
		out, err := os.Create(path)
		if err != nil {
			return exportedMsg{err: err}
		}
		_, err = out.Write(result.Artifacts[pipeline.FormatPNG])
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		return exportedMsg{path: path, err: err}
	}
}

func (m viewModel) exportPath(ext string) string {
	name := fmt.Sprintf("canvas-%s.%s", m.now().Format("20060102-150405"), ext)
	return filepath.Join(m.exportDir, name)
}

// bodyRows is the number of terminal rows used for the canvas.
func (m viewModel) bodyRows() int {
	return max(m.rows-2, 1)
}

// toPixels maps a terminal cell to the centre of its pixel block. The first
// row is the header.
func (m viewModel) toPixels(x, y int) (float64, float64, bool) {
	row := y - 1
	inside := x >= 0 && x < m.cols && row >= 0 && row < m.bodyRows()
	return float64(x*cellWidth + cellWidth/2), float64(row*cellHeight + cellHeight/2), inside
}

func (m viewModel) View() string {
	var b strings.Builder
	h := m.holder

	b.WriteString(StyleTitle.Render("infinicanvas"))
	b.WriteString(StyleDim.Render("  zoom "))
	b.WriteString(StyleValue.Render(h.State().ZoomIndicator()))
	if h.Dragging() {
		b.WriteString(StyleDim.Render("  dragging"))
	}
	b.WriteString("\n")

	frame := m.frame
	if frame == "" {
		frame = m.renderFrame()
	}
	b.WriteString(frame)
	b.WriteString("\n")

	b.WriteString(ratioSlider(h.Ratio()))
	b.WriteString(StyleDim.Render("  anchor "))
	b.WriteString(StyleHighlight.Render(h.Anchor().Label()))
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(StyleWarning.Render(m.status))
	}
	return b.String()
}

// renderFrame draws the canvas at cell-pixel resolution and folds it into
// half-block characters.
func (m viewModel) renderFrame() string {
	rows := m.bodyRows()
	cols := max(m.cols, 1)

	opts := m.opts
	opts.Width = cols * cellWidth
	opts.Height = rows * cellHeight
	opts.View = m.holder.Snapshot()
	img := imaging.Resize(pipeline.RenderImage(opts, m.avatar), cols, rows*2, imaging.Box)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			top := hexColor(img.At(x, 2*y))
			bottom := hexColor(img.At(x, 2*y+1))
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
	}
	return b.String()
}

// hexColor converts a pixel to "#rrggbb". Transparent pixels come out black.
func hexColor(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// ratioSlider draws the display ratio as a slider over [MinRatio, MaxRatio].
func ratioSlider(ratio float64) string {
	pos := int((ratio - view.MinRatio) / (view.MaxRatio - view.MinRatio) * sliderWidth)
	pos = min(max(pos, 0), sliderWidth)
	bar := strings.Repeat("━", pos) + "●" + strings.Repeat("─", sliderWidth-pos)
	return StyleDim.Render("ratio ") + StyleHighlight.Render(bar) + " " + StyleValue.Render(fmt.Sprintf("%.1f", ratio))
}
