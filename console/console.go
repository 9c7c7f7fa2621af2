package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wricardo/sentry-grid/game/engine"
	"golang.org/x/term"
)

const menu = `
=== Sentry Grid ===
 1) Add guard
 2) Add fence
 3) Add sensor
 4) Add camera
 5) Add laser barrier
 6) Check safe directions
 7) Find path
 8) Display map
 9) List obstacles
 0) Quit`

// Console is an interactive menu over a single world
type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	engine engine.Engine
	styles map[rune]lipgloss.Style
}

// New creates a console. Map symbols are coloured when color is true.
func New(in io.Reader, out io.Writer, eng engine.Engine, color bool) *Console {
	c := &Console{
		in:     bufio.NewScanner(in),
		out:    out,
		engine: eng,
	}
	if color {
		c.styles = symbolStyles()
	}
	return c
}

// Run starts a console on in/out, colouring the map when out is a terminal
func Run(ctx context.Context, in io.Reader, out io.Writer, eng engine.Engine) error {
	return New(in, out, eng, isTerminal(out)).Run(ctx)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func symbolStyles() map[rune]lipgloss.Style {
	return map[rune]lipgloss.Style{
		'G': lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		'F': lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		'S': lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		'C': lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		'L': lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		'.': lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Run loops over the menu until the user quits, input ends or ctx is done
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(c.out, menu)
		choice, err := c.readInt("Choice: ")
		if err != nil {
			return c.finish(err)
		}

		switch choice {
		case 0:
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		case 1, 2, 3, 4, 5:
			err = c.addObstacle(engine.Kinds[choice-1])
		case 6:
			err = c.safeDirections()
		case 7:
			err = c.findPath(ctx)
		case 8:
			err = c.displayMap()
		case 9:
			c.listObstacles()
		default:
			fmt.Fprintf(c.out, "Unknown option %d.\n", choice)
		}

		if err != nil {
			return c.finish(err)
		}
	}
}

// finish treats the end of input as a normal quit
func (c *Console) finish(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(c.out)
		return nil
	}
	return err
}

// Prompting

func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) readInt(prompt string) (int, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(c.out, "%q is not a whole number, try again.\n", line)
	}
}

func (c *Console) readFloat(prompt string) (float64, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(line, 64)
		if err == nil {
			return f, nil
		}
		fmt.Fprintf(c.out, "%q is not a number, try again.\n", line)
	}
}

func (c *Console) readDirection(prompt string) (engine.Direction, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return "", err
		}
		d, err := engine.ParseDirection(line)
		if err == nil {
			return d, nil
		}
		fmt.Fprintf(c.out, "%v, try again.\n", err)
	}
}

func (c *Console) readPosition(label string) (engine.Position, error) {
	x, err := c.readInt(label + " x: ")
	if err != nil {
		return engine.Position{}, err
	}
	y, err := c.readInt(label + " y: ")
	if err != nil {
		return engine.Position{}, err
	}
	return engine.Position{X: x, Y: y}, nil
}

// Actions

// addObstacle prompts for the parameters of kind and re-asks until the
// obstacle can be built
func (c *Console) addObstacle(kind engine.Kind) error {
	for {
		spec, err := c.readSpec(kind)
		if err != nil {
			return err
		}

		placed, err := c.engine.AddObstacle(spec)
		if err != nil {
			fmt.Fprintf(c.out, "Cannot add %s: %v\n", kind, err)
			continue
		}

		fmt.Fprintf(c.out, "Added %s.\n", engine.Describe(placed.Obstacle))
		return nil
	}
}

func (c *Console) readSpec(kind engine.Kind) (engine.ObstacleSpec, error) {
	spec := engine.ObstacleSpec{Kind: string(kind)}

	label := "Location"
	if kind == engine.KindFence {
		label = "Start"
	}
	location, err := c.readPosition(label)
	if err != nil {
		return spec, err
	}
	spec.Location = location

	switch kind {
	case engine.KindFence:
		end, err := c.readPosition("End")
		if err != nil {
			return spec, err
		}
		spec.End = &end
	case engine.KindSensor:
		if spec.Range, err = c.readFloat("Range: "); err != nil {
			return spec, err
		}
	case engine.KindCamera:
		d, err := c.readDirection("Facing (N/S/E/W): ")
		if err != nil {
			return spec, err
		}
		spec.Direction = string(d)
	case engine.KindLaser:
		d, err := c.readDirection("Facing (N/S/E/W): ")
		if err != nil {
			return spec, err
		}
		spec.Direction = string(d)
		if spec.Duration, err = c.readInt("Duration: "); err != nil {
			return spec, err
		}
	}

	return spec, nil
}

func (c *Console) safeDirections() error {
	p, err := c.readPosition("Position")
	if err != nil {
		return err
	}

	report := c.engine.SafeDirections(p)
	switch {
	case report.Blocked:
		by := "an obstacle"
		if placed, ok := c.engine.BlockedBy(p); ok {
			by = engine.Describe(placed.Obstacle)
		}
		fmt.Fprintf(c.out, "(%d,%d) is compromised by %s. No direction is safe.\n", p.X, p.Y, by)
	case len(report.Safe) == 0:
		fmt.Fprintf(c.out, "(%d,%d) is boxed in. No direction is safe.\n", p.X, p.Y)
	default:
		names := make([]string, len(report.Safe))
		for i, d := range report.Safe {
			names[i] = d.Name()
		}
		fmt.Fprintf(c.out, "Safe directions from (%d,%d): %s\n", p.X, p.Y, strings.Join(names, ", "))
	}
	return nil
}

func (c *Console) findPath(ctx context.Context) error {
	start, err := c.readPosition("Start")
	if err != nil {
		return err
	}
	goal, err := c.readPosition("Goal")
	if err != nil {
		return err
	}

	result := c.engine.FindPath(ctx, start, goal)
	switch result.Outcome {
	case engine.PathFound:
		fmt.Fprintf(c.out, "Path of %d moves: %s\n", len(result.Moves), engine.FormatMoves(result.Moves))
	case engine.AlreadyThere:
		fmt.Fprintln(c.out, "Already at the goal.")
	case engine.GoalBlocked:
		fmt.Fprintf(c.out, "The goal (%d,%d) is compromised.\n", goal.X, goal.Y)
	case engine.SearchLimit:
		fmt.Fprintf(c.out, "Gave up after exploring %d cells.\n", result.Explored)
	default:
		fmt.Fprintln(c.out, "No safe path exists.")
	}
	return nil
}

// displayMap re-prompts until the window is drawable
func (c *Console) displayMap() error {
	for {
		topLeft, err := c.readPosition("Top-left")
		if err != nil {
			return err
		}
		bottomRight, err := c.readPosition("Bottom-right")
		if err != nil {
			return err
		}

		window := engine.Window{TopLeft: topLeft, BottomRight: bottomRight}
		if window.Exceeds(engine.MaxRenderCells) {
			fmt.Fprintf(c.out, "That window has more than %d cells, pick a smaller one.\n", engine.MaxRenderCells)
			continue
		}

		view := c.engine.RenderMap(topLeft, bottomRight)
		if view.Empty() {
			fmt.Fprintln(c.out, "Bottom-right must be south-east of top-left, try again.")
			continue
		}

		c.printMap(view)
		return nil
	}
}

func (c *Console) printMap(view engine.MapView) {
	for _, row := range view.Rows {
		if c.styles == nil {
			fmt.Fprintln(c.out, row)
			continue
		}

		var b strings.Builder
		for _, r := range row {
			if style, ok := c.styles[r]; ok {
				b.WriteString(style.Render(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
		fmt.Fprintln(c.out, b.String())
	}
}

func (c *Console) listObstacles() {
	obstacles := c.engine.Obstacles()
	if len(obstacles) == 0 {
		fmt.Fprintln(c.out, "No obstacles yet.")
		return
	}
	for i, o := range obstacles {
		fmt.Fprintf(c.out, "%3d. [%s] %s\n", i+1, o.Symbol, engine.Describe(o.Obstacle))
	}
}
