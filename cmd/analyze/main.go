// Command analyze prints quick, human-readable heuristics about the world
// files in a configs directory. For each world it summarizes obstacle counts
// per kind, draws the default view with its share of open cells, finds a
// shortest safe path for every declared route, and replays recorded moves.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/sentry-grid/game/config"
	"github.com/wricardo/sentry-grid/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "Summarize Sentry Grid world files",
		ArgsUsage: "[config-dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := "configs"
			if cmd.Args().Len() > 0 {
				dir = cmd.Args().First()
			}
			return analyzeDir(ctx, os.Stdout, dir)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// analyzeDir analyzes every valid world known to the config manager
func analyzeDir(ctx context.Context, w io.Writer, dir string) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return fmt.Errorf("no valid world files in %s", dir)
	}

	for _, info := range infos {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", info.Filename)

		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(w, "Error loading world: %v\n", err)
			continue
		}
		if err := analyzeWorld(ctx, w, cfg); err != nil {
			fmt.Fprintf(w, "Error building world: %v\n", err)
		}
	}
	return nil
}

// analyzeWorld prints the summary for a single world
func analyzeWorld(ctx context.Context, w io.Writer, cfg *engine.WorldConfig) error {
	eng, err := engine.NewEngine(cfg)
	if err != nil {
		return err
	}

	placed := eng.Obstacles()
	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Obstacles: %d\n", len(placed))
	for _, kind := range engine.Kinds {
		if n := engine.CountKind(placed, kind); n > 0 {
			fmt.Fprintf(w, "  %-7s %d\n", kind+":", n)
		}
	}

	view := eng.DefaultView()
	fmt.Fprintf(w, "View: (%d,%d)-(%d,%d)\n", view.TopLeft.X, view.TopLeft.Y, view.BottomRight.X, view.BottomRight.Y)
	if view.Exceeds(engine.MaxRenderCells) {
		fmt.Fprintf(w, "View covers more than %d cells, not drawn\n", engine.MaxRenderCells)
	} else {
		m := eng.RenderMap(view.TopLeft, view.BottomRight)
		open, total := openCells(m), view.Cells()
		fmt.Fprintln(w, m.String())
		if total > 0 {
			fmt.Fprintf(w, "Open cells: %d/%d (%.1f%%)\n", open, total, 100*float64(open)/float64(total))
		}
	}

	if len(cfg.Routes) == 0 {
		fmt.Fprintln(w, "Routes: none")
		return nil
	}

	fmt.Fprintln(w, "Routes:")
	for _, route := range cfg.Routes {
		fmt.Fprintf(w, "  %s: %s\n", route.Name, describeRoute(ctx, eng, route))
		if len(route.Moves) > 0 {
			fmt.Fprintf(w, "    recorded: %s\n", describeRecorded(eng, route))
		}
	}
	return nil
}

// describeRoute summarizes the shortest safe path for a route
func describeRoute(ctx context.Context, eng *engine.GridEngine, route engine.Route) string {
	if eng.IsBlocked(route.Start) {
		return fmt.Sprintf("start (%d,%d) is compromised", route.Start.X, route.Start.Y)
	}

	path := eng.FindPath(ctx, route.Start, route.Goal)
	switch path.Outcome {
	case engine.PathFound:
		return fmt.Sprintf("%d moves, detour %d, explored %d cells [%s]",
			len(path.Moves), engine.Detour(path), path.Explored, engine.FormatMoves(path.Moves))
	case engine.AlreadyThere:
		return "start and goal coincide"
	case engine.GoalBlocked:
		return fmt.Sprintf("goal (%d,%d) is compromised", route.Goal.X, route.Goal.Y)
	case engine.SearchLimit:
		return fmt.Sprintf("search gave up after %d cells", path.Explored)
	default:
		return fmt.Sprintf("unreachable after exploring %d cells", path.Explored)
	}
}

// describeRecorded compares a route's recorded moves with the world
func describeRecorded(eng *engine.GridEngine, route engine.Route) string {
	moves, err := engine.ParseMoves(route.Moves)
	if err != nil {
		return err.Error()
	}

	end, step := eng.ReplayMoves(route.Start, moves)
	switch {
	case step > 0:
		return fmt.Sprintf("move %d runs into (%d,%d)", step, end.X, end.Y)
	case end != route.Goal:
		return fmt.Sprintf("%d moves, stops short at (%d,%d)", len(moves), end.X, end.Y)
	default:
		return fmt.Sprintf("%d moves, safe [%s]", len(moves), engine.FormatMoves(moves))
	}
}

// openCells counts the cells of a rendered view that no obstacle covers
func openCells(m engine.MapView) int {
	open := 0
	for _, row := range m.Rows {
		open += strings.Count(row, string(engine.EmptySymbol))
	}
	return open
}
