// Command validate checks the world configuration files in a directory
// (../configs by default). It checks:
//   - JSON or YAML structure, rejecting unknown fields
//   - Required fields and that every obstacle can be constructed
//   - The view window, when present
//   - Route endpoints: neither start nor goal may be compromised
//   - Route reachability: every declared route has a safe path
//   - Recorded route moves: every step is safe and the walk ends at the goal
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/sentry-grid/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single world file
func validateConfig(ctx context.Context, filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.DecodeWorldConfig(filePath, data)
	if err != nil {
		result.fail("Invalid file: %v", err)
		return result
	}

	if err := engine.ValidateWorldConfig(config); err != nil {
		result.fail("%v", err)
		return result
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		result.fail("Failed to build world: %v", err)
		return result
	}

	validateRoutes(ctx, eng, config.Routes, &result)

	if result.Valid {
		placed := eng.Obstacles()
		result.info("Name: %s", config.Name)
		result.info("Obstacles: %d", len(placed))
		for _, kind := range engine.Kinds {
			if n := engine.CountKind(placed, kind); n > 0 {
				result.info("  %s: %d", kind, n)
			}
		}
		view := eng.DefaultView()
		result.info("View: (%d,%d)-(%d,%d)", view.TopLeft.X, view.TopLeft.Y, view.BottomRight.X, view.BottomRight.Y)
	}

	return result
}

// validateRoutes checks that every declared route has a safe path
func validateRoutes(ctx context.Context, eng *engine.GridEngine, routes []engine.Route, result *ValidationResult) {
	for _, route := range routes {
		if eng.IsBlocked(route.Start) {
			result.fail("Route %q starts on a compromised cell (%d,%d)", route.Name, route.Start.X, route.Start.Y)
			continue
		}

		path := eng.FindPath(ctx, route.Start, route.Goal)
		switch path.Outcome {
		case engine.PathFound:
			result.info("Route %q: %d moves (detour %d)", route.Name, len(path.Moves), engine.Detour(path))
		case engine.AlreadyThere:
			result.info("Route %q: start and goal coincide", route.Name)
		case engine.GoalBlocked:
			result.fail("Route %q ends on a compromised cell (%d,%d)", route.Name, route.Goal.X, route.Goal.Y)
		case engine.SearchLimit:
			result.fail("Route %q: search gave up after %d cells", route.Name, path.Explored)
		default:
			result.fail("Route %q: no safe path from (%d,%d) to (%d,%d)",
				route.Name, route.Start.X, route.Start.Y, route.Goal.X, route.Goal.Y)
		}

		if len(route.Moves) > 0 {
			replayRoute(eng, route, result)
		}
	}
}

// replayRoute walks a route's recorded moves and checks they stay safe and
// arrive at the goal
func replayRoute(eng *engine.GridEngine, route engine.Route, result *ValidationResult) {
	moves, err := engine.ParseMoves(route.Moves)
	if err != nil {
		result.fail("Route %q: %v", route.Name, err)
		return
	}

	end, step := eng.ReplayMoves(route.Start, moves)
	switch {
	case step > 0:
		result.fail("Route %q: recorded move %d steps onto compromised cell (%d,%d)", route.Name, step, end.X, end.Y)
	case end != route.Goal:
		result.fail("Route %q: recorded moves end at (%d,%d), not the goal (%d,%d)",
			route.Name, end.X, end.Y, route.Goal.X, route.Goal.Y)
	default:
		result.info("Route %q: recorded %d moves arrive safely", route.Name, len(moves))
	}
}

// worldFiles lists JSON and YAML files in dir, sorted by name
func worldFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// report validates every world file in dir, printing a concise report.
// It returns false when any file is invalid.
func report(ctx context.Context, w io.Writer, dir string) (bool, error) {
	files, err := worldFiles(dir)
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no world files in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(ctx, file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "Validate Sentry Grid world files",
		ArgsUsage: "[config-dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := "../configs"
			if cmd.Args().Len() > 0 {
				dir = cmd.Args().First()
			}

			ok, err := report(ctx, os.Stdout, dir)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("some configurations have errors")
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
