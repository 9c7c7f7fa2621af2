// Package console provides the interactive terminal front end for Sentry Grid.
//
// A Console drives a single engine.Engine through a numbered menu: add each
// obstacle kind, check safe directions, find a path, display a map window and
// list obstacles. Malformed numbers, unknown directions and obstacles the
// engine rejects are re-asked rather than aborting the session. Map symbols
// are coloured with lipgloss when output is a terminal.
//
// Usage:
//
//	eng, _ := engine.NewEngine(config)
//	console.Run(ctx, os.Stdin, os.Stdout, eng)
package console
