// Package cli implements the command-line interface for menucal.
//
// The root command fetches the cafeteria menu for one or more consecutive days
// and prints it as text, JSON, iCalendar or PDF. Results can optionally be merged
// into a local snapshot and the raw pages kept for later inspection. The parse
// subcommand runs the same extraction on a page saved to disk.
package cli
