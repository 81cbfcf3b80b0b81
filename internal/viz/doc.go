// Package viz renders run summaries for the terminal.
package viz
