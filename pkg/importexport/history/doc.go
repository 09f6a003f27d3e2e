// Package history keeps one entry per export attempt: who was exported,
// where to, how it ended and with which diagnostics.
//
// Recording is best effort. A Recorder logs store failures and never
// changes the outcome of the export it describes.
package history
