// Package preflight verifies the environment before conversions run: the
// output and log directories must be writable and the ffmpeg tool set must be
// resolvable on PATH. The doctor command renders these results directly.
package preflight
