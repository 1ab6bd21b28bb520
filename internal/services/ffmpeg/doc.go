// Package ffmpeg wraps the ffmpeg command-line encoder. Invocations are
// silent on success; failure output is captured and persisted for debugging.
package ffmpeg
