// Package ffprobe shells out to the ffprobe binary and decodes its JSON
// output into typed results used for scaling decisions.
package ffprobe
