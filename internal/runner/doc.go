// Package runner dispatches conversion requests: a single sticker, a single
// icon, or a batch over a directory with one optional icon member. It holds a
// file lock on the output directory so concurrent runs cannot interleave.
package runner
