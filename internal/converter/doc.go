// Package converter turns still and animated images into WebM files that
// satisfy Telegram's video sticker constraints: VP9 with alpha, the longer
// side exactly 512 (stickers) or 100x100 (set icons), at most three seconds,
// and hard byte limits of 256 KiB and 32 KiB respectively.
//
// Encoding quality is negotiated with a rising CRF ladder: the first pass
// that fits the byte limit wins, and an input that cannot be squeezed under
// the limit at maximum compression fails the conversion.
package converter
