// Package iocopy provides the buffered copy helper C5 uses when streaming
// a payload through compression in fixed-size windows.
package iocopy

import "io"

const bufSize = 32 << 20

// Copy is a memory-optimised io.Copy: it prefers src's WriteTo or dst's
// ReadFrom when available, and otherwise falls back to a single reusable
// buffer rather than io.Copy's internal one-shot allocation.
func Copy(dst io.Writer, src io.Reader) (written int64, err error) {
	if wt, ok := src.(io.WriterTo); ok {
		return wt.WriteTo(dst)
	}
	if rt, ok := dst.(io.ReaderFrom); ok {
		return rt.ReadFrom(src)
	}
	buf := make([]byte, bufSize)
	return io.CopyBuffer(dst, src, buf)
}
