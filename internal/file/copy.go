package file

import (
	"context"
	"io"
)

// contextReader fails the next Read once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// CopyWithContext copies src into dst through buf, stopping early when ctx
// is canceled. Packing uses it so a large source file does not delay
// cancellation until it is fully read.
func CopyWithContext(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (uint64, error) {
	n, err := io.CopyBuffer(dst, contextReader{ctx: ctx, r: src}, buf)
	return uint64(n), err //nolint:gosec // io.CopyBuffer never returns a negative count
}
