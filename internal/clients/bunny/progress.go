package bunny

import "io"

// countingReader 包装上传流，按读取字节数触发进度回调。
type countingReader struct {
	inner    io.Reader
	total    int64
	sent     int64
	progress func(sent, total int64)
}

func newCountingReader(r io.Reader, total int64, progress func(sent, total int64)) *countingReader {
	return &countingReader{inner: r, total: total, progress: progress}
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.inner.Read(p)
	if n > 0 {
		c.sent += int64(n)
		if c.progress != nil {
			c.progress(c.sent, c.total)
		}
	}
	return n, err
}
