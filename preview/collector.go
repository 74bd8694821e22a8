package preview

import (
	"bytes"
	"os"
	"sync"
)

// OutputCollector is an io.Writer that captures process output with a
// rolling in-memory buffer and optional file offloading: once total output
// crosses the threshold, the complete output is mirrored to a temp file
// while the buffer keeps only the tail.
//
// The rolling buffer is never smaller than the threshold, so the file
// receives the complete output from the first byte. Safe for concurrent
// use; writes after Close are dropped.
type OutputCollector struct {
	mu       sync.Mutex
	tail     []byte
	total    int64
	newlines int
	file     *os.File
	filePath string
	err      error
	closed   bool

	threshold int64
	maxTail   int
}

// NewOutputCollector creates a collector that offloads to a temp file once
// total output exceeds threshold bytes. maxTail is the rolling buffer size;
// values below threshold are raised to it so no data is lost before
// offloading begins.
func NewOutputCollector(threshold int64, maxTail int) *OutputCollector {
	if int64(maxTail) < threshold {
		maxTail = int(threshold)
	}
	return &OutputCollector{threshold: threshold, maxTail: maxTail}
}

// Write implements io.Writer. It never fails; offload errors are recorded
// and reported through Err.
func (c *OutputCollector) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return len(p), nil
	}

	c.total += int64(len(p))
	c.newlines += bytes.Count(p, []byte{'\n'})
	c.tail = append(c.tail, p...)

	c.offload(p)

	if len(c.tail) > c.maxTail {
		// Copy to release the old backing array.
		trimmed := make([]byte, c.maxTail)
		copy(trimmed, c.tail[len(c.tail)-c.maxTail:])
		c.tail = trimmed
	}

	return len(p), nil
}

// offload mirrors output to the temp file, creating it the first time the
// threshold is crossed. At creation the rolling buffer still holds
// everything written so far, so the file starts complete.
func (c *OutputCollector) offload(p []byte) {
	if c.err != nil || c.total <= c.threshold {
		return
	}
	if c.file == nil {
		f, err := os.CreateTemp("", "loom-preview-*.log")
		if err != nil {
			c.err = err
			return
		}
		c.file = f
		c.filePath = f.Name()
		p = c.tail
	}
	if _, err := c.file.Write(p); err != nil {
		c.err = err
	}
}

// Bytes returns a copy of the current rolling buffer content.
func (c *OutputCollector) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.tail...)
}

// TotalBytes returns the total number of bytes written, including bytes
// trimmed from the rolling buffer.
func (c *OutputCollector) TotalBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// TotalNewlines returns the total number of newlines seen.
func (c *OutputCollector) TotalNewlines() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.newlines
}

// FilePath returns the temp file path, or empty if output was never
// offloaded.
func (c *OutputCollector) FilePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filePath
}

// Err returns the first offloading I/O error, or nil.
func (c *OutputCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close closes the temp file if one was created. Subsequent writes are
// dropped.
func (c *OutputCollector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.file != nil {
		err := c.file.Close()
		c.file = nil
		return err
	}
	return nil
}
