package main

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
)

// countingReader tracks bytes read so a progress bar can report scan
// progress against a file whose total size is known up front.
type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

// scanProgress wraps r in a byte-counting reader and drives a progress bar
// off it until stop is called.
func scanProgress(r io.Reader, prefix string, size int64) (wrapped io.Reader, stop func()) {
	cr := &countingReader{r: r}
	bar := pb.Start64(size)
	bar.Set("prefix", prefix)
	bar.Set(pb.Bytes, true)
	bar.SetRefreshRate(time.Second)
	bar.SetTemplateString(`{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }} {{speed . }} {{rtime . "ETA %s"}}` + "\n")

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				bar.SetCurrent(cr.n.Load())
			case <-done:
				bar.SetCurrent(cr.n.Load())
				bar.Finish()
				return
			}
		}
	}()

	return cr, func() { close(done) }
}
