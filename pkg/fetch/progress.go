package fetch

import (
	"io"
	"sync"

	"github.com/bacalhau-project/cortex/pkg/downloader"
)

// progressWriter reports the size of every successful write to w. The s3
// download manager writes ranges from several goroutines, so reports are
// serialized.
type progressWriter struct {
	w  io.Writer
	mu sync.Mutex
}

func (p *progressWriter) wrap(t downloader.Target) downloader.Target {
	if p.w == nil {
		return t
	}
	return &progressTarget{Target: t, report: p.report}
}

func (p *progressWriter) report(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// progress is advisory; a failing sink never fails the transfer
	_, _ = p.w.Write(b)
}

type progressTarget struct {
	downloader.Target
	report func([]byte)
}

func (t *progressTarget) Write(b []byte) (int, error) {
	n, err := t.Target.Write(b)
	t.report(b[:n])
	return n, err
}

func (t *progressTarget) WriteAt(b []byte, off int64) (int, error) {
	n, err := t.Target.WriteAt(b, off)
	t.report(b[:n])
	return n, err
}
