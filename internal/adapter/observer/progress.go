package observer

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress renders a progress bar advanced once per split document.
type Progress struct {
	mu     sync.Mutex
	bar    *progressbar.ProgressBar
	desc   string
	start  time.Time
	total  int
	done   int
	chunks int
}

// NewProgress creates a bar for total documents written to w.
func NewProgress(w io.Writer, total int, description string) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
	return &Progress{bar: bar, desc: description, start: time.Now(), total: total}
}

func (p *Progress) DocumentSplit(_ string, chunks int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.chunks += chunks
	_ = p.bar.Add(1)

	elapsed := time.Since(p.start)
	if rate := float64(p.done) / elapsed.Seconds(); rate > 0 && p.done < p.total {
		eta := time.Duration(float64(p.total-p.done)/rate) * time.Second
		p.bar.Describe(fmt.Sprintf("[cyan]%s[reset] ETA: %s", p.desc, FormatDuration(eta)))
	}
}

// Counts returns documents and chunks seen so far.
func (p *Progress) Counts() (docs, chunks int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.chunks
}

// Finish completes the bar even if fewer documents were split than announced.
func (p *Progress) Finish() error {
	return p.bar.Finish()
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
