package main

import (
	"io"
	"math"
	"time"

	"github.com/schollz/progressbar/v3"
)

// downloadProgress draws provider progress on w. It is created lazily because
// the total is only known once the provider reports it.
type downloadProgress struct {
	w     io.Writer
	quiet bool
	bar   *progressbar.ProgressBar
}

func newDownloadProgress(w io.Writer, quiet bool) *downloadProgress {
	return &downloadProgress{
		w:     w,
		quiet: quiet,
	}
}

// Update matches provider.OnDownloadProgress.
func (p *downloadProgress) Update(current float64, total float64, message string) {
	if p.quiet || total <= 0 {
		return
	}

	if p.bar == nil {
		p.bar = progressbar.NewOptions64(int64(math.Ceil(total)),
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription(message),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	p.bar.Describe(message)
	_ = p.bar.Set64(int64(math.Min(current, total)))
}

// Finish completes and clears the bar, if one was drawn.
func (p *downloadProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
