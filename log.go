package stellarium

import (
	"io"
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// NewLogger returns a logfmt logger filtered at the provided level ("debug",
// "info", "warn" or "error"). An unknown level defaults to info.
func NewLogger(w io.Writer, lvl string) kitlog.Logger {
	if w == nil {
		w = os.Stderr
	}
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	klog = level.NewFilter(klog, level.Allow(level.ParseDefault(lvl, level.InfoValue())))
	return kitlog.With(klog, "ts", kitlog.DefaultTimestampUTC, "caller", kitlog.DefaultCaller)
}
