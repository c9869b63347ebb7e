package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultFrameRate    = 24.0
	DefaultProbeTimeout = 20 * time.Second
)

// FrameRate is the outcome of a best-effort probe.
type FrameRate struct {
	Value    float64
	Measured bool   // false when Value is the fallback
	Source   string // r_frame_rate, avg_frame_rate or default

	// Media is what ffprobe reported, nil when the probe itself failed.
	Media *ProbeResult
}

// FrameRateProber determines the playback frame rate of a hosted asset.
// It never fails: any error, timeout or missing video stream yields the
// configured default.
type FrameRateProber struct {
	Binary  string
	Timeout time.Duration
	Default float64

	run Runner
}

func NewFrameRateProber(binary string, timeout time.Duration, fallback float64) *FrameRateProber {
	if binary == "" {
		binary = "ffprobe"
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if fallback <= 0 {
		fallback = DefaultFrameRate
	}
	return &FrameRateProber{
		Binary:  binary,
		Timeout: timeout,
		Default: fallback,
		run:     execRunner,
	}
}

func (p *FrameRateProber) fallback() FrameRate {
	return FrameRate{Value: p.Default, Source: "default"}
}

// ProbeFrameRate probes target (a URL or path) under the prober's own
// timeout.
func (p *FrameRateProber) ProbeFrameRate(ctx context.Context, target string) (fr FrameRate) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("frame rate probe panicked, using default", "target", target, "panic", fmt.Sprint(r))
			fr = p.fallback()
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	res, err := probe(ctx, p.run, p.Binary, target)
	if err != nil {
		slog.Warn("could not analyze video, using default frame rate", "target", target, "error", err, "default", p.Default)
		return p.fallback()
	}
	if res.VideoStreams == 0 || res.FPS <= 0 {
		slog.Warn("no usable video stream, using default frame rate", "target", target, "default", p.Default)
		fr = p.fallback()
		fr.Media = res
		return fr
	}

	return FrameRate{Value: res.FPS, Measured: true, Source: res.FrameRateSource, Media: res}
}
