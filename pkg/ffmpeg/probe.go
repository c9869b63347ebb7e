package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ProbeResult contains media file metadata.
type ProbeResult struct {
	// Video properties
	Width           int     // Video width in pixels
	Height          int     // Video height in pixels
	FPS             float64 // Frames per second, 0 if unknown
	FrameRateSource string  // ffprobe field FPS was read from
	VideoCodec      string  // Video codec name (h264, vp9, etc.)
	PixelFormat     string  // Pixel format (yuv420p, etc.)

	// Audio properties
	AudioCodec string

	// File properties
	Duration   float64 // Duration in seconds
	Size       int64   // File size in bytes
	FormatName string  // Container format (mp4, webm, mkv, etc.)

	// Stream counts
	VideoStreams int
	AudioStreams int
}

// LogAttrs returns the probed properties as slog key/value pairs. Unknown
// values are left out.
func (r *ProbeResult) LogAttrs() []any {
	if r == nil {
		return nil
	}
	var attrs []any
	if r.Width > 0 && r.Height > 0 {
		attrs = append(attrs, "resolution", fmt.Sprintf("%dx%d", r.Width, r.Height))
	}
	if r.VideoCodec != "" {
		attrs = append(attrs, "video_codec", r.VideoCodec)
	}
	if r.PixelFormat != "" {
		attrs = append(attrs, "pixel_format", r.PixelFormat)
	}
	if r.AudioCodec != "" {
		attrs = append(attrs, "audio_codec", r.AudioCodec)
	}
	if r.Duration > 0 {
		attrs = append(attrs, "duration", time.Duration(r.Duration*float64(time.Second)).Round(time.Millisecond).String())
	}
	if r.Size > 0 {
		attrs = append(attrs, "remote_size", humanize.Bytes(uint64(r.Size)))
	}
	if r.FormatName != "" {
		attrs = append(attrs, "container", r.FormatName)
	}
	return attrs
}

// ffprobeOutput matches ffprobe JSON output structure.
type ffprobeOutput struct {
	Format struct {
		Filename   string `json:"filename"`
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
	} `json:"format"`
	Streams []struct {
		Index     int    `json:"index"`
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`

		// Video properties
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		PixelFormat  string `json:"pix_fmt"`
	} `json:"streams"`
}

// Runner executes ffprobe and returns its stdout.
type Runner func(ctx context.Context, binary string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func probe(ctx context.Context, run Runner, binary, target string) (*ProbeResult, error) {
	if strings.TrimSpace(target) == "" {
		return nil, errors.New("ffprobe: empty target")
	}

	args := []string{
		"-hide_banner",
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		target,
	}

	raw, err := run(ctx, binary, args...)
	if err != nil {
		return nil, err
	}

	var output ffprobeOutput
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, fmt.Errorf("ffprobe: failed to parse output: %w", err)
	}

	result := &ProbeResult{}

	// Parse format metadata
	if output.Format.Duration != "" {
		result.Duration, _ = strconv.ParseFloat(output.Format.Duration, 64)
	}
	if output.Format.Size != "" {
		result.Size, _ = strconv.ParseInt(output.Format.Size, 10, 64)
	}
	result.FormatName = output.Format.FormatName

	// Parse streams
	for _, stream := range output.Streams {
		switch stream.CodecType {
		case "video":
			result.VideoStreams++
			// Only take first video stream metadata
			if result.VideoCodec == "" {
				result.Width = stream.Width
				result.Height = stream.Height
				result.VideoCodec = stream.CodecName
				result.PixelFormat = stream.PixelFormat
				if fps, err := ParseFrameRate(stream.RFrameRate); err == nil {
					result.FPS, result.FrameRateSource = fps, "r_frame_rate"
				} else if fps, err := ParseFrameRate(stream.AvgFrameRate); err == nil {
					result.FPS, result.FrameRateSource = fps, "avg_frame_rate"
				}
			}

		case "audio":
			result.AudioStreams++
			if result.AudioCodec == "" {
				result.AudioCodec = stream.CodecName
			}
		}
	}

	return result, nil
}

// ParseFrameRate parses an ffprobe frame rate such as "30/1" or
// "30000/1001" by dividing numerator by denominator. A plain decimal
// ("29.97") is accepted too. Anything else is rejected.
func ParseFrameRate(rate string) (float64, error) {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return 0, errors.New("empty frame rate")
	}

	var fps float64
	if numStr, denStr, ok := strings.Cut(rate, "/"); ok {
		num, err := strconv.ParseUint(numStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("frame rate numerator %q: %w", numStr, err)
		}
		den, err := strconv.ParseUint(denStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("frame rate denominator %q: %w", denStr, err)
		}
		if den == 0 {
			return 0, fmt.Errorf("frame rate %q: zero denominator", rate)
		}
		fps = float64(num) / float64(den)
	} else {
		v, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return 0, fmt.Errorf("frame rate %q: %w", rate, err)
		}
		fps = v
	}

	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return 0, fmt.Errorf("frame rate %q: not a positive number", rate)
	}
	return fps, nil
}
