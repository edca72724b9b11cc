package deps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"asciify/internal/media/ffmpeg"
)

// RequiredEncoders are the ffmpeg encoders the video pipeline may select.
var RequiredEncoders = []string{"libx264", "libvpx-vp9"}

// CheckEncoders asks ffmpeg which encoders it was built with and reports the
// required ones that are missing. The returned Status is available only when
// every encoder is present.
func CheckEncoders(ctx context.Context, ffmpegBinary string, encoders ...string) Status {
	if len(encoders) == 0 {
		encoders = RequiredEncoders
	}
	status := Status{
		Name:        "FFmpeg encoders",
		Command:     ffmpegBinary,
		Description: "Encoders used when writing " + strings.Join(encoders, ", "),
		Optional:    true,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	output, err := ffmpeg.Run(checkCtx, ffmpegBinary, "-hide_banner", "-encoders")
	if err != nil {
		status.Detail = err.Error()
		return status
	}

	available := parseEncoderList(string(output))
	var missing []string
	for _, enc := range encoders {
		if _, ok := available[enc]; !ok {
			missing = append(missing, enc)
		}
	}
	if len(missing) > 0 {
		status.Detail = fmt.Sprintf("missing %s", strings.Join(missing, ", "))
		return status
	}
	status.Available = true
	return status
}

// parseEncoderList extracts encoder names from `ffmpeg -encoders` output,
// where each entry line is "<flags> <name> <description>".
func parseEncoderList(output string) map[string]struct{} {
	encoders := make(map[string]struct{})
	pastHeader := false
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if !pastHeader {
			if strings.HasPrefix(trimmed, "---") {
				pastHeader = true
			}
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) >= 2 {
			encoders[fields[1]] = struct{}{}
		}
	}
	return encoders
}
