package testsupport

import "testing"

// VideoProbeJSON is ffprobe output for an MP4 with a single 25 fps video
// stream and no audio.
const VideoProbeJSON = `{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","r_frame_rate":"25/1"}],"format":{"format_name":"mov,mp4,m4a,3gp,3g2,mj2","nb_streams":1}}`

// WriteProbeStub writes an ffprobe stub into dir that prints output and
// exits 0. It returns the stub's path.
func WriteProbeStub(t testing.TB, dir, output string) string {
	t.Helper()
	return WriteScript(t, dir, "ffprobe", "cat <<'JSON'\n"+output+"\nJSON\n")
}

// WriteRejectingProbeStub writes an ffprobe stub that fails the way ffprobe
// does on input it cannot demux.
func WriteRejectingProbeStub(t testing.TB, dir string) string {
	t.Helper()
	return WriteScript(t, dir, "ffprobe", "for last; do :; done\necho \"$last: Invalid data found when processing input\" >&2\nexit 1\n")
}

// WithFFprobe points the test config at binary.
func WithFFprobe(binary string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tools.FFprobe = binary
	}
}
