package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_RequiresInput(t *testing.T) {
	path := writeTempConfig(t, "cfg.yaml", "gps: {}\n")
	_, err := Load(path)
	requireErrEq(t, err, "either gps.enable or replay.enable must be true")
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "cfg.yaml", "gps:\n  enable: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9600, cfg.GPS.Baud)
	require.Equal(t, 1240, cfg.GPS.MaxPayload)
	require.Equal(t, []string{"NAV-PVT"}, cfg.GPS.Messages)
	require.Equal(t, 1, cfg.GPS.Rate)
	require.Equal(t, 3*time.Second, cfg.GPS.StaleAfter)
	require.Equal(t, 1*time.Second, cfg.Output.Interval)
	require.Equal(t, "cbor", cfg.Output.Format)
}

func TestLoad_FullYAML(t *testing.T) {
	path := writeTempConfig(t, "cfg.yaml", `
gps:
  enable: true
  device: /dev/ttyACM1
  baud: 115200
  configure: true
  messages: [NAV-PVT, NAV-SAT]
  stale_after: 5s
output:
  dest: 127.0.0.1:4100
  interval: 200ms
  format: JSON
record:
  enable: true
  path: /tmp/cap.log
pps:
  enable: true
  line: 18
web:
  listen: :8080
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyACM1", cfg.GPS.Device)
	require.Equal(t, 115200, cfg.GPS.Baud)
	require.True(t, cfg.GPS.Configure)
	require.Equal(t, []string{"NAV-PVT", "NAV-SAT"}, cfg.GPS.Messages)
	require.Equal(t, 5*time.Second, cfg.GPS.StaleAfter)
	require.Equal(t, 200*time.Millisecond, cfg.Output.Interval)
	require.Equal(t, "json", cfg.Output.Format)
	require.Equal(t, "gpiochip0", cfg.PPS.Chip)
	require.Equal(t, 18, cfg.PPS.Line)
	require.Equal(t, ":8080", cfg.Web.Listen)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_TOML(t *testing.T) {
	path := writeTempConfig(t, "cfg.toml", `
[replay]
enable = true
path = "capture.log"
speed = 2.0
loop = true

[output]
dest = "127.0.0.1:4100"
interval = "500ms"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Replay.Enable)
	require.Equal(t, "capture.log", cfg.Replay.Path)
	require.Equal(t, 2.0, cfg.Replay.Speed)
	require.True(t, cfg.Replay.Loop)
	require.Equal(t, 500*time.Millisecond, cfg.Output.Interval)
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "BothInputs",
			body: "gps: {enable: true}\nreplay: {enable: true, path: x}\n",
			want: "gps.enable and replay.enable cannot both be true",
		},
		{
			name: "NegativeBaud",
			body: "gps: {enable: true, baud: -1}\n",
			want: "gps.baud must be > 0",
		},
		{
			name: "MaxPayload",
			body: "gps: {enable: true, max_payload: 70000}\n",
			want: "gps.max_payload must be between 1 and 65535",
		},
		{
			name: "UnknownMessage",
			body: "gps: {enable: true, messages: [NAV-FOO]}\n",
			want: `gps.messages: ubx: unknown message kind "NAV-FOO"`,
		},
		{
			name: "Rate",
			body: "gps: {enable: true, rate: 300}\n",
			want: "gps.rate must be between 1 and 255",
		},
		{
			name: "Format",
			body: "gps: {enable: true}\noutput: {format: xml}\n",
			want: "output.format must be 'cbor' or 'json'",
		},
		{
			name: "RecordPath",
			body: "gps: {enable: true}\nrecord: {enable: true}\n",
			want: "record.path is required when record.enable is true",
		},
		{
			name: "RecordWithReplay",
			body: "replay: {enable: true, path: x}\nrecord: {enable: true, path: y}\n",
			want: "record and replay cannot both be enabled",
		},
		{
			name: "ReplayPath",
			body: "replay: {enable: true}\n",
			want: "replay.path is required when replay.enable is true",
		},
		{
			name: "ReplaySpeed",
			body: "replay: {enable: true, path: x, speed: -1}\n",
			want: "replay.speed must be > 0",
		},
		{
			name: "PPSLine",
			body: "gps: {enable: true}\npps: {enable: true, line: -3}\n",
			want: "pps.line must be >= 0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, "cfg.yaml", tc.body))
			requireErrEq(t, err, tc.want)
		})
	}
}
