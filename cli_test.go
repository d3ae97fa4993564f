package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"pngsplice/core"
	"pngsplice/logging"
	"pngsplice/pngstream"
)

type syncBuffer struct {
	bytes.Buffer
}

func (b *syncBuffer) Sync() error { return nil }

func testLogger() *logging.Logger {
	var console, file syncBuffer
	return logging.NewLoggerWithWriters(zapcore.ErrorLevel, &console, &file, false)
}

func writeTestPNG(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	path := filepath.Join(dir, "test.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write test PNG: %v", err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, core.DefaultConfig(), testLogger(), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_InsertExtractRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPNG(t, dir, 8, 8)
	output := filepath.Join(dir, "out.png")

	code, _, stderr := runCLI(t, "", "insert", input, output, "this", "is", "a", "secret")
	if code != core.ExitCodeSuccess {
		t.Fatalf("insert exited %d: %s", code, stderr)
	}

	code, stdout, stderr := runCLI(t, "", "extract", output)
	if code != core.ExitCodeSuccess {
		t.Fatalf("extract exited %d: %s", code, stderr)
	}
	if strings.TrimSpace(stdout) != "this is a secret" {
		t.Errorf("extracted %q", stdout)
	}
}

func TestRun_InsertPayloadFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPNG(t, dir, 4, 4)
	output := filepath.Join(dir, "out.png")
	payload := filepath.Join(dir, "payload.bin")
	raw := []byte{0x00, 0x01, 0xFE, 0xFF}
	if err := os.WriteFile(payload, raw, 0644); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}

	code, _, stderr := runCLI(t, "", "insert", "-payload-file", payload, input, output)
	if code != core.ExitCodeSuccess {
		t.Fatalf("insert exited %d: %s", code, stderr)
	}

	recovered := filepath.Join(dir, "recovered.bin")
	code, _, stderr = runCLI(t, "", "extract", "-raw", recovered, output)
	if code != core.ExitCodeSuccess {
		t.Fatalf("extract exited %d: %s", code, stderr)
	}
	got, err := os.ReadFile(recovered)
	if err != nil {
		t.Fatalf("failed to read recovered payload: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("recovered % X, want % X", got, raw)
	}
}

func TestRun_ExtractNoTrailer(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPNG(t, dir, 4, 4)

	code, stdout, _ := runCLI(t, "", "extract", input)
	if code != core.ExitCodeSuccess {
		t.Fatalf("extract of clean PNG should succeed, exited %d", code)
	}
	if !strings.Contains(stdout, "no trailer data") {
		t.Errorf("stdout %q", stdout)
	}
}

func TestRun_ResizeMetadata(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPNG(t, dir, 8, 8)
	output := filepath.Join(dir, "resized.png")

	code, _, stderr := runCLI(t, "", "resize", "-scale", "0.5", "-yes", input, output)
	if code != core.ExitCodeSuccess {
		t.Fatalf("resize exited %d: %s", code, stderr)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	w, h, err := pngstream.QueryDimensions(data)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if w != 4 || h != 4 {
		t.Errorf("got %dx%d, want 4x4", w, h)
	}
}

func TestRun_ResizeConfirmation(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPNG(t, dir, 8, 8)
	output := filepath.Join(dir, "resized.png")

	t.Run("declined", func(t *testing.T) {
		code, stdout, _ := runCLI(t, "n\n", "resize", "-width", "16", input, output)
		if code != core.ExitCodeSuccess {
			t.Fatalf("declined resize exited %d", code)
		}
		if !strings.Contains(stdout, "cancelled") {
			t.Errorf("stdout %q", stdout)
		}
		if _, err := os.Stat(output); !os.IsNotExist(err) {
			t.Error("output file was written despite cancellation")
		}
	})

	t.Run("accepted", func(t *testing.T) {
		code, _, stderr := runCLI(t, "y\n", "resize", "-width", "16", "-lock", input, output)
		if code != core.ExitCodeSuccess {
			t.Fatalf("accepted resize exited %d: %s", code, stderr)
		}
		data, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if w, h, _ := pngstream.QueryDimensions(data); w != 16 || h != 16 {
			t.Errorf("got %dx%d, want 16x16", w, h)
		}
	})
}

func TestRun_ResizePixels(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPNG(t, dir, 8, 8)
	output := filepath.Join(dir, "resampled.png")

	code, _, stderr := runCLI(t, "", "resize", "-pixels", "-scale", "2", input, output)
	if code != core.ExitCodeSuccess {
		t.Fatalf("pixel resize exited %d: %s", code, stderr)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("got %dx%d, want 16x16", b.Dx(), b.Dy())
	}
}

func TestRun_ResizeEmptySpecIsUsageError(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPNG(t, dir, 8, 8)

	code, _, _ := runCLI(t, "", "resize", "-yes", input)
	if code != core.ExitCodeUsage {
		t.Errorf("empty dimension spec exited %d, want %d", code, core.ExitCodeUsage)
	}
}

func TestRun_Info(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPNG(t, dir, 8, 8)

	code, stdout, stderr := runCLI(t, "", "info", input)
	if code != core.ExitCodeSuccess {
		t.Fatalf("info exited %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "8x8") {
		t.Errorf("stdout missing dimensions: %q", stdout)
	}
	if !strings.Contains(stdout, "trailer:     none") {
		t.Errorf("stdout missing trailer state: %q", stdout)
	}
}

func TestRun_BadUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"unknown command", []string{"explode"}},
		{"insert without files", []string{"insert"}},
		{"extract without file", []string{"extract"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, "", tt.args...)
			if code != core.ExitCodeUsage {
				t.Errorf("exited %d, want %d", code, core.ExitCodeUsage)
			}
		})
	}
}

func TestRun_NotAPNG(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "fake.png")
	if err := os.WriteFile(input, []byte("not a png at all"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	for _, cmd := range []string{"extract", "info"} {
		code, _, _ := runCLI(t, "", cmd, input)
		if code != core.ExitCodeError {
			t.Errorf("%s on non-PNG exited %d, want %d", cmd, code, core.ExitCodeError)
		}
	}
}

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		suffix string
		want   string
	}{
		{"image.png", "_edited", "image_edited.png"},
		{"/tmp/a/b.png", "_out", "/tmp/a/b_out.png"},
		{"noext", "_edited", "noext_edited"},
	}

	for _, tt := range tests {
		if got := deriveOutputPath(tt.input, tt.suffix); got != tt.want {
			t.Errorf("deriveOutputPath(%q, %q) = %q, want %q", tt.input, tt.suffix, got, tt.want)
		}
	}
}
