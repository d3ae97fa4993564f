package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"pngsplice/core"
	"pngsplice/logging"
	"pngsplice/pngstream"
	"pngsplice/resample"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

const usageText = `pngsplice - PNG chunk-stream editor

Usage:
  pngsplice insert <input.png> <output.png> <text...>   hide text after the IEND chunk
  pngsplice insert -payload-file <file> <input.png> <output.png>
  pngsplice extract [-raw <file>] <input.png>           recover hidden data
  pngsplice resize [flags] <input.png> [output.png]     rewrite stored dimensions
  pngsplice info <input.png>                            show header fields and trailer state

Resize flags:
  -width N      target width in pixels
  -height N     target height in pixels
  -scale F      uniform scale factor (exclusive with -width/-height)
  -lock         derive the unset dimension from the aspect ratio
  -pixels       resample the actual pixels instead of patching metadata
  -filter NAME  resample kernel: catmullrom, bilinear, nearest
  -yes          skip the confirmation prompt
`

// run dispatches a CLI invocation and returns its exit code. All file and
// terminal I/O of the tool happens here; the pngstream core only ever
// sees byte buffers.
func run(args []string, cfg core.Config, log *logging.Logger, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return core.ExitCodeUsage
	}
	command, rest := args[0], args[1:]
	log = log.With(
		zap.String("op_id", core.GenerateOpID()),
		zap.String("command", command),
	)

	switch command {
	case "insert":
		return runInsert(rest, log, stdout, stderr)
	case "extract":
		return runExtract(rest, log, stdout, stderr)
	case "resize":
		return runResize(rest, cfg, log, stdin, stdout, stderr)
	case "info":
		return runInfo(rest, log, stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usageText)
		return core.ExitCodeSuccess
	default:
		errorColor.Fprintf(stderr, "unknown command: %s\n\n", command)
		fmt.Fprint(stderr, usageText)
		return core.ExitCodeUsage
	}
}

func runInsert(args []string, log *logging.Logger, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("insert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	payloadFile := fs.String("payload-file", "", "read the payload from a file instead of arguments")
	if err := fs.Parse(args); err != nil {
		return core.ExitCodeUsage
	}
	rest := fs.Args()
	if len(rest) < 2 {
		errorColor.Fprintln(stderr, "insert needs an input and an output file")
		return core.ExitCodeUsage
	}
	inputPath, outputPath := rest[0], rest[1]

	var payload []byte
	if *payloadFile != "" {
		var err error
		payload, err = os.ReadFile(*payloadFile)
		if err != nil {
			errorColor.Fprintf(stderr, "failed to read payload file: %v\n", err)
			return core.ExitCodeError
		}
	} else {
		if len(rest) < 3 {
			errorColor.Fprintln(stderr, "insert needs text to hide (or -payload-file)")
			return core.ExitCodeUsage
		}
		payload = []byte(strings.Join(rest[2:], " "))
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		errorColor.Fprintf(stderr, "failed to read %s: %v\n", inputPath, err)
		return core.ExitCodeError
	}

	out, err := pngstream.AppendTrailer(data, payload)
	if err != nil {
		errorColor.Fprintf(stderr, "%v\n", err)
		log.Error("trailer append failed", zap.Error(err))
		return core.ExitCodeError
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		errorColor.Fprintf(stderr, "failed to write %s: %v\n", outputPath, err)
		return core.ExitCodeError
	}

	log.Info("trailer appended",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int("payload_bytes", len(payload)),
	)
	successColor.Fprintf(stdout, "hid %d bytes in %s\n", len(payload), outputPath)
	return core.ExitCodeSuccess
}

func runExtract(args []string, log *logging.Logger, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rawPath := fs.String("raw", "", "write the raw payload bytes to a file instead of printing text")
	if err := fs.Parse(args); err != nil {
		return core.ExitCodeUsage
	}
	if fs.NArg() != 1 {
		errorColor.Fprintln(stderr, "extract needs exactly one input file")
		return core.ExitCodeUsage
	}
	inputPath := fs.Arg(0)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		errorColor.Fprintf(stderr, "failed to read %s: %v\n", inputPath, err)
		return core.ExitCodeError
	}

	payload, err := pngstream.ExtractTrailer(data)
	switch {
	case errors.Is(err, pngstream.ErrNoTrailer):
		// A clean PNG with nothing hidden is a result, not a failure.
		warnColor.Fprintf(stdout, "%s has no trailer data\n", inputPath)
		return core.ExitCodeSuccess
	case err != nil:
		errorColor.Fprintf(stderr, "%v\n", err)
		log.Error("trailer extract failed", zap.Error(err))
		return core.ExitCodeError
	}

	log.Info("trailer extracted",
		zap.String("input", inputPath),
		zap.Int("payload_bytes", len(payload)),
	)

	if *rawPath != "" {
		if err := os.WriteFile(*rawPath, payload, 0644); err != nil {
			errorColor.Fprintf(stderr, "failed to write %s: %v\n", *rawPath, err)
			return core.ExitCodeError
		}
		successColor.Fprintf(stdout, "wrote %d bytes to %s\n", len(payload), *rawPath)
		return core.ExitCodeSuccess
	}

	text, err := pngstream.ExtractTrailerText(data)
	if err != nil {
		errorColor.Fprintf(stderr, "%v (use -raw to recover the bytes)\n", err)
		return core.ExitCodeError
	}
	fmt.Fprintln(stdout, text)
	return core.ExitCodeSuccess
}

func runResize(args []string, cfg core.Config, log *logging.Logger, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("resize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	width := fs.Int("width", 0, "target width in pixels")
	height := fs.Int("height", 0, "target height in pixels")
	scale := fs.Float64("scale", 0, "uniform scale factor")
	lock := fs.Bool("lock", false, "derive the unset dimension from the aspect ratio")
	pixels := fs.Bool("pixels", false, "resample the actual pixels instead of patching metadata")
	filter := fs.String("filter", cfg.ResampleFilter, "resample kernel: catmullrom, bilinear, nearest")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return core.ExitCodeUsage
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		errorColor.Fprintln(stderr, "resize needs an input file and an optional output file")
		return core.ExitCodeUsage
	}
	inputPath := fs.Arg(0)
	outputPath := fs.Arg(1)
	if outputPath == "" {
		outputPath = deriveOutputPath(inputPath, cfg.OutputSuffix)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		errorColor.Fprintf(stderr, "failed to read %s: %v\n", inputPath, err)
		return core.ExitCodeError
	}

	spec := pngstream.DimensionSpec{
		Width:      *width,
		Height:     *height,
		Scale:      *scale,
		LockAspect: *lock,
	}
	if !*pixels && !*yes {
		// A metadata-only patch makes decoders stretch the pixels to the
		// new size. Make the caller acknowledge that before mutating.
		spec.Confirm = func(oldW, oldH, newW, newH int) bool {
			warnColor.Fprintf(stderr,
				"metadata-only resize: %dx%d -> %dx%d without touching pixels; the image will display distorted\n",
				oldW, oldH, newW, newH)
			return promptYesNo(stdin, stderr, "proceed?")
		}
	}

	var out []byte
	if *pixels {
		out, err = resample.ResizeWith(data, spec, resample.Filter(*filter))
	} else {
		out, err = pngstream.PatchDimensions(data, spec)
	}
	switch {
	case errors.Is(err, pngstream.ErrCancelled):
		warnColor.Fprintln(stdout, "cancelled, nothing written")
		return core.ExitCodeSuccess
	case err != nil:
		errorColor.Fprintf(stderr, "%v\n", err)
		log.Error("resize failed", zap.Error(err), zap.Bool("pixels", *pixels))
		if errors.Is(err, pngstream.ErrInvalidSpec) {
			return core.ExitCodeUsage
		}
		return core.ExitCodeError
	}

	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		errorColor.Fprintf(stderr, "failed to write %s: %v\n", outputPath, err)
		return core.ExitCodeError
	}

	w, h, _ := pngstream.QueryDimensions(out)
	log.Info("resized",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Bool("pixels", *pixels),
	)
	successColor.Fprintf(stdout, "wrote %s (%dx%d)\n", outputPath, w, h)
	return core.ExitCodeSuccess
}

func runInfo(args []string, log *logging.Logger, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		errorColor.Fprintln(stderr, "info needs exactly one input file")
		return core.ExitCodeUsage
	}
	inputPath := args[0]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		errorColor.Fprintf(stderr, "failed to read %s: %v\n", inputPath, err)
		return core.ExitCodeError
	}

	header, err := pngstream.ReadHeader(data)
	if err != nil {
		errorColor.Fprintf(stderr, "%v\n", err)
		log.Error("header read failed", zap.Error(err))
		return core.ExitCodeError
	}

	fmt.Fprintf(stdout, "dimensions:  %dx%d\n", header.Width, header.Height)
	fmt.Fprintf(stdout, "bit depth:   %d\n", header.BitDepth)
	fmt.Fprintf(stdout, "color type:  %d\n", header.ColorType)
	fmt.Fprintf(stdout, "interlace:   %d\n", header.Interlace)

	payload, err := pngstream.ExtractTrailer(data)
	switch {
	case errors.Is(err, pngstream.ErrNoTrailer):
		fmt.Fprintf(stdout, "trailer:     none\n")
	case err != nil:
		fmt.Fprintf(stdout, "trailer:     corrupt (%v)\n", err)
	default:
		fmt.Fprintf(stdout, "trailer:     %d bytes\n", len(payload))
	}
	return core.ExitCodeSuccess
}

// promptYesNo reads one line and accepts y/yes (case-insensitive).
func promptYesNo(stdin io.Reader, stderr io.Writer, question string) bool {
	fmt.Fprintf(stderr, "%s [y/N] ", question)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// deriveOutputPath inserts the suffix before the file extension:
// image.png -> image_edited.png.
func deriveOutputPath(inputPath, suffix string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + suffix + ext
}
