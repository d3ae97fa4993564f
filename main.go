// Command pngsplice edits PNG files at the chunk level: it hides and
// recovers data after the IEND chunk, rewrites the stored dimensions, and
// optionally performs a true pixel resample.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"pngsplice/core"
	"pngsplice/logging"
)

func main() {
	// .env is optional; config falls back to defaults and the yaml file.
	_ = godotenv.Load()

	cfg, err := core.LoadConfig(os.Getenv("PNGSPLICE_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(core.ExitCodeError)
	}

	logger, err := logging.NewLogger(cfg.DevMode, cfg.LogFile, cfg.LogMaxSizeMB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(core.ExitCodeError)
	}

	code := run(os.Args[1:], cfg, logger, os.Stdin, os.Stdout, os.Stderr)
	_ = logger.Sync()
	os.Exit(code)
}
