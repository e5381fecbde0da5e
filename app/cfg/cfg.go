package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

var (
	globalOpts *Opts
	location   = time.UTC
)

// Setup validates the parsed options, configures logging and resolves the
// timezone. It must run before any command executes.
func Setup(opts *Opts) error {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if opts.Timezone != "" {
		loc, err := time.LoadLocation(opts.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", opts.Timezone, err)
		}
		location = loc
	}

	globalOpts = opts
	return nil
}

func Get() *Opts {
	if globalOpts == nil {
		panic("configuration not loaded - call cfg.Setup() first")
	}
	return globalOpts
}

// Location returns the timezone post dates are normalized to.
func Location() *time.Location {
	return location
}

func (o *Opts) HTTPTimeout() time.Duration {
	if o.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(o.Timeout) * time.Second
}
