package app

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"potlife/internal/core"
)

// Config represents the command-line parameters shared by both front ends.
type Config struct {
	Size     int
	Random   bool
	Speed    string
	Kernel   string
	KernelKV kvList
	Seed     int64
	Alive    string
	Viewport int
	Verbose  bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Size:     8,
		Random:   true,
		Speed:    SpeedSlow.Name(),
		Kernel:   "cpu",
		Seed:     42,
		Alive:    "ffffff",
		Viewport: 512,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Size, "size", c.Size, "grid side length, rounded up to a power of two (1-1024)")
	fs.BoolVar(&c.Random, "random", c.Random, "seed the grid randomly instead of all dead")
	fs.StringVar(&c.Speed, "speed", c.Speed, "simulation speed: slow, medium or fast")
	fs.StringVar(&c.Kernel, "kernel", c.Kernel, "accelerator kernel ("+strings.Join(append(core.KernelNames(), "none"), ", ")+")")
	fs.Var(&c.KernelKV, "kopt", "kernel option in key=value form (repeatable)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for random grid initialization")
	fs.StringVar(&c.Alive, "alive", c.Alive, "alive cell color as RRGGBB[AA]; red is forced to ff")
	fs.IntVar(&c.Viewport, "viewport", c.Viewport, "grid viewport size in screen pixels")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "verbose logging")
}

// Palette parses the alive color. pinned reports that red had to be forced
// to the alive sentinel.
func (c *Config) Palette() (p core.Palette, pinned bool, err error) {
	alive, err := core.ParseAlive(c.Alive)
	if err != nil {
		return core.Palette{}, false, err
	}
	p, pinned = core.NewPalette(alive)
	return p, pinned, nil
}

// NewKernel constructs the selected kernel. "none" yields a nil kernel.
func (c *Config) NewKernel() (core.Kernel, error) {
	if c.Kernel == "none" || c.Kernel == "" {
		return nil, nil
	}
	factory, ok := core.Kernels()[c.Kernel]
	if !ok {
		return nil, fmt.Errorf("unknown kernel %q (available: %s)", c.Kernel, strings.Join(core.KernelNames(), ", "))
	}
	return factory(c.KernelKV.Map())
}

// Logger returns a text logger writing to w, at debug level when -v is set.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("%q is not key=value", value)
	}
	*l = append(*l, value)
	return nil
}

// Map returns the options as a map; later keys win.
func (l kvList) Map() map[string]string {
	if len(l) == 0 {
		return nil
	}
	out := make(map[string]string, len(l))
	for _, kv := range l {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		out[parts[0]] = parts[1]
	}
	return out
}
