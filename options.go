package pdst

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/aweris/pdst/internal/local"
	"github.com/aweris/pdst/internal/prompt"
	"github.com/aweris/pdst/internal/remote"
)

// Options configures an Orchestrator.
type Options struct {
	Local       Local
	Prompter    Prompter
	Output      io.Writer
	WorkDir     string
	Concurrency int
	Logger      *zap.Logger
}

// Option is a functional option for configuring New.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Concurrency: remote.DefaultConcurrency,
		Output:      os.Stdout,
		Logger:      zap.NewNop(),
	}
}

// WithLocal sets the local filesystem access. Default: the OS filesystem.
func WithLocal(l Local) Option {
	return func(o *Options) { o.Local = l }
}

// WithPrompter sets how questions are asked. Default: stdin/stdout.
func WithPrompter(p Prompter) Option {
	return func(o *Options) { o.Prompter = p }
}

// WithOutput sets where candidate lists and status lines are written.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		if w != nil {
			o.Output = w
		}
	}
}

// WithWorkDir sets the directory files are listed from and stored for.
// Default: the process working directory.
func WithWorkDir(dir string) Option {
	return func(o *Options) { o.WorkDir = dir }
}

// WithConcurrency sets how many folder files are read in parallel.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func (o *Options) fill() error {
	if o.Local == nil {
		o.Local = local.New(nil)
	}
	if o.Prompter == nil {
		o.Prompter = prompt.NewLine(os.Stdin, o.Output)
	}
	if o.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		o.WorkDir = wd
	}
	return nil
}
