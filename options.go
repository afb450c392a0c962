package pdfgenerator

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/wosatec/PDF-Generator/render"
	"github.com/wosatec/PDF-Generator/render/pdf"
	"github.com/wosatec/PDF-Generator/resource"
)

// Option is a functional option for configuring Run.
type Option func(*runConfig)

type runConfig struct {
	log          logrus.FieldLogger
	placeholders resource.Placeholders
	backend      render.Backend
	width        float64
	height       float64
	output       io.Writer
}

// WithLogger sets the logger used throughout the run.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *runConfig) {
		c.log = log
	}
}

// WithPlaceholders overrides the fallback images for ID images whose
// payload is missing.
func WithPlaceholders(p resource.Placeholders) Option {
	return func(c *runConfig) {
		c.placeholders = p
	}
}

// WithBackend draws onto b instead of a new PDF document. WithPageSize has
// no effect on a supplied backend.
func WithBackend(b render.Backend) Option {
	return func(c *runConfig) {
		c.backend = b
	}
}

// WithPageSize sets the page size of the PDF document in points. The default
// is A4 portrait.
func WithPageSize(width, height float64) Option {
	return func(c *runConfig) {
		c.width = width
		c.height = height
	}
}

// WithOutput writes the document to w. The job's output path is still
// validated but no file is created.
func WithOutput(w io.Writer) Option {
	return func(c *runConfig) {
		c.output = w
	}
}

func newRunConfig(opts []Option) *runConfig {
	cfg := &runConfig{
		log:          logrus.StandardLogger(),
		placeholders: resource.DefaultPlaceholders(),
		width:        pdf.A4Width,
		height:       pdf.A4Height,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.backend == nil {
		cfg.backend = pdf.New(pdf.WithPageSize(cfg.width, cfg.height), pdf.WithLogger(cfg.log))
	}
	return cfg
}
