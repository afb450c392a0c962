// Package pdfgenerator renders a data document through a template into a
// paginated PDF.
//
// A Job names the template file, the page files merged into it in order, the
// data document and the output path:
//
//	res, err := pdfgenerator.Run(pdfgenerator.Job{
//	    Template: "template.json",
//	    Pages:    []string{"cover.json", "items.json"},
//	    Data:     "data.json",
//	    Output:   "out/report.pdf",
//	})
//
// Elements that cannot be built are skipped and reported in Result.Faults;
// everything else that goes wrong fails the run with an *Error.
package pdfgenerator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wosatec/PDF-Generator/compose"
	"github.com/wosatec/PDF-Generator/query"
	"github.com/wosatec/PDF-Generator/template"
)

// Job describes one document to generate.
type Job struct {
	Template string
	Pages    []string
	Data     string
	Output   string
	Draft    bool
}

// Result summarizes a finished run.
type Result struct {
	Pages  int
	Faults []compose.Fault
}

// SplitPages splits a comma separated page list, dropping blank entries.
func SplitPages(list string) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that every input exists and that the output does not.
func (j Job) Validate() error {
	if err := requireFile("template", j.Template); err != nil {
		return err
	}
	if len(j.Pages) == 0 {
		return fmt.Errorf("%w: no pages provided", ErrArgument)
	}
	for _, p := range j.Pages {
		if err := requireFile("pages", p); err != nil {
			return err
		}
	}
	if err := requireFile("data", j.Data); err != nil {
		return err
	}
	if strings.TrimSpace(j.Output) == "" {
		return fmt.Errorf("%w: no output provided", ErrArgument)
	}
	if _, err := os.Stat(j.Output); err == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, j.Output)
	}
	return nil
}

func requireFile(flag, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: no %s provided", ErrArgument, flag)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: invalid argument for --%s: %s", ErrArgument, flag, path)
	}
	return nil
}

// Run validates the job, composes the document and writes it.
func Run(job Job, opts ...Option) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, newError("validate", err)
	}
	cfg := newRunConfig(opts)
	log := cfg.log.WithField("output", job.Output)

	tpl, err := template.Load(job.Template, job.Pages)
	if err != nil {
		return nil, newError("load template", err)
	}
	c := compose.New(tpl, cfg.backend, compose.WithLogger(cfg.log), compose.WithPlaceholders(cfg.placeholders))
	if err := c.LoadFonts(); err != nil {
		return nil, newError("load fonts", err)
	}

	raw, err := template.ReadSource(job.Data)
	if err != nil {
		return nil, newError("load data", err)
	}
	root, err := query.Parse(raw)
	if err != nil {
		return nil, newError("load data", fmt.Errorf("%s: %w", job.Data, err))
	}
	if err := c.LoadData(root); err != nil {
		return nil, newError("load data", err)
	}

	if err := c.Compose(); err != nil {
		return nil, newError("compose", err)
	}
	if err := c.Overlay(job.Draft); err != nil {
		return nil, newError("overlay", err)
	}

	if err := finalize(c, job.Output, cfg.output); err != nil {
		return nil, newError("write", err)
	}

	res := &Result{Pages: c.Pages(), Faults: c.Faults()}
	log.WithFields(logrus.Fields{"pages": res.Pages, "faults": len(res.Faults)}).Info("Document written.")
	return res, nil
}

// finalize writes to w when set, otherwise to a new file at path. A partly
// written file is removed on failure.
func finalize(c *compose.Composer, path string, w io.Writer) (err error) {
	if w != nil {
		return c.Finalize(w)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return c.Finalize(f)
}
