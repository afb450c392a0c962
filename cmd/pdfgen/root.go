package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	pdfgenerator "github.com/wosatec/PDF-Generator"
	"github.com/wosatec/PDF-Generator/logging"
	"github.com/wosatec/PDF-Generator/render/pdf"
	"github.com/wosatec/PDF-Generator/render/record"
	"github.com/wosatec/PDF-Generator/resource"
)

const envPrefix = "pdfgen"

type rootParams struct {
	template  string
	pages     string
	data      string
	output    string
	draft     bool
	dryRun    bool
	logLevel  string
	logFormat string
	phSmall   string
	phMedium  string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	params := rootParams{}
	defaults := resource.DefaultPlaceholders()

	cmd := &cobra.Command{
		Use:           "pdfgen",
		Short:         "Render a data document through a template into a PDF",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return checkEnvironmentVariables(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(params, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&params.template, "template", "", "document template file")
	cmd.Flags().StringVar(&params.pages, "pages", "", "comma separated page files, merged in order")
	cmd.Flags().StringVar(&params.data, "data", "", "data document")
	cmd.Flags().StringVar(&params.output, "output", "", "PDF file to create; must not exist")
	cmd.Flags().BoolVar(&params.draft, "draft", false, "draw the draft layer")
	cmd.Flags().BoolVar(&params.dryRun, "dry-run", false, "print the composed commands instead of writing a PDF")

	cmd.PersistentFlags().StringVar(&params.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&params.logFormat, "log-format", "text", "log format: text or json")
	cmd.PersistentFlags().StringVar(&params.phSmall, "placeholder-small", defaults.Small, "fallback image for small ID images")
	cmd.PersistentFlags().StringVar(&params.phMedium, "placeholder-medium", defaults.Medium, "fallback image for medium ID images")

	for _, name := range []string{"template", "pages", "data", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// checkEnvironmentVariables fills every flag not set on the command line
// from its PDFGEN_ variable.
func checkEnvironmentVariables(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	var errs []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		name := strings.ReplaceAll(f.Name, "-", "_")
		if f.Changed || !v.IsSet(name) {
			return
		}
		if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(name))); err != nil {
			errs = append(errs, err.Error())
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("mapping environment variables to flags: %s", strings.Join(errs, "; "))
	}
	return nil
}

func run(params rootParams, stdout, stderr io.Writer) error {
	log, err := logging.New(logging.Config{Level: params.logLevel, Format: params.logFormat, Output: stderr})
	if err != nil {
		return err
	}

	job := pdfgenerator.Job{
		Template: params.template,
		Pages:    pdfgenerator.SplitPages(params.pages),
		Data:     params.data,
		Output:   params.output,
		Draft:    params.draft,
	}
	opts := []pdfgenerator.Option{
		pdfgenerator.WithLogger(log),
		pdfgenerator.WithPlaceholders(resource.Placeholders{Small: params.phSmall, Medium: params.phMedium}),
	}
	if params.dryRun {
		opts = append(opts,
			pdfgenerator.WithBackend(record.New(pdf.A4Width, pdf.A4Height)),
			pdfgenerator.WithOutput(stdout),
		)
	}

	res, err := pdfgenerator.Run(job, opts...)
	if err != nil {
		return err
	}
	if len(res.Faults) > 0 {
		log.WithField("faults", len(res.Faults)).Warn("Some elements were skipped.")
	}
	return nil
}
