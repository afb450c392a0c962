package pdfgenerator_test

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	pdfgenerator "github.com/wosatec/PDF-Generator"
	"github.com/wosatec/PDF-Generator/render/pdf"
	"github.com/wosatec/PDF-Generator/render/record"
)

func ExampleRun() {
	dir, err := os.MkdirTemp("", "pdfgen-example")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	files := map[string]string{
		"template.json": `{"colors": {"default": [0, 0, 0]}}`,
		"letter.json": `{
			"contentKey": "letters",
			"margin": {"top": 20, "left": 20, "right": 20, "bottom": 20},
			"elements": [
				{"type": 2, "position": {"top": 0}, "contentKey": "greeting", "format": {"size": 14, "fontBold": true}},
				{"type": 2, "position": {"top": 10}, "contentKey": "body"}
			]
		}`,
		"data.json": `{"letters": [
			{"greeting": "Dear Ada,", "body": "Thank you for your order."},
			{"greeting": "Dear Alan,", "body": "Your parcel has shipped."}
		]}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	res, err := pdfgenerator.Run(pdfgenerator.Job{
		Template: filepath.Join(dir, "template.json"),
		Pages:    []string{filepath.Join(dir, "letter.json")},
		Data:     filepath.Join(dir, "data.json"),
		Output:   filepath.Join(dir, "letters.pdf"),
	},
		pdfgenerator.WithLogger(log),
		pdfgenerator.WithBackend(record.New(pdf.A4Width, pdf.A4Height)),
		pdfgenerator.WithOutput(io.Discard),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("pages: %d, skipped elements: %d\n", res.Pages, len(res.Faults))
	// Output: pages: 2, skipped elements: 0
}
