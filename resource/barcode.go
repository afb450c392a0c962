package resource

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/pdf417"
	"github.com/boombuler/barcode/qr"
)

// pixels per barcode module
const barcodeScale = 4

// code128 bar height, in pixels
const linearBarcodeHeight = 80

// pdf417 error correction level
const pdf417SecurityLevel = 4

// encodeBarcode renders content as a PNG in the given symbology.
func encodeBarcode(kind, content string) ([]byte, error) {
	var (
		bc  barcode.Barcode
		err error
	)
	switch kind {
	case "QR":
		bc, err = qr.Encode(content, qr.M, qr.Auto)
	case "CODE128":
		bc, err = code128.Encode(content)
	case "PDF417":
		bc, err = pdf417.Encode(content, pdf417SecurityLevel)
	default:
		return nil, fmt.Errorf("%w: unsupported barcode %s", ErrImage, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImage, kind, err)
	}

	b := bc.Bounds()
	h := b.Dy() * barcodeScale
	if kind == "CODE128" {
		h = linearBarcodeHeight
	}
	bc, err = barcode.Scale(bc, b.Dx()*barcodeScale, h)
	if err != nil {
		return nil, fmt.Errorf("%w: scaling %s: %v", ErrImage, kind, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, bc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImage, kind, err)
	}
	return buf.Bytes(), nil
}
