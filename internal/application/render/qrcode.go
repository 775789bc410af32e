package render

import (
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// SigningQRCode encodes the online signing link printed next to the signature
// box.
func SigningQRCode(url string) (*Image, error) {
	data, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return nil, err
	}
	return &Image{Name: "qrcode", Data: data, Type: "PNG", Width: qrSize, Height: qrSize}, nil
}

// SigningURL joins the configured base with the quotation id.
func SigningURL(base, quotationID string) string {
	if base == "" || quotationID == "" {
		return ""
	}
	if base[len(base)-1] != '/' {
		base += "/"
	}
	return base + quotationID
}
