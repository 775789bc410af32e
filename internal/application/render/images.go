package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Image is a decoded asset ready for embedding. Type is "PNG" or "JPG".
type Image struct {
	Name   string
	Data   []byte
	Type   string
	Width  int
	Height int
}

// DataURL returns the image as a data: URL for inline HTML.
func (im *Image) DataURL() string {
	mime := "image/png"
	if im.Type == "JPG" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(im.Data)
}

// NormalizeImage decodes data in any registered format and returns a PNG or
// JPEG no larger than maxPx on its longest side. PNG and JPEG that are already
// small enough are passed through untouched.
func NormalizeImage(name string, data []byte, maxPx int) (*Image, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("decode %s: empty image", name)
	}

	scaled := maxPx > 0 && (w > maxPx || h > maxPx)
	if !scaled {
		switch format {
		case "png":
			return &Image{Name: name, Data: data, Type: "PNG", Width: w, Height: h}, nil
		case "jpeg":
			return &Image{Name: name, Data: data, Type: "JPG", Width: w, Height: h}, nil
		}
	} else {
		if w >= h {
			w, h = maxPx, max(1, h*maxPx/w)
		} else {
			w, h = max(1, w*maxPx/h), maxPx
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if format == "jpeg" {
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		return &Image{Name: name, Data: buf.Bytes(), Type: "JPG", Width: w, Height: h}, nil
	}
	if err := png.Encode(&buf, src); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return &Image{Name: name, Data: buf.Bytes(), Type: "PNG", Width: w, Height: h}, nil
}
