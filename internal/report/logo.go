package report

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/disintegration/imaging"
)

// The logo band is 10in x 1.25in; at 96 DPI that is 960 x 120 pixels.
const (
	logoWidth  = 960
	logoHeight = 120
)

// LoadLogo decodes the image at path, scales it to the header band and returns
// it as a PNG data URI.
func LoadLogo(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open logo: %w", err)
	}

	resized := imaging.Resize(img, logoWidth, logoHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode logo: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
