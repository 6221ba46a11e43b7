// Package qr builds the URLs baked into plaques and renders QR images.
package qr

import (
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// renderEndpoint is the hosted generator that serves the plaque images; the
// target URL travels in its "data" query parameter.
const renderEndpoint = "https://api.qrserver.com/v1/create-qr-code/"

// ActivationURL is the stable target every plaque encodes. It never changes
// after generation: the redirect keyed by the code string is what gets
// repointed on activation, not the printed image.
func ActivationURL(publicBase, code string) string {
	return strings.TrimRight(publicBase, "/") + "/qr/" + code + "/activation"
}

// ImageURL returns the hosted render URL for a code's plaque image.
func ImageURL(publicBase, code string) string {
	q := url.Values{}
	q.Set("size", "600x600")
	q.Set("data", ActivationURL(publicBase, code))
	return renderEndpoint + "?" + q.Encode()
}

// DecodeImageURL extracts the encoded target back out of an ImageURL.
func DecodeImageURL(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}
	return u.Query().Get("data"), nil
}

// RenderPNG renders the target URL as PNG bytes, used by the batch CLI to
// write print-ready files alongside the hosted URLs.
func RenderPNG(target string, size int) ([]byte, error) {
	return qrcode.Encode(target, qrcode.Medium, size)
}
