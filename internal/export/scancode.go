package export

import (
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"photostrip/internal/failures"
)

// ScanCode encodes payload as a PNG QR code of size x size pixels.
func ScanCode(payload string, size int) ([]byte, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, failures.Wrap(failures.ErrValidation, "export", "scan code", "payload is empty", nil)
	}
	if size <= 0 {
		return nil, failures.Wrap(failures.ErrValidation, "export", "scan code", "size must be positive", nil)
	}
	data, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, failures.Wrap(failures.ErrRender, "export", "scan code", "qr encoding failed", err)
	}
	return data, nil
}

// RasterURL returns the public address of a session's PNG strip.
func RasterURL(baseURL, sessionID string) (string, error) {
	if strings.TrimSpace(baseURL) == "" || strings.TrimSpace(sessionID) == "" {
		return "", failures.Wrap(failures.ErrValidation, "export", "raster url", "base url and session id are required", nil)
	}
	link, err := url.JoinPath(baseURL, "sessions", sessionID, "strip.png")
	if err != nil {
		return "", failures.Wrap(failures.ErrValidation, "export", "raster url", "invalid base url", err)
	}
	return link, nil
}
