package credential

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// QRGenerator renders the QR asset for a verification code and returns the
// public URL of the image plus the payload it encodes.
type QRGenerator interface {
	Generate(verificationCode string) (qrURL string, qrData string, err error)
}

// FileQRGenerator writes QR PNGs under the upload directory, to be served by
// the router's static /public mount.
type FileQRGenerator struct {
	UploadDir   string // filesystem dir, e.g. ./public/uploads
	FrontendURL string // base of the public verification page
	PixelSize   int
}

func NewFileQRGenerator(uploadDir, frontendURL string) *FileQRGenerator {
	return &FileQRGenerator{
		UploadDir:   uploadDir,
		FrontendURL: frontendURL,
		PixelSize:   512,
	}
}

// VerificationURL builds the deep link the QR encodes. The same link is what
// the share action copies to the clipboard on the client.
func (g *FileQRGenerator) VerificationURL(verificationCode string) string {
	return fmt.Sprintf("%s/verify-credential/%s", g.FrontendURL, verificationCode)
}

// Generate renders the PNG and returns its relative URL with a cache-busting
// timestamp so browsers never serve a stale image after regeneration.
func (g *FileQRGenerator) Generate(verificationCode string) (string, string, error) {
	data := g.VerificationURL(verificationCode)

	dir := filepath.Join(g.UploadDir, "qr")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create QR directory: %w", err)
	}

	filename := verificationCode + ".png"
	if err := qrcode.WriteFile(data, qrcode.Medium, g.PixelSize, filepath.Join(dir, filename)); err != nil {
		return "", "", fmt.Errorf("failed to render QR code: %w", err)
	}

	qrURL := fmt.Sprintf("/public/uploads/qr/%s?t=%d", filename, time.Now().Unix())
	return qrURL, data, nil
}
