package service

import (
	"bytes"
	"path/filepath"
	"strings"

	apperrors "profileauth/internal/errors"
)

// MaxProfileImageSize is the largest accepted profile picture in bytes.
const MaxProfileImageSize = 2 << 20

const (
	contentTypePNG  = "image/png"
	contentTypeJPEG = "image/jpeg"
)

var (
	pngSignature  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegSignature = []byte{0xFF, 0xD8, 0xFF}
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateImageUpload checks the declared file name and the payload size.
// The bytes themselves are not inspected.
func ValidateImageUpload(fileName string, size int) error {
	if !allowedImageExtensions[strings.ToLower(filepath.Ext(fileName))] {
		return apperrors.ErrUnsupportedType
	}
	if size > MaxProfileImageSize {
		return apperrors.ErrTooLarge
	}
	return nil
}

// DetectImageContentType sniffs PNG and JPEG signatures. Anything else is
// served as JPEG.
func DetectImageContentType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return contentTypePNG
	case bytes.HasPrefix(data, jpegSignature):
		return contentTypeJPEG
	default:
		return contentTypeJPEG
	}
}
