package service

import (
	"bytes"
	"net/http"

	"github.com/disintegration/imaging"

	"github.com/dlourenco/taskman/internal/domain"
)

// Avatar processing limits. Uploads are normalized to a square PNG so
// every stored avatar has the same shape regardless of input.
const (
	maxAvatarUploadBytes = 1_000_000
	avatarSize           = 250
)

var acceptedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// normalizeAvatar validates an uploaded image and converts it to the
// stored form: a 250x250 PNG. Non-square uploads are scaled to cover
// and center-cropped rather than stretched. The size ceiling applies
// to the upload, not the normalized result.
func normalizeAvatar(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, domain.NewValidationError("avatar", "image is required", domain.ErrValidation)
	}
	if len(data) > maxAvatarUploadBytes {
		return nil, domain.NewValidationError("avatar", "image exceeds the 1MB limit", domain.ErrValidation)
	}

	if !acceptedAvatarTypes[http.DetectContentType(data)] {
		return nil, domain.NewValidationError("avatar", "must be a JPEG or PNG image", domain.ErrValidation)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewValidationError("avatar", "could not be decoded as an image", domain.ErrValidation)
	}

	resized := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
