package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlourenco/taskman/internal/domain"
)

func encodeTestImage(t *testing.T, format string, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	default:
		t.Fatalf("unknown format %q", format)
	}
	return buf.Bytes()
}

func TestNormalizeAvatarResizesToSquarePNG(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"png", "jpeg"} {
		format := format
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			out, err := normalizeAvatar(encodeTestImage(t, format, 64, 48))
			require.NoError(t, err)

			decoded, kind, err := image.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, "png", kind)
			assert.Equal(t, 250, decoded.Bounds().Dx())
			assert.Equal(t, 250, decoded.Bounds().Dy())
		})
	}
}

func TestNormalizeAvatarCropsWideImages(t *testing.T) {
	t.Parallel()

	// A wide image split into red, green, and blue thirds. Cropping
	// keeps only the green center; stretching would keep all three.
	img := image.NewRGBA(image.Rect(0, 0, 750, 250))
	for x := 0; x < 750; x++ {
		for y := 0; y < 250; y++ {
			switch {
			case x < 250:
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			case x < 500:
				img.Set(x, y, color.RGBA{G: 255, A: 255})
			default:
				img.Set(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out, err := normalizeAvatar(buf.Bytes())
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	for _, x := range []int{5, 125, 245} {
		r, g, b, _ := decoded.At(x, 125).RGBA()
		assert.Greater(t, g, r, "pixel at x=%d should be green, not red", x)
		assert.Greater(t, g, b, "pixel at x=%d should be green, not blue", x)
	}
}

func TestNormalizeAvatarRejectsEmptyUpload(t *testing.T) {
	t.Parallel()

	_, err := normalizeAvatar(nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNormalizeAvatarRejectsOversizedUpload(t *testing.T) {
	t.Parallel()

	// Valid PNG header so only the size check can trip.
	data := append(encodeTestImage(t, "png", 8, 8), make([]byte, maxAvatarUploadBytes)...)
	_, err := normalizeAvatar(data)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNormalizeAvatarRejectsNonImageContent(t *testing.T) {
	t.Parallel()

	_, err := normalizeAvatar([]byte("%PDF-1.4 definitely not an image"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "avatar", vErr.Field)
}

func TestNormalizeAvatarRejectsTruncatedImage(t *testing.T) {
	t.Parallel()

	data := encodeTestImage(t, "png", 64, 64)
	_, err := normalizeAvatar(data[:20])
	assert.ErrorIs(t, err, domain.ErrValidation)
}
