package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noisyPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newService(t *testing.T) (FileService, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)
	now := func() time.Time { return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC) }
	return NewFileService(local, now), dir
}

func TestUploadPhoto_StoresCompressedJPEG(t *testing.T) {
	svc, dir := newService(t)

	url, err := svc.UploadPhoto(context.Background(), "u-worker", bytes.NewReader(noisyPNG(t, 800, 600)), "selfie.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/photos/2025-03-10/u-worker-"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(stored), 150*1024)

	img, err := jpeg.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestUploadPhoto_Rejections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.UploadPhoto(ctx, "u-worker", strings.NewReader("%PDF-1.4"), "report.pdf")
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = svc.UploadPhoto(ctx, "u-worker", strings.NewReader("not an image"), "photo.jpg")
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = svc.UploadPhoto(ctx, "u-worker", bytes.NewReader(make([]byte, MaxPhotoSize+1)), "huge.jpg")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
