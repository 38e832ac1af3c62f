package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"math"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// MaxPhotoSize is the largest accepted upload before compression.
const MaxPhotoSize = 10 << 20

var (
	ErrInvalidFileType = errors.New("invalid file type: only jpg, jpeg, png allowed")
	ErrFileTooLarge    = errors.New("file exceeds the 10 MB limit")
	ErrInvalidImage    = errors.New("file is not a readable image")
)

type FileService interface {
	// UploadPhoto stores a check-in, check-out or visit proof photo as a
	// compressed JPEG and returns its public URL.
	UploadPhoto(ctx context.Context, userID string, file io.Reader, filename string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage, now func() time.Time) FileService {
	if now == nil {
		now = time.Now
	}
	return &fileServiceImpl{
		storage: storage,
		now:     now,
	}
}

// UploadPhoto implements FileService.
func (s *fileServiceImpl) UploadPhoto(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrInvalidFileType
	}

	buffer, err := io.ReadAll(io.LimitReader(file, MaxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(buffer) > MaxPhotoSize {
		return "", ErrFileTooLarge
	}

	// Target 50KB - 150KB
	compressed, err := compressImage(buffer, 150*1024, 50*1024)
	if err != nil {
		return "", err
	}

	// photos/{date}/{userID}-{uuid}.jpg, always JPEG after compression
	now := s.now()
	newFilename := fmt.Sprintf("%s-%s.jpg", userID, uuid.New().String())
	target := path.Join("photos", now.Format("2006-01-02"), newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), target, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return s.storage.URL(uploadedPath), nil
}

// compressImage re-encodes an image as JPEG within [minSize, maxSize] where
// possible, lowering quality first and then scaling down.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Still too large: scale toward the middle of the range.
	targetSize := (maxSize + minSize) / 2
	ratio := math.Sqrt(float64(targetSize) / float64(len(compressed)))
	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * ratio)
	height := int(float64(bounds.Dy()) * ratio)

	// Keep the longer side readable.
	const minLongSide = 640
	if long := max(width, height); long < minLongSide && max(bounds.Dx(), bounds.Dy()) > minLongSide {
		scale := float64(minLongSide) / float64(long)
		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
	}
	if width < 1 || height < 1 {
		return compressed, nil
	}

	return encodeJPEG(resizeImage(img, width, height), 70)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
