package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG proofs are accepted and re-encoded as JPEG
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var (
	ErrUnsupportedImage = errors.New("invalid file type: only jpg, jpeg, png allowed")
	ErrImageTooLarge    = errors.New("image exceeds upload limit")
)

const (
	// MaxProofUploadBytes bounds what is read from a multipart proof photo.
	MaxProofUploadBytes = 10 << 20

	proofMaxBytes     = 150 * 1024
	proofMaxDimension = 1280
	proofMinQuality   = 45
)

type FileService interface {
	// UploadAttendanceProof compresses and stores a check-in/out photo and returns its key.
	UploadAttendanceProof(ctx context.Context, userID string, eventType string, at time.Time, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string) (string, error)
}

type fileServiceImpl struct {
	storage   storage.FileStorage
	urlExpiry time.Duration
}

func NewFileService(storage storage.FileStorage, urlExpiry time.Duration) FileService {
	return &fileServiceImpl{
		storage:   storage,
		urlExpiry: urlExpiry,
	}
}

func (s *fileServiceImpl) UploadAttendanceProof(ctx context.Context, userID string, eventType string, at time.Time, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrUnsupportedImage
	}

	buffer, err := io.ReadAll(io.LimitReader(file, MaxProofUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(buffer) > MaxProofUploadBytes {
		return "", ErrImageTooLarge
	}

	compressed, err := compressImage(buffer, proofMaxBytes, proofMaxDimension)
	if err != nil {
		return "", err
	}

	// attendance/{date}/{userID}-{type}-{uuid}.jpg
	key := path.Join("attendance", at.Format("2006-01-02"), fmt.Sprintf("%s-%s-%s.jpg", userID, eventType, uuid.NewString()))

	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance proof: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string) (string, error) {
	return s.storage.GetURL(ctx, key, s.urlExpiry)
}

// compressImage re-encodes to JPEG, first shrinking the longest side to
// maxDimension, then lowering quality until the output fits in maxBytes.
// The smallest encoding is returned when no quality fits.
func compressImage(buffer []byte, maxBytes int, maxDimension int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	img = fitWithin(img, maxDimension)

	var best []byte
	for quality := 85; quality >= proofMinQuality; quality -= 10 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		best = buf.Bytes()
		if len(best) <= maxBytes {
			break
		}
	}
	return best, nil
}

// fitWithin scales src down so neither side exceeds max, keeping the aspect ratio.
func fitWithin(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return src
	}

	if w >= h {
		h = h * max / w
		w = max
	} else {
		w = w * max / h
		h = max
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
