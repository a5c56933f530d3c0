// Package media stores uploaded product images, videos and contact QR codes.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported media type")

// Upload kinds.
const (
	KindImage = "image"
	KindQR    = "qr"
	KindVideo = "video"
)

const jpegQuality = 80

// Sink persists a processed object and returns the URL it is served from.
type Sink interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Processed is an upload ready to be stored.
type Processed struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Process sniffs the payload and prepares it for storage. Photos are shrunk
// so the longest side is at most maxDim and re-encoded as JPEG; QR codes stay
// PNG so they remain scannable; videos pass through untouched.
func Process(kind string, data []byte, maxDim int) (Processed, error) {
	ct := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(ct, "video/"):
		return Processed{Data: data, ContentType: ct, Ext: videoExt(ct)}, nil
	case ct == "image/jpeg", ct == "image/png", ct == "image/gif":
	default:
		return Processed{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Processed{}, fmt.Errorf("decode image: %w", err)
	}
	img = fit(img, maxDim)

	var buf bytes.Buffer
	if kind == KindQR {
		if err := png.Encode(&buf, img); err != nil {
			return Processed{}, fmt.Errorf("encode png: %w", err)
		}
		return Processed{Data: buf.Bytes(), ContentType: "image/png", Ext: ".png"}, nil
	}
	if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Processed{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Processed{Data: buf.Bytes(), ContentType: "image/jpeg", Ext: ".jpg"}, nil
}

func fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img
	}
	if b.Dx() >= b.Dy() {
		return imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxDim, imaging.Lanczos)
}

// flatten paints transparent pixels white; JPEG has no alpha channel.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), image.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func videoExt(ct string) string {
	switch ct {
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/avi":
		return ".avi"
	}
	return ".bin"
}

// Uploader runs Process and hands the result to a Sink.
type Uploader struct {
	Sink   Sink
	MaxDim int
	now    func() time.Time
}

func NewUploader(sink Sink, maxDim int) *Uploader {
	return &Uploader{Sink: sink, MaxDim: maxDim, now: time.Now}
}

// Upload stores one file and returns its public URL. Keys are grouped by
// kind and month: image/2026-10/<uuid>.jpg.
func (u *Uploader) Upload(ctx context.Context, kind string, data []byte) (string, error) {
	if kind == "" {
		kind = KindImage
	}
	if kind != KindImage && kind != KindQR {
		return "", fmt.Errorf("%w: kind %q", ErrUnsupportedType, kind)
	}
	p, err := Process(kind, data, u.MaxDim)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(p.ContentType, "video/") {
		kind = KindVideo
	}
	key := path.Join(kind, u.now().UTC().Format("2006-01"), uuid.NewString()+p.Ext)
	return u.Sink.Put(ctx, key, p.Data, p.ContentType)
}
