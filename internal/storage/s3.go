// Package storage persists user avatars in an S3-compatible bucket. Images
// are downscaled and re-encoded to webp before upload so the bucket only
// ever holds small, uniform objects.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const maxAvatarSide = 512

type AvatarStore struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

func NewAvatarStore(endpoint, region, bucket, accessKey, secretKey string) *AvatarStore {
	opts := s3.Options{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}

	return &AvatarStore{
		client:   s3.New(opts),
		bucket:   bucket,
		endpoint: endpoint,
	}
}

// Put re-encodes the image and uploads it under avatars/<userID>.webp,
// returning the object URL. Non-image payloads fail decoding.
func (s *AvatarStore) Put(ctx context.Context, userID uint, raw []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = shrink(img)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("failed to encode webp: %w", err)
	}

	key := fmt.Sprintf("avatars/%d.webp", userID)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return s.URL(key), nil
}

func (s *AvatarStore) URL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

func shrink(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxAvatarSide && h <= maxAvatarSide {
		return img
	}

	scale := float64(maxAvatarSide) / float64(w)
	if h > w {
		scale = float64(maxAvatarSide) / float64(h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
