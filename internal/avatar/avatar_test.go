package avatar

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebp "golang.org/x/image/webp"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFitKeepsAspect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1024, 512))

	out := Fit(img, 256)

	assert.Equal(t, 256, out.Bounds().Dx())
	assert.Equal(t, 128, out.Bounds().Dy())

	small := image.NewRGBA(image.Rect(0, 0, 100, 50))
	assert.Same(t, small, Fit(small, 256))
}

func TestProcessProducesWebp(t *testing.T) {
	out, err := Process(bytes.NewReader(pngOf(t, 600, 300)))
	require.NoError(t, err)

	cfg, err := xwebp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
}

func TestProcessRejects(t *testing.T) {
	_, err := Process(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Process(io.LimitReader(zeroReader{}, MaxUpload+10))
	assert.ErrorIs(t, err, ErrTooLarge)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

type fakeS3 struct {
	in  *s3.PutObjectInput
	err error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	return &s3.PutObjectOutput{}, f.err
}

func TestS3StoragePut(t *testing.T) {
	api := &fakeS3{}
	s := &S3Storage{api: api, bucket: "avatars-bucket", publicBase: "https://cdn.test"}

	url, err := s.Put(context.Background(), 42, []byte("webp-bytes"))

	require.NoError(t, err)
	assert.Regexp(t, `^https://cdn\.test/avatars/42/[0-9a-f-]{36}\.webp$`, url)
	assert.Equal(t, "avatars-bucket", *api.in.Bucket)
	assert.Equal(t, ContentType, *api.in.ContentType)
	assert.True(t, strings.HasPrefix(*api.in.Key, "avatars/42/"))

	api.err = errors.New("denied")
	_, err = s.Put(context.Background(), 42, []byte("x"))
	assert.Error(t, err)
}

func TestNewS3StorageDefaultsPublicBase(t *testing.T) {
	s := NewS3Storage(S3Config{Bucket: "b", Region: "eu-west-1"})
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", s.publicBase)
}
