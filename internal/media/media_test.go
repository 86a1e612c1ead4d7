package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 100, A: 255})
		}
	}
	return img
}

type recordingSurface struct {
	attached Stream
	detached int
}

func (s *recordingSurface) Attach(st Stream) { s.attached = st }
func (s *recordingSurface) Detach()          { s.attached = nil; s.detached++ }

func TestAcquirer_CaptureIsPixelExactAndReleases(t *testing.T) {
	src := testImage(5, 2)
	dev := NewStaticDevice(src)
	acq := NewAcquirer(dev)
	surface := &recordingSurface{}

	require.NoError(t, acq.Start(context.Background(), DefaultConstraints(), surface))
	require.True(t, acq.Active())
	require.NotNil(t, surface.attached)

	dataURL, err := acq.Capture(context.Background())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))

	mime, data, err := DecodeDataURL(dataURL, 0)
	require.NoError(t, err)
	require.Equal(t, MimePNG, mime)
	got, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, src.Bounds().Size(), got.Bounds().Size())
	for x := 0; x < 5; x++ {
		for y := 0; y < 2; y++ {
			require.Equal(t, color.RGBAModel.Convert(src.At(x, y)), color.RGBAModel.Convert(got.At(x, y)))
		}
	}

	require.False(t, acq.Active())
	require.True(t, AllTracksStopped(dev.Last()))
	require.Nil(t, surface.attached)
}

func TestAcquirer_CaptureWithoutStream(t *testing.T) {
	acq := NewAcquirer(NewStaticDevice(testImage(2, 2)))
	_, err := acq.Capture(context.Background())
	var captureErr *CaptureError
	require.ErrorAs(t, err, &captureErr)
	require.ErrorIs(t, err, ErrNoStream)
}

func TestAcquirer_PlayFailureReleasesStream(t *testing.T) {
	dev := NewStaticDevice(testImage(2, 2))
	dev.PlayErr = errors.New("autoplay blocked")
	acq := NewAcquirer(dev)
	surface := &recordingSurface{}

	err := acq.Start(context.Background(), DefaultConstraints(), surface)
	var accessErr *AccessError
	require.ErrorAs(t, err, &accessErr)
	require.False(t, acq.Active())
	require.True(t, AllTracksStopped(dev.Last()))
	require.Equal(t, 1, surface.detached)
}

func TestAcquirer_PermissionDenied(t *testing.T) {
	dev := NewStaticDevice(testImage(2, 2))
	dev.OpenErr = ErrPermissionDenied
	err := NewAcquirer(dev).Start(context.Background(), DefaultConstraints(), nil)
	var accessErr *AccessError
	require.ErrorAs(t, err, &accessErr)
	require.True(t, accessErr.PermissionDenied())
}

func TestAcquirer_ReleaseStopsAllTracks(t *testing.T) {
	dev := NewStaticDevice(testImage(2, 2))
	acq := NewAcquirer(dev)
	require.NoError(t, acq.Start(context.Background(), DefaultConstraints(), nil))
	stream := acq.Stream()

	acq.Release()
	acq.Release()
	require.True(t, AllTracksStopped(stream))
	require.False(t, acq.Active())
}

func TestStaticDevice_Exclusive(t *testing.T) {
	dev := NewStaticDevice(testImage(2, 2))
	first := NewAcquirer(dev)
	second := NewAcquirer(dev)

	require.NoError(t, first.Start(context.Background(), DefaultConstraints(), nil))
	err := second.Start(context.Background(), DefaultConstraints(), nil)
	require.ErrorIs(t, err, ErrDeviceBusy)

	first.Release()
	require.NoError(t, second.Start(context.Background(), DefaultConstraints(), nil))
	second.Release()
}

func TestFrameBeforePlayIsNotReady(t *testing.T) {
	dev := NewStaticDevice(testImage(2, 2))
	s, err := dev.Open(context.Background(), DefaultConstraints())
	require.NoError(t, err)
	_, err = s.Frame(context.Background())
	require.ErrorIs(t, err, ErrNotReady)
	s.Stop()
}

func TestDecodeDataURL(t *testing.T) {
	url := EncodeDataURL(MimePNG, []byte{1, 2, 3})
	mime, data, err := DecodeDataURL(url, 0)
	require.NoError(t, err)
	require.Equal(t, MimePNG, mime)
	require.Equal(t, []byte{1, 2, 3}, data)

	for _, bad := range []string{"", "image/png;base64,AAA", "data:text/plain;base64,AAAA", "data:image/png,AAAA", "data:image/png;base64,@@@", "data:image/png;base64,"} {
		_, _, err := DecodeDataURL(bad, 0)
		require.ErrorIs(t, err, ErrInvalidDataURL, bad)
	}

	_, _, err = DecodeDataURL(EncodeDataURL(MimePNG, make([]byte, 100)), 10)
	require.ErrorIs(t, err, ErrImageTooLarge)
}

func TestPreview(t *testing.T) {
	p := &Preview{}
	_, err := p.Frame(context.Background())
	require.ErrorIs(t, err, ErrNoStream)

	acq := NewAcquirer(NewStaticDevice(testImage(3, 3)))
	require.NoError(t, acq.Start(context.Background(), DefaultConstraints(), p))
	img, err := p.Frame(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, img.Bounds().Dx())

	acq.Release()
	_, err = p.Frame(context.Background())
	require.ErrorIs(t, err, ErrNoStream)
}
