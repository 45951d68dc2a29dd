package preprocess

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// testImage renders a dark square on a light background, a crude stand-in for
// printed text on a label.
func testImage(w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 220, G: 220, B: 220, A: 255}
			if x > w/4 && x < 3*w/4 && y > h/4 && y < 3*h/4 {
				c = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestEnhance_UpscalesAndBinarizes(t *testing.T) {
	e := NewEnhancer(2.0)

	out, err := e.Enhance(testImage(40, 30))
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a decodable PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 80 || bounds.Dy() != 60 {
		t.Errorf("expected 80x60 output, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// Every pixel must be pure black or pure white after thresholding.
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			if g != 0 && g != 255 {
				t.Fatalf("pixel (%d,%d) is %d, want 0 or 255", x, y, g)
			}
		}
	}
}

func TestEnhance_DefaultScale(t *testing.T) {
	e := NewEnhancer(0)

	out, err := e.Enhance(testImage(10, 10))
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a decodable PNG: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("expected default 2x scale, got width %d", img.Bounds().Dx())
	}
}

func TestEnhance_InvalidImage(t *testing.T) {
	e := NewEnhancer(2.0)

	if _, err := e.Enhance([]byte("not an image")); err == nil {
		t.Fatal("expected error for undecodable input")
	}
}

func TestOtsuThreshold_Bimodal(t *testing.T) {
	var hist [256]int
	hist[30] = 500
	hist[220] = 500

	got := otsuThreshold(hist, 1000)
	if got < 30 || got >= 220 {
		t.Errorf("threshold %d should separate the two modes", got)
	}
}

func TestOtsuThreshold_Empty(t *testing.T) {
	var hist [256]int
	if got := otsuThreshold(hist, 0); got != 128 {
		t.Errorf("expected fallback threshold 128, got %d", got)
	}
}
