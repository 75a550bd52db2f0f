package imaging

import (
	"math"
	"testing"

	"github.com/ironsheep/eyedropper-mcp/internal/capture"
)

func TestGammaCorrect_RoundTrip(t *testing.T) {
	n := GammaCorrect{}
	for v := 0; v <= 255; v++ {
		b := uint8(v)
		got := n.Encode(n.Decode(b, b, b))
		if got.R != b || got.G != b || got.B != b {
			t.Errorf("round trip of %d: got %v", v, got)
		}
	}
}

func TestTransferFunctions(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"one", 1, 1},
		{"linear segment", 0.04045, 0.04045 / 12.92},
		{"mid gray", 0.5, math.Pow((0.5+0.055)/1.055, 2.4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SrgbToLinear(tt.in)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("SrgbToLinear(%v) = %v, want %v", tt.in, got, tt.want)
			}
			back := LinearToSrgb(got)
			if math.Abs(back-tt.in) > 1e-9 {
				t.Errorf("LinearToSrgb(%v) = %v, want %v", got, back, tt.in)
			}
		})
	}

	if got := LinearToSrgb(0.0031308); math.Abs(got-0.0031308*12.92) > 1e-12 {
		t.Errorf("LinearToSrgb at threshold = %v", got)
	}
}

func TestPassthrough(t *testing.T) {
	n := Passthrough{}
	got := n.Encode(n.Decode(10, 20, 30))
	if got != (RGBColor{10, 20, 30}) {
		t.Errorf("got %v, want (10,20,30)", got)
	}

	got = n.Encode([3]float64{-4, 300, 127.5})
	if got != (RGBColor{0, 255, 128}) {
		t.Errorf("clamping: got %v, want (0,255,128)", got)
	}
}

func TestGammaCorrect_EncodeClamps(t *testing.T) {
	got := GammaCorrect{}.Encode([3]float64{-0.5, 2, math.NaN()})
	if got != (RGBColor{0, 255, 0}) {
		t.Errorf("got %v, want (0,255,0)", got)
	}
}

func TestNormalizerFor(t *testing.T) {
	if _, ok := NormalizerFor(capture.EncodingSRGB).(Passthrough); !ok {
		t.Error("sRGB frames should use Passthrough")
	}
	if _, ok := NormalizerFor(capture.EncodingNative).(GammaCorrect); !ok {
		t.Error("native frames should use GammaCorrect")
	}
}
