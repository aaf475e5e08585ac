package codec

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	in := Record{
		GameID:         0xdeadbeef,
		Sequence:       42,
		PaddleX:        0.5,
		BallX:          -0.25,
		BallY:          0.999999,
		BallVX:         -1,
		BallVY:         0.000001,
		PauseRemaining: 0.75,
		MyScore:        2,
		OpponentScore:  3,
		SenderName:     "brave-otter",
	}
	out, err := Decode(Encode(in))
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestRoundTripClampsOutOfRange(t *testing.T) {
	in := Record{BallX: 3.7, BallVY: -12, SenderName: "x"}
	out, err := Decode(Encode(in))
	if err != nil {
		t.Fatal(err)
	}
	if out.BallX != 1 {
		t.Errorf("BallX = %v, want clamped 1", out.BallX)
	}
	if out.BallVY != -1 {
		t.Errorf("BallVY = %v, want clamped -1", out.BallVY)
	}
}

func TestRoundTripQuantization(t *testing.T) {
	for _, f := range []float64{0, 0.1, -0.333333333, 0.123456789, 1, -1} {
		want := ToFloat(ToFixed(f))
		out, err := Decode(Encode(Record{BallY: f}))
		if err != nil {
			t.Fatal(err)
		}
		if out.BallY != want {
			t.Errorf("BallY %v round-tripped to %v, want %v", f, out.BallY, want)
		}
		if math.Abs(out.BallY-f) > 1.0/Scale {
			t.Errorf("BallY %v lost more than one quantum: %v", f, out.BallY)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	r := Record{GameID: 7, Sequence: 9, BallX: 0.25, SenderName: "calm-heron"}
	if !bytes.Equal(Encode(r), Encode(r)) {
		t.Fatal("two encodings of the same record differ")
	}
}

func TestDecodeTruncated(t *testing.T) {
	full := Encode(Record{SenderName: "quick-crab"})
	cases := [][]byte{
		nil,
		full[:4],
		full[:headerLen-1],
		full[:len(full)-1],
	}
	for i, b := range cases {
		if _, err := Decode(b); err != ErrTruncated {
			t.Errorf("case %d: got %v, want ErrTruncated", i, err)
		}
	}
}

func TestDecodeRejectsOversizedNameLength(t *testing.T) {
	// a declared length that would wrap negative as a 32-bit int must fail
	// as truncated, not slice out of range
	for _, declared := range []uint32{math.MaxUint32, math.MaxInt32 + 1, 1 << 31} {
		b := Encode(Record{SenderName: "quick-crab"})
		binary.LittleEndian.PutUint32(b[headerLen-4:], declared)
		if _, err := Decode(b); err != ErrTruncated {
			t.Errorf("declared length %d: got %v, want ErrTruncated", declared, err)
		}
	}
}

func TestFixedPointConversion(t *testing.T) {
	cases := []struct {
		f    float64
		want int32
	}{
		{0, 0},
		{1, Scale},
		{-1, -Scale},
		{0.5, Scale / 2},
		{2.5, Scale},
		{-7, -Scale},
	}
	for _, c := range cases {
		if got := ToFixed(c.f); got != c.want {
			t.Errorf("ToFixed(%v) = %d, want %d", c.f, got, c.want)
		}
	}
}
