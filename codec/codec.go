// Package codec packs and unpacks the per-tick game state record exchanged
// between two paddle peers. All positions and velocities are normalized to
// [-1, 1] and carried as fixed-point integers so both peers round identically.
package codec

import (
	"encoding/binary"
	"errors"
	"math"
)

// Scale is the fixed-point scale factor applied to normalized floats.
const Scale = 1_000_000

// headerLen is the fixed part of the wire format: eleven 32-bit words.
const headerLen = 11 * 4

// ErrTruncated is returned by Decode when the buffer is shorter than the
// fixed header plus the declared name length.
var ErrTruncated = errors.New("codec: truncated payload")

// Record is one snapshot of the sender's view of the match. It is built fresh
// each tick, immutable once encoded, and consumed immediately on receipt.
type Record struct {
	GameID         uint32
	Sequence       uint32
	PaddleX        float64
	BallX          float64
	BallY          float64
	BallVX         float64
	BallVY         float64
	PauseRemaining float64
	MyScore        uint32
	OpponentScore  uint32
	SenderName     string
}

func clamp(f float64) float64 {
	return math.Max(-1, math.Min(1, f))
}

// ToFixed converts a normalized float to its wire representation. Values
// outside [-1, 1] are clamped first; the clamp is intentional and makes the
// round trip exact only within that domain.
func ToFixed(f float64) int32 {
	return int32(math.Round(clamp(f) * Scale))
}

// ToFloat is the inverse of ToFixed.
func ToFloat(i int32) float64 {
	return clamp(float64(i) / Scale)
}

// Encode produces the deterministic fixed-layout byte sequence for r:
// eleven little-endian 32-bit words followed by the UTF-8 sender name.
func Encode(r Record) []byte {
	name := []byte(r.SenderName)
	buf := make([]byte, 0, headerLen+len(name))
	buf = binary.LittleEndian.AppendUint32(buf, r.GameID)
	buf = binary.LittleEndian.AppendUint32(buf, r.Sequence)
	for _, f := range []float64{r.PaddleX, r.BallX, r.BallY, r.BallVX, r.BallVY, r.PauseRemaining} {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(ToFixed(f)))
	}
	buf = binary.LittleEndian.AppendUint32(buf, r.MyScore)
	buf = binary.LittleEndian.AppendUint32(buf, r.OpponentScore)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(name)))
	return append(buf, name...)
}

// Decode is the exact inverse of Encode for records whose float fields lie
// in [-1, 1]. It fails with ErrTruncated on short input.
func Decode(b []byte) (Record, error) {
	if len(b) < headerLen {
		return Record{}, ErrTruncated
	}
	word := func(i int) uint32 {
		return binary.LittleEndian.Uint32(b[i*4:])
	}
	// compare in the unsigned domain so a huge declared length cannot wrap
	// negative on 32-bit targets
	if uint32(len(b)-headerLen) < word(10) {
		return Record{}, ErrTruncated
	}
	nameLen := int(word(10))
	return Record{
		GameID:         word(0),
		Sequence:       word(1),
		PaddleX:        ToFloat(int32(word(2))),
		BallX:          ToFloat(int32(word(3))),
		BallY:          ToFloat(int32(word(4))),
		BallVX:         ToFloat(int32(word(5))),
		BallVY:         ToFloat(int32(word(6))),
		PauseRemaining: ToFloat(int32(word(7))),
		MyScore:        word(8),
		OpponentScore:  word(9),
		SenderName:     string(b[headerLen : headerLen+nameLen]),
	}, nil
}
