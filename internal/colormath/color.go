// Package colormath holds the colour types shared by the feature extractor and
// the similarity predicates, along with colour-space conversions and the
// distance formulas used to compare colours.
package colormath

import (
	"github.com/lucasb-eyer/go-colorful"
)

// RGBA8 is a colour with 8 bits per channel, non-premultiplied.
type RGBA8 struct {
	R, G, B, A uint8
}

// Color is a colour with normalised float channels in [0,1].
type Color struct {
	R, G, B, A float64
}

// Packed stores one RGBA8 colour in 32 bits, R in the most significant byte
// and A in the least significant one.
type Packed uint32

// Float converts c to a normalised colour. Each channel is exactly v/255.
func (c RGBA8) Float() Color {
	return Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// Channel returns channel i (0=R, 1=G, 2=B, 3=A).
func (c RGBA8) Channel(i int) uint8 {
	switch i {
	case 0:
		return c.R
	case 1:
		return c.G
	case 2:
		return c.B
	default:
		return c.A
	}
}

// Pack encodes c as a Packed value.
func Pack(c RGBA8) Packed {
	return Packed(uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A))
}

// Unpack decodes p back into its four channels.
func (p Packed) Unpack() RGBA8 {
	return RGBA8{
		R: uint8(p >> 24),
		G: uint8(p >> 16),
		B: uint8(p >> 8),
		A: uint8(p),
	}
}

// Hex renders the RGB part of p as "#rrggbb".
func (p Packed) Hex() string {
	c := p.Unpack()
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// rgb returns the first three channels of c as an array, which is the form the
// conversion formulas iterate over.
func (c Color) rgb() [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}
