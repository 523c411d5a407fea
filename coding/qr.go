// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "fmt"

// A Code is a finished symbol: a pixel grid of Width x Height
// modules, one bit per module, rows padded to whole bytes.
type Code struct {
	Bitmap  []byte  // 1 is black, 0 is white
	Width   int     // number of modules per row
	Height  int     // number of rows
	Stride  int     // number of bytes per row
	Version Version // symbol version
	Level   Level   // error correction level
	Mask    int     // applied mask index
}

// Black reports whether the module at column x, row y is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Width && 0 <= y && y < c.Height &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// An Encoder encodes segments into a symbol of a fixed version and
// level.  Each encoder owns its buffers; encoders may be used
// concurrently from independent goroutines.
type Encoder struct {
	version Version
	level   Level
	b       *Bits
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	if version < MinVersion || version > MaxRMQR {
		return nil, ErrVersion
	}
	if !version.Valid(level) {
		return nil, ErrLevel
	}
	return &Encoder{
		version: version,
		level:   level,
		b:       NewBits(version, level),
	}, nil
}

// Write adds text to e.
func (e *Encoder) Write(text ...Segment) error {
	class := e.version.SizeClass()
	for _, t := range text {
		if err := t.Encode(e.b, class); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) Reset() { e.b.Reset() }

// Code returns a symbol containing the data written to e.
func (e *Encoder) Code() (*Code, error) {
	if e.b.Bits() > e.version.DataBits(e.level) {
		return nil, fmt.Errorf("qr: cannot encode %d bits into %d-bit code: %w",
			e.b.Bits(), e.version.DataBits(e.level), ErrTooLong)
	}
	e.b.AddCheckBytes(e.version, e.level)
	bits := e.b.Permute(e.version, e.level)

	c := NewCanvas(e.version, e.level)
	c.PlaceData(&bits)
	return chooseMask(c).Code(), nil
}

// chooseMask applies each candidate mask to a copy of the canvas and
// returns the winner: the lowest penalty for QR, the highest
// evaluation score for Micro QR (lowest index on ties), and the
// single fixed mask for rMQR.
func chooseMask(c *Canvas) *Canvas {
	n := c.Masks()
	if n == 1 {
		c.ApplyMask(0)
		return c
	}
	var best *Canvas
	bestScore := 0
	for mask := 0; mask < n; mask++ {
		cc := c.Clone()
		cc.ApplyMask(mask)
		var score int
		if c.version.IsMicro() {
			score = -cc.MicroScore()
		} else {
			score = cc.Penalty()
		}
		if best == nil || score < bestScore {
			best, bestScore = cc, score
		}
	}
	return best
}

// Code packs the canvas into a Code bitmap.
func (c *Canvas) Code() *Code {
	if c.state != stateStamped {
		panic("qr: code of unfinished canvas")
	}
	stride := (c.width + 7) >> 3
	code := &Code{
		Bitmap:  make([]byte, stride*c.height),
		Width:   c.width,
		Height:  c.height,
		Stride:  stride,
		Version: c.version,
		Level:   c.level,
		Mask:    c.mask,
	}
	for y := 0; y < c.height; y++ {
		row := code.Bitmap[y*stride:]
		for x := 0; x < c.width; x++ {
			if c.At(y, x).IsDark() {
				row[x>>3] |= 0x80 >> (x & 7)
			}
		}
	}
	return code
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(text ...Segment) (*Code, error) {
	if err := e.Write(text...); err != nil {
		return nil, err
	}
	return e.Code()
}

// Encode encodes text using an Encoder with the given version and
// level.
func Encode(version Version, level Level, text ...Segment) (*Code, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, err
	}
	return e.Encode(text...)
}
