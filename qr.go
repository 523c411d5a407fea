// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes, Micro QR codes and rMQR codes.

Encode returns the smallest QR code holding a UTF-8 string:

	code, err := qr.Encode("OTTER", qr.M)

EncodeData gives control over input interpretation and the symbol
family; the coding package exposes the underlying pipeline for
explicit versions and custom segmentation.
*/
package qr // import "github.com/enc2d/qr"

import (
	"errors"
	"image"
	"image/color"

	"github.com/enc2d/qr/coding"
	"github.com/enc2d/qr/split"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
// rMQR codes permit only M and H.
type Level = coding.Level

const (
	L = coding.L // 20% redundant
	M = coding.M // 38% redundant
	Q = coding.Q // 55% redundant
	H = coding.H // 65% redundant
)

// Symbol families for EncodeData.
const (
	QR     = split.QR     // QR code versions 1 to 40
	Micro  = split.Micro  // Micro QR versions M1 to M4
	RMQR   = split.RMQR   // rMQR versions R7x43 to R17x139
	Either = split.Either // Micro QR if the data fits, QR otherwise
)

// Errors returned by the encoder.
var (
	ErrTooLong = coding.ErrTooLong // data exceeds the largest version
	ErrVersion = coding.ErrVersion // invalid version / level combination
	ErrArgs    = errors.New("qr: invalid rendering arguments")
)

// Extended Channel Interpretation assignment numbers.
const (
	Latin1ECI   = split.Latin1ECI
	ShiftJISECI = split.ShiftJISECI
	UTF8ECI     = split.UTF8ECI
	BinaryECI   = split.BinaryECI
)

// A Code is a finished symbol: a rectangular pixel grid, plus
// rendering preferences consumed by the output encoders.
// The grid is immutable once constructed.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Width  int    // number of modules per row
	Height int    // number of rows
	Stride int    // number of bytes per row

	Scale   int  // image pixels per module
	Border  int  // quiet zone size in modules
	Reverse bool // render colours inverted

	version coding.Version
	level   Level
	mask    int
}

// newCode wraps a coding.Code with default rendering preferences:
// scale 4 and the quiet zone the symbology prescribes (4 modules for
// QR, 2 for Micro QR and rMQR).
func newCode(cc *coding.Code) *Code {
	border := 4
	if cc.Version.IsMicro() || cc.Version.IsRMQR() {
		border = 2
	}
	return &Code{
		Bitmap:  cc.Bitmap,
		Width:   cc.Width,
		Height:  cc.Height,
		Stride:  cc.Stride,
		Scale:   4,
		Border:  border,
		version: cc.Version,
		level:   cc.Level,
		mask:    cc.Mask,
	}
}

// Black reports whether the module at column x, row y is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Width && 0 <= y && y < c.Height &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// Version returns the symbol version.
func (c *Code) Version() coding.Version { return c.version }

// Level returns the error correction level.
func (c *Code) Level() Level { return c.level }

// Mask returns the applied mask pattern index.
func (c *Code) Mask() int { return c.mask }

// EachModule calls f for every module in row-major order.
func (c *Code) EachModule(f func(x, y int, black bool)) {
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			f(x, y, c.Black(x, y))
		}
	}
}

func (c *Code) isValid() bool {
	return c.Width > 0 && c.Height > 0 && c.Scale > 0 && c.Border >= 0 &&
		len(c.Bitmap) >= c.Stride*c.Height && c.Stride >= (c.Width+7)/8
}

// Encode returns an encoding of text at the given error correction
// level, using the smallest QR version the text fits.
func Encode(text string, level Level) (*Code, error) {
	return EncodeData(split.String{Text: text}, level, QR)
}

// EncodeBinary returns an encoding of data in byte mode at the given
// error correction level.
func EncodeBinary(data []byte, level Level) (*Code, error) {
	return EncodeData(split.Segment{Text: string(data), Mode: split.Byte},
		level, QR)
}

// EncodeData returns an encoding of data at the given error
// correction level, using the smallest fitting version of the given
// symbol family.
func EncodeData(data split.Data, level Level, format split.Format) (*Code, error) {
	segs, ver, err := split.Split(data, level, format)
	if err != nil {
		return nil, err
	}
	cc, err := coding.Encode(ver, level, segs...)
	if err != nil {
		return nil, err
	}
	return newCode(cc), nil
}

// EncodeVersion returns an encoding of text in the given version,
// choosing the highest error correction level that still admits the
// data.
func EncodeVersion(text string, version coding.Version) (*Code, error) {
	segs, bits, err := split.SplitVersion(split.String{Text: text}, version)
	if err != nil {
		return nil, err
	}
	var last error = ErrVersion
	for level := H; level >= L; level-- {
		if !version.Valid(level) {
			continue
		}
		if bits > version.DataBits(level) {
			last = ErrTooLong
			continue
		}
		cc, err := coding.Encode(version, level, segs...)
		if err != nil {
			return nil, err
		}
		return newCode(cc), nil
	}
	return nil, last
}

// Image returns an Image displaying the code.
func (c *Code) Image() image.Image {
	return &codeImage{c}
}

// codeImage implements image.Image
type codeImage struct {
	*Code
}

var (
	whiteColor color.Color = color.Gray{0xFF}
	blackColor color.Color = color.Gray{0x00}
)

func (c *codeImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, (c.Width+2*c.Border)*c.Scale,
		(c.Height+2*c.Border)*c.Scale)
}

func (c *codeImage) At(x, y int) color.Color {
	black := c.Black(x/c.Scale-c.Border, y/c.Scale-c.Border)
	if black != c.Reverse {
		return blackColor
	}
	return whiteColor
}

func (c *codeImage) ColorModel() color.Model {
	return color.GrayModel
}
