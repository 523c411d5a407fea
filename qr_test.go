// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/enc2d/qr/coding"
	"github.com/enc2d/qr/split"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	c, err := Encode("01234567", M)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(1), c.Version())
	assert.Equal(t, M, c.Level())
	assert.Equal(t, 2, c.Mask())
	assert.Equal(t, 21, c.Width)
	assert.Equal(t, 21, c.Height)

	// matches the low-level encoder output module for module
	cc, err := coding.Encode(1, M, coding.Segment{Text: "01234567",
		Mode: coding.Numeric})
	require.NoError(t, err)
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			assert.Equal(t, cc.Black(x, y), c.Black(x, y),
				"module (%d,%d)", x, y)
		}
	}
}

func TestEmptyPayload(t *testing.T) {
	c, err := Encode("", L)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(1), c.Version())
	assert.Equal(t, 21, c.Width)
}

func TestTooLong(t *testing.T) {
	_, err := EncodeBinary(make([]byte, 2954), L)
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestMaxCapacity(t *testing.T) {
	c, err := EncodeBinary(make([]byte, 2953), L)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(40), c.Version())
	assert.Equal(t, 177, c.Width)
}

func TestBinaryAuto(t *testing.T) {
	c, err := EncodeBinary(make([]byte, 7), L)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(1), c.Version())
	assert.Equal(t, L, c.Level())
}

// TestEncodeVersion checks that an explicit version gets the highest
// error correction level admitting the data: "HELLO WORLD" needs 74
// bits, more than version 1-H holds (72) but within 1-Q (104).
func TestEncodeVersion(t *testing.T) {
	c, err := EncodeVersion("HELLO WORLD", 1)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(1), c.Version())
	assert.Equal(t, Q, c.Level())

	_, err = EncodeVersion(strings.Repeat("1", 1000), 1)
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestEncodeMicro(t *testing.T) {
	c, err := EncodeData(split.String{Text: "01234567"}, L, Micro)
	require.NoError(t, err)
	assert.Equal(t, coding.M2, c.Version())
	assert.Equal(t, 13, c.Width)
	assert.Equal(t, 2, c.Border)
}

func TestEncodeRMQR(t *testing.T) {
	c, err := EncodeData(split.String{Text: "0123456789"}, M, RMQR)
	require.NoError(t, err)
	assert.True(t, c.Version().IsRMQR())
	assert.Greater(t, c.Width, c.Height)
}

func TestEachModule(t *testing.T) {
	c, err := Encode("COUNT", L)
	require.NoError(t, err)
	n, dark := 0, 0
	c.EachModule(func(x, y int, black bool) {
		n++
		if black {
			dark++
		}
	})
	assert.Equal(t, c.Width*c.Height, n)
	assert.Greater(t, dark, 0)
	assert.Less(t, dark, n)
}

func TestPNG(t *testing.T) {
	c, err := Encode("PNG TEST", L)
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, c.EncodePNG(&b))
	img, err := png.Decode(&b)
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, (c.Width+2*c.Border)*c.Scale, bounds.Dx())
	// a corner of the quiet zone is white, the finder corner black
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	r, _, _, _ = img.At(c.Border*c.Scale, c.Border*c.Scale).RGBA()
	assert.Equal(t, uint32(0), r)
}

func TestPBM(t *testing.T) {
	c, err := Encode("PBM TEST", L)
	require.NoError(t, err)
	c.Scale = 1
	var b bytes.Buffer
	require.NoError(t, c.EncodePBM(&b))
	assert.True(t, bytes.HasPrefix(b.Bytes(), []byte("P4\n29 29\n")))
}

func TestSVG(t *testing.T) {
	c, err := Encode("SVG TEST", L)
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, c.EncodeSVG(&b))
	s := b.String()
	assert.Contains(t, s, "<svg")
	assert.Contains(t, s, `viewBox="0 0 29 29"`)
	assert.Contains(t, s, "</svg>")
}

func TestEPS(t *testing.T) {
	c, err := Encode("EPS TEST", L)
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, c.EncodeEPS(&b))
	assert.True(t, strings.HasPrefix(b.String(), "%!PS-Adobe-2.0 EPSF-2.0"))
}

func TestPIC(t *testing.T) {
	c, err := Encode("PIC TEST", L)
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, c.EncodePIC(&b))
	s := b.String()
	assert.True(t, strings.HasPrefix(s, "maxpswid=29;maxpsht=29;"))
	assert.Contains(t, s, "define p {")
	// the top left finder starts with a 7 module run inside the
	// quiet zone offset
	assert.Contains(t, s, "p(4,4,7,1)")
}

func TestUTF8(t *testing.T) {
	c, err := Encode("UTF8 TEST", L)
	require.NoError(t, err)
	s := c.String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	assert.Len(t, lines, (c.Height+2*c.Border+1)/2)
}

func TestInvalidRenderArgs(t *testing.T) {
	c := &Code{}
	assert.ErrorIs(t, c.EncodePBM(&bytes.Buffer{}), ErrArgs)
	assert.ErrorIs(t, c.EncodeSVG(&bytes.Buffer{}), ErrArgs)
}

func TestText(t *testing.T) {
	// ECI designator plus text
	c, err := EncodeData(split.Text("héllo", nil, UTF8ECI), M, QR)
	require.NoError(t, err)
	assert.False(t, c.Version().IsMicro())
}
