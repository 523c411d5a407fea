// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// debugString renders a code as rows of '#' and '.' with a leading
// newline, the format used by the reference matrices.
func debugString(c *Code) string {
	var b strings.Builder
	for y := 0; y < c.Height; y++ {
		b.WriteByte('\n')
		for x := 0; x < c.Width; x++ {
			if c.Black(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

// ISO/IEC 18004 Annex I reference symbol: "01234567", version 1-M.
const annexIQR = `
#######..#.##.#######
#.....#..####.#.....#
#.###.#.#.....#.###.#
#.###.#.##....#.###.#
#.###.#.#.###.#.###.#
#.....#.#...#.#.....#
#######.#.#.#.#######
........#..##........
#.#####..#..#.#####..
...#.#.##.#.#..#.##..
..#...##.#.#.#..#####
....#....#.....####..
...######..#.#..#....
........#.#####..##..
#######..##.#.##.....
#.....#.#.#####...#.#
#.###.#.#...#..#.##..
#.###.#.##..#..#.....
#.###.#.#.##.#..#.#..
#.....#........##.##.
#######.####.#..#.#..`

// ISO/IEC 18004 Annex I reference symbol: "01234567", version M2-L.
const annexIMicro = `
#######.#.#.#
#.....#.###.#
#.###.#..##.#
#.###.#..####
#.###.#.###..
#.....#.#...#
#######..####
.........##..
##.#....#...#
.##.#.#.#.#.#
###..#######.
...#.#....##.
###.#..##.###`

func TestAnnexIQR(t *testing.T) {
	c, err := Encode(1, M, Segment{"01234567", Numeric})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Mask)
	assert.Equal(t, annexIQR, debugString(c))
}

func TestAnnexIMicro(t *testing.T) {
	c, err := Encode(M2, L, Segment{"01234567", Numeric})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Mask)
	assert.Equal(t, annexIMicro, debugString(c))
}

// TestNumericCodewords checks the Annex I bit stream for "01234567"
// at version 1-M: data codewords, pad codewords and checksum.
func TestNumericCodewords(t *testing.T) {
	b := NewBits(1, M)
	require.NoError(t, Segment{"01234567", Numeric}.Encode(b, Class0))
	assert.Equal(t, 41, b.Bits())
	b.AddCheckBytes(1, M)
	want := []byte{
		0x10, 0x20, 0x0c, 0x56, 0x61, 0x80, 0xec, 0x11,
		0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11,
		0xa5, 0x24, 0xd4, 0xc1, 0xed, 0x36, 0xc7, 0x87, 0x2c, 0x55,
	}
	assert.Equal(t, want, b.Bytes())
}

// TestAlphanumericCodewords checks the interleaved stream for
// "HELLO WORLD" at version 1-Q.
func TestAlphanumericCodewords(t *testing.T) {
	b := NewBits(1, Q)
	require.NoError(t, Segment{"HELLO WORLD", Alphanumeric}.Encode(b, Class0))
	b.AddCheckBytes(1, Q)
	s := b.Permute(1, Q)
	want := []byte{
		0x20, 0x5b, 0x0b, 0x78, 0xd1, 0x72, 0xdc, 0x4d, 0x43, 0x40,
		0xec, 0x11, 0xec,
		0xa8, 0x48, 0x16, 0x52, 0xd9, 0x36, 0x9c, 0x00, 0x2e, 0x0f,
		0xb4, 0x7a, 0x10,
	}
	assert.Equal(t, want, s.Bytes())
}

func TestHelloWorldMask(t *testing.T) {
	c, err := Encode(1, Q, Segment{"HELLO WORLD", Alphanumeric})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Mask)
}

// TestPenalties pins the per-mask penalty scores of the Annex I
// example symbol.
func TestPenalties(t *testing.T) {
	e, err := NewEncoder(1, M)
	require.NoError(t, err)
	require.NoError(t, e.Write(Segment{"01234567", Numeric}))
	e.b.AddCheckBytes(1, M)
	bits := e.b.Permute(1, M)
	c := NewCanvas(1, M)
	c.PlaceData(&bits)
	want := []int{1057, 1093, 1037, 1052, 1130, 1197, 1099, 1046}
	for mask, p := range want {
		cc := c.Clone()
		cc.ApplyMask(mask)
		assert.Equal(t, p, cc.Penalty(), "mask %d", mask)
	}
}

// TestM1Stream checks the Micro QR M1 stream for "123": a 3 bit
// count field, a 3 bit terminator, a zero-filled final 4 bit
// codeword, and two check bytes packed against it.
func TestM1Stream(t *testing.T) {
	b := NewBits(M1, L)
	require.NoError(t, Segment{"123", Numeric}.Encode(b, ClassM1))
	assert.Equal(t, 13, b.Bits())
	b.AddCheckBytes(M1, L)
	assert.Equal(t, []byte{0x63, 0xd8, 0x03, 0x98, 0x20}, b.Bytes())
}

// TestCapacity checks the cross-stage capacity invariant for every
// version and level: the number of data modules on the canvas equals
// data bits plus checksum bits plus remainder bits.
func TestCapacity(t *testing.T) {
	for v := MinVersion; v <= MaxRMQR; v++ {
		for l := L; l <= H; l++ {
			if !v.Valid(l) {
				continue
			}
			c := NewCanvas(v, l)
			lev := v.blockInfo(l)
			want := v.DataBits(l) + 8*lev.nblock*lev.check +
				v.remainderBits()
			assert.Equal(t, want, c.DataModules(), "%v-%v", v, l)
		}
	}
}

// TestEncodeSweep encodes a short payload in every valid version and
// level combination, exercising padding, block splitting,
// interleaving and placement.  PlaceData panics on any capacity
// mismatch.
func TestEncodeSweep(t *testing.T) {
	for v := MinVersion; v <= MaxRMQR; v++ {
		for l := L; l <= H; l++ {
			if !v.Valid(l) {
				continue
			}
			c, err := Encode(v, l, Segment{"0123", Numeric})
			require.NoError(t, err, "%v-%v", v, l)
			w, h := v.Size()
			assert.Equal(t, w, c.Width, "%v-%v", v, l)
			assert.Equal(t, h, c.Height, "%v-%v", v, l)
			if v.IsRMQR() {
				assert.Equal(t, 0, c.Mask)
			} else {
				assert.Less(t, c.Mask, maskCount(v), "%v-%v", v, l)
			}
		}
	}
}

func maskCount(v Version) int {
	if v.IsMicro() {
		return 4
	}
	return 8
}

// TestFormatRoundTrip reads the format information back off finished
// symbols and checks it decodes to the level and mask used.
func TestFormatRoundTrip(t *testing.T) {
	c, err := Encode(2, H, Segment{"FORMAT TEST 123", Alphanumeric})
	require.NoError(t, err)
	var got uint32
	for i := 0; i < 15; i++ {
		var bit bool
		switch {
		case i < 6:
			bit = c.Black(i, 8)
		case i < 8:
			bit = c.Black(i+1, 8)
		case i == 8:
			bit = c.Black(8, 7)
		default:
			bit = c.Black(8, 14-i)
		}
		if bit {
			got |= 1 << uint(14-i)
		}
	}
	assert.Equal(t, formatBits(H, c.Mask), got)
	// the split copy along the right and bottom edges matches
	for i := 0; i < 15; i++ {
		var bit bool
		if i < 7 {
			bit = c.Black(8, c.Height-1-i)
		} else {
			bit = c.Black(c.Width-15+i, 8)
		}
		assert.Equal(t, got>>uint(14-i)&1 != 0, bit, "bit %d", i)
	}
}

func TestMicroFormatRoundTrip(t *testing.T) {
	c, err := Encode(M3, M, Segment{"0123456789", Numeric})
	require.NoError(t, err)
	var got uint32
	for i := 0; i < 15; i++ {
		var bit bool
		if i < 8 {
			bit = c.Black(8, i+1)
		} else {
			bit = c.Black(15-i, 8)
		}
		if bit {
			got |= 1 << uint(i)
		}
	}
	assert.Equal(t, mformatBits(M3, M, c.Mask), got)
}

func TestRMQRFormatRoundTrip(t *testing.T) {
	c, err := Encode(R9x59, H, Segment{"0123456789", Numeric})
	require.NoError(t, err)
	var got, got2 uint32
	for i := 0; i < 18; i++ {
		if y, x := rmqrFormatPos(i, c.Width, c.Height, false); c.Black(x, y) {
			got |= 1 << uint(i)
		}
		if y, x := rmqrFormatPos(i, c.Width, c.Height, true); c.Black(x, y) {
			got2 |= 1 << uint(i)
		}
	}
	assert.Equal(t, rformatBits(R9x59, H, false), got)
	assert.Equal(t, rformatBits(R9x59, H, true), got2)
}

// TestVersionInfo checks the version information block of a version
// 7 symbol against the published value 0x07c94.
func TestVersionInfo(t *testing.T) {
	assert.Equal(t, uint32(0x07c94), versionBits(7))
	c, err := Encode(7, L, Segment{"VERSION SEVEN", Alphanumeric})
	require.NoError(t, err)
	var got uint32
	for i := 0; i < 18; i++ {
		if c.Black(c.Width-11+i%3, i/3) {
			got |= 1 << uint(i)
		}
	}
	assert.Equal(t, versionBits(7), got)
	// transposed copy
	for i := 0; i < 18; i++ {
		assert.Equal(t, got>>uint(i)&1 != 0,
			c.Black(i/3, c.Width-11+i%3), "bit %d", i)
	}
}

func TestFormatBits(t *testing.T) {
	// published values
	assert.Equal(t, uint32(0x77c4), formatBits(L, 0))
	assert.Equal(t, uint32(0x5e7c), formatBits(M, 2))
	assert.Equal(t, uint32(0x5099), mformatBits(M2, L, 1))
}

func TestErrors(t *testing.T) {
	_, err := NewEncoder(0, L)
	assert.ErrorIs(t, err, ErrVersion)
	_, err = NewEncoder(MaxRMQR+1, L)
	assert.ErrorIs(t, err, ErrVersion)
	_, err = NewEncoder(M1, M) // M1 permits no error correction choice
	assert.ErrorIs(t, err, ErrLevel)
	_, err = NewEncoder(R7x43, L) // rMQR permits only M and H
	assert.ErrorIs(t, err, ErrLevel)
	_, err = NewEncoder(R7x43, Q)
	assert.ErrorIs(t, err, ErrLevel)
	_, err = NewEncoder(M2, Q)
	assert.ErrorIs(t, err, ErrLevel)

	// non-numeric text in an explicit numeric segment
	_, err = Encode(1, L, Segment{"A", Numeric})
	var se SegmentError
	assert.ErrorAs(t, err, &se)

	// byte mode does not exist in M2
	_, err = Encode(M2, L, Segment{"ab", Byte})
	var ce CompatError
	assert.ErrorAs(t, err, &ce)

	// overlong data for the version
	_, err = Encode(1, H, Segment{strings.Repeat("9", 100), Numeric})
	assert.ErrorIs(t, err, ErrTooLong)
}

// TestRMQRTables checks the internal consistency of the rMQR
// parameter tables: block structures partition the data codewords
// and the capacity identity holds for both levels.
func TestRMQRTables(t *testing.T) {
	for v := R7x43; v <= MaxRMQR; v++ {
		rt := &rtab[v-R7x43]
		avail := 0
		c := NewCanvas(v, M)
		for _, m := range c.m {
			if !m.IsFunc() {
				avail++
			}
		}
		assert.Equal(t, rt.bytes*8+rt.remainder, avail, "%v", v)
		for _, l := range []Level{M, H} {
			lev := v.blockInfo(l)
			data := v.dataBytes(l)
			assert.Greater(t, data, 0, "%v-%v", v, l)
			assert.Equal(t, rt.bytes, data+lev.nblock*lev.check,
				"%v-%v", v, l)
			// every block holds at least one data codeword
			db := data / lev.nblock
			assert.GreaterOrEqual(t, db, 1, "%v-%v", v, l)
		}
	}
}

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "1", Version(1).String())
	assert.Equal(t, "40", Version(40).String())
	assert.Equal(t, "M1", M1.String())
	assert.Equal(t, "M4", M4.String())
	assert.Equal(t, "R7x43", R7x43.String())
	assert.Equal(t, "R17x139", R17x139.String())
	assert.Equal(t, "R11x27", R11x27.String())
}

func TestSizes(t *testing.T) {
	w, h := Version(1).Size()
	assert.Equal(t, [2]int{21, 21}, [2]int{w, h})
	w, h = Version(40).Size()
	assert.Equal(t, [2]int{177, 177}, [2]int{w, h})
	w, h = M2.Size()
	assert.Equal(t, [2]int{13, 13}, [2]int{w, h})
	w, h = R7x43.Size()
	assert.Equal(t, [2]int{43, 7}, [2]int{w, h})
	w, h = R17x139.Size()
	assert.Equal(t, [2]int{139, 17}, [2]int{w, h})
}

func TestIsKanji(t *testing.T) {
	assert.True(t, IsKanji('漢'))
	assert.True(t, IsKanji('字'))
	assert.False(t, IsKanji('A'))
	assert.False(t, IsKanji('Ω'+0x10000))
}

func TestKanjiSegment(t *testing.T) {
	b := NewBits(1, M)
	require.NoError(t, Segment{"漢字", Kanji}.Encode(b, Class0))
	// mode indicator 4 bits, count 8 bits, two 13 bit characters
	assert.Equal(t, 4+8+26, b.Bits())
}

func TestLatin1Segment(t *testing.T) {
	b := NewBits(1, M)
	require.NoError(t, Segment{"Grüß", Latin1}.Encode(b, Class0))
	// transformed to 4 Latin-1 bytes
	assert.Equal(t, 4+8+32, b.Bits())
}

func TestDataBits(t *testing.T) {
	assert.Equal(t, 128, Version(1).DataBits(L))
	assert.Equal(t, 104, Version(1).DataBits(M))
	assert.Equal(t, 20, M1.DataBits(L))
	assert.Equal(t, 40, M2.DataBits(L))
	assert.Equal(t, 84, M3.DataBits(L))
	assert.Equal(t, 23648, Version(40).DataBits(L))
}
