// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf256

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var f = NewField(0x11d, 2)

func TestTables(t *testing.T) {
	assert.Equal(t, byte(1), f.Exp(0))
	assert.Equal(t, byte(2), f.Exp(1))
	assert.Equal(t, f.Exp(0), f.Exp(255))
	for i := 1; i < 256; i++ {
		x := byte(i)
		assert.Equal(t, x, f.Exp(f.Log(x)), "exp(log(%#02x))", x)
	}
	assert.Equal(t, -1, f.Log(0))
}

func TestMul(t *testing.T) {
	for _, x := range []byte{0, 1, 2, 0x53, 0xca, 0xff} {
		for _, y := range []byte{0, 1, 2, 0x47, 0x8e, 0xff} {
			got := f.Mul(x, y)
			if x == 0 || y == 0 {
				assert.Equal(t, byte(0), got)
				continue
			}
			want := f.Exp(f.Log(x) + f.Log(y))
			assert.Equal(t, want, got, "%#02x * %#02x", x, y)
		}
	}
}

// TestGenPoly checks the memoized generator polynomial of degree 10
// against the published table: the log form of
// x¹⁰ + 216x⁹ + 194x⁸ + 159x⁷ + 111x⁶ + 199x⁵ + 94x⁴ + 95x³ +
// 113x² + 157x + 193.
func TestGenPoly(t *testing.T) {
	want := []byte{216, 194, 159, 111, 199, 94, 95, 113, 157, 193}
	lg := f.gen(10)
	require.Len(t, lg, 10)
	for i, c := range want {
		assert.Equal(t, c, f.Exp(int(lg[i])), "coefficient %d", i)
	}
}

// TestECC checks the error correction bytes of the ISO Annex I
// example: the V1-M data codewords for "01234567".
func TestECC(t *testing.T) {
	data := []byte{
		0x10, 0x20, 0x0c, 0x56, 0x61, 0x80, 0xec, 0x11,
		0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11,
	}
	want := []byte{0xa5, 0x24, 0xd4, 0xc1, 0xed, 0x36, 0xc7, 0x87, 0x2c, 0x55}
	check := make([]byte, 10)
	NewRSEncoder(f, 10).ECC(data, check)
	assert.Equal(t, want, check)
}

func TestGenPolyDegree7(t *testing.T) {
	// degree 7 generator from the published table
	want := []byte{127, 122, 154, 164, 11, 68, 117}
	lg := f.gen(7)
	require.Len(t, lg, 7)
	for i, c := range want {
		assert.Equal(t, c, f.Exp(int(lg[i])), "coefficient %d", i)
	}
}

func TestZeroCheckBytes(t *testing.T) {
	rs := NewRSEncoder(f, 4)
	check := make([]byte, 4)
	rs.ECC(nil, check)
	assert.Equal(t, []byte{0, 0, 0, 0}, check)
}
