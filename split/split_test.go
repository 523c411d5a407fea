// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package split

import (
	"strings"
	"testing"

	"github.com/enc2d/qr/coding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tile checks that the segments tile the input exactly.
func tile(t *testing.T, text string, segs []coding.Segment) {
	t.Helper()
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	assert.Equal(t, text, b.String())
}

func TestSplitAlphanumeric(t *testing.T) {
	segs, ver, err := Split(String{Text: "HELLO WORLD"}, Q, QR)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(1), ver)
	require.Len(t, segs, 1)
	assert.Equal(t, Alphanumeric, segs[0].Mode)
	tile(t, "HELLO WORLD", segs)
}

func TestSplitNumeric(t *testing.T) {
	segs, ver, err := Split(String{Text: "01234567"}, M, QR)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(1), ver)
	require.Len(t, segs, 1)
	assert.Equal(t, Numeric, segs[0].Mode)
}

func TestSplitMixed(t *testing.T) {
	const text = "https://example.com/?id=00000000000000000000"
	segs, _, err := Split(String{Text: text}, L, QR)
	require.NoError(t, err)
	tile(t, text, segs)
	// the long digit run must be carved out as a numeric segment
	assert.Greater(t, len(segs), 1)
	last := segs[len(segs)-1]
	assert.Equal(t, Numeric, last.Mode)
	assert.Equal(t, strings.Repeat("0", 20), last.Text)
}

// TestSplitOptimal checks that short mode changes are merged: a few
// digits inside text are cheaper inline in byte mode than as a
// separate segment.
func TestSplitOptimal(t *testing.T) {
	const text = "ab12cd"
	segs, _, err := Split(String{Text: text}, L, QR)
	require.NoError(t, err)
	tile(t, text, segs)
	assert.Len(t, segs, 1)
	assert.Equal(t, Byte, segs[0].Mode)
}

func TestSplitEmpty(t *testing.T) {
	segs, ver, err := Split(String{}, L, QR)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(1), ver)
	assert.Empty(t, segs)
}

func TestVersionBoundary(t *testing.T) {
	// 2953 bytes is the byte mode capacity of version 40-L
	big := Segment{Text: strings.Repeat("\x00", 2953), Mode: Byte}
	_, ver, err := Split(big, L, QR)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(40), ver)

	big.Text += "\x00"
	_, _, err = Split(big, L, QR)
	assert.ErrorIs(t, err, ErrLongText)
}

func TestMicroSelect(t *testing.T) {
	_, ver, err := Split(String{Text: "123"}, L, Micro)
	require.NoError(t, err)
	assert.Equal(t, coding.M1, ver)

	_, ver, err = Split(String{Text: "01234567"}, L, Micro)
	require.NoError(t, err)
	assert.Equal(t, coding.M2, ver)

	// alphanumeric text cannot go into M1
	_, ver, err = Split(String{Text: "AB"}, L, Micro)
	require.NoError(t, err)
	assert.Equal(t, coding.M2, ver)

	// byte mode needs at least M3
	_, ver, err = Split(Segment{Text: "ab", Mode: Byte}, L, Micro)
	require.NoError(t, err)
	assert.Equal(t, coding.M3, ver)
}

func TestEitherFallsBack(t *testing.T) {
	_, ver, err := Split(String{Text: "12345"}, L, Either)
	require.NoError(t, err)
	assert.Equal(t, coding.M1, ver)

	long := strings.Repeat("A", 100)
	_, ver, err = Split(String{Text: long}, L, Either)
	require.NoError(t, err)
	assert.False(t, ver.IsMicro())
}

func TestRMQRSelect(t *testing.T) {
	_, ver, err := Split(String{Text: "12345"}, M, RMQR)
	require.NoError(t, err)
	assert.True(t, ver.IsRMQR())
	assert.Equal(t, coding.R7x43, ver)

	// rMQR permits only levels M and H
	_, _, err = Split(String{Text: "12345"}, L, RMQR)
	assert.ErrorIs(t, err, coding.ErrLevel)
}

func TestRMQRMonotonic(t *testing.T) {
	// growing payloads select versions with non-decreasing capacity
	prev := 0
	for n := 4; n < 300; n += 32 {
		_, ver, err := Split(String{Text: strings.Repeat("7", n)}, M, RMQR)
		require.NoError(t, err)
		cap := ver.DataBytes(M)
		assert.GreaterOrEqual(t, cap, prev, "n=%d", n)
		prev = cap
	}
}

func TestNotEncodable(t *testing.T) {
	cs := NewCharset(ModeList{Numeric, Disabled, Disabled, Disabled}, 1)
	_, _, err := Split(String{Text: "A", Charset: cs}, L, QR)
	assert.ErrorIs(t, err, ErrNotEncodable)
}

func TestSplitVersion(t *testing.T) {
	segs, bits, err := SplitVersion(String{Text: "HELLO WORLD"}, 1)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	// 4 bit indicator, 9 bit count, 61 payload bits
	assert.Equal(t, 74, bits)

	_, _, err = SplitVersion(String{Text: "1"}, coding.MaxRMQR+1)
	assert.ErrorIs(t, err, coding.ErrVersion)
}

func TestKanjiSplit(t *testing.T) {
	const text = "漢字123456"
	segs, _, err := Split(String{Text: text}, L, QR)
	require.NoError(t, err)
	tile(t, text, segs)
	assert.Equal(t, Kanji, segs[0].Mode)
}

func TestBadLevel(t *testing.T) {
	_, _, err := Split(String{Text: "1"}, coding.Level(9), QR)
	assert.ErrorIs(t, err, coding.ErrLevel)
}

func TestECISegments(t *testing.T) {
	d, err := SetECI(26)
	require.NoError(t, err)
	seg, ok := d.(Segment)
	require.True(t, ok)
	assert.Equal(t, ECI, seg.Mode)
	assert.Equal(t, "\x1a", seg.Text)

	_, err = SetECI(1 << 21)
	assert.ErrorIs(t, err, ErrECI)

	assert.Equal(t, Null{}, ShouldSetECI(0))
}
