// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR, Micro QR and rMQR coding
// details.
package coding // import "github.com/enc2d/qr/coding"

import (
	"errors"
	"strconv"

	"github.com/enc2d/qr/gf256"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")
	ErrTooLong = errors.New("qr: data too long")
)

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents a QR, Micro QR or rMQR version.
// The version specifies the size of the symbol:
// a QR code with version v has 4v+17 modules on a side,
// a Micro QR code with version Mv 2v+9 modules,
// and an rMQR code has the height and width of its version.
// Versions run in three sequences: from 1 to 40, from M1 to M4,
// and through the 32 rMQR sizes from R7x43 to R17x139.
type Version int

// Code versions.
const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version

	// Micro QR versions
	M1 Version = MaxVersion + 1 + iota - 2
	M2
	M3
	M4

	// rMQR versions, grouped by height
	R7x43
	R7x59
	R7x77
	R7x99
	R7x139
	R9x43
	R9x59
	R9x77
	R9x99
	R9x139
	R11x27
	R11x43
	R11x59
	R11x77
	R11x99
	R11x139
	R13x27
	R13x43
	R13x59
	R13x77
	R13x99
	R13x139
	R15x43
	R15x59
	R15x77
	R15x99
	R15x139
	R17x43
	R17x59
	R17x77
	R17x99
	R17x139

	MaxRMQR = R17x139 // Maximum rMQR version
)

func (v Version) String() string {
	switch {
	case v >= R7x43 && v <= MaxRMQR:
		t := &rtab[v-R7x43]
		return "R" + strconv.Itoa(t.height) + "x" + strconv.Itoa(t.width)
	case v >= M1 && v <= M4:
		return []string{"M1", "M2", "M3", "M4"}[v-M1]
	}
	return strconv.Itoa(int(v))
}

// IsMicro reports whether v is a Micro QR version.
func (v Version) IsMicro() bool { return v >= M1 && v <= M4 }

// IsRMQR reports whether v is an rMQR version.
func (v Version) IsRMQR() bool { return v >= R7x43 && v <= MaxRMQR }

// Micro QR, QR and rMQR version size classes.  The class determines
// the widths of the mode indicator and character count fields.  Each
// rMQR version forms its own class, as count widths vary per version.
const (
	ClassM1 = iota // Micro QR version M1
	ClassM2        // Micro QR version M2
	ClassM3        // Micro QR version M3
	ClassM4        // Micro QR version M4
	Class0         // QR versions 1 to 9
	Class1         // QR versions 10 to 26
	Class2         // QR versions 27 to 40
	ClassR         // rMQR version R7x43; R7x59 is ClassR+1, and so on
)

// SizeClass returns the size class of v, as documented under ClassM1.
func (v Version) SizeClass() int {
	switch {
	case v <= 9:
		return Class0
	case v <= 26:
		return Class1
	case v <= 40:
		return Class2
	case v <= M4:
		return ClassM1 + int(v-M1)
	}
	return ClassR + int(v-R7x43)
}

// Size returns the width and height of the symbol in modules.
func (v Version) Size() (w, h int) {
	switch {
	case v.IsRMQR():
		t := &rtab[v-R7x43]
		return t.width, t.height
	case v.IsMicro():
		n := int(v-M1)*2 + 11
		return n, n
	}
	n := int(v)*4 + 17
	return n, n
}

// blockInfo returns the error correction block structure for the
// given version and level: the number of blocks and the number of
// check bytes per block.
func (v Version) blockInfo(l Level) level {
	if v.IsRMQR() {
		return rtab[v-R7x43].level[rlevel(l)]
	}
	return vtab[v].level[l]
}

// totalBytes returns the number of data and check codewords of the
// symbol.  For M1 and M3 the final data codeword is 4 bits wide and
// counts as one.
func (v Version) totalBytes() int {
	if v.IsRMQR() {
		return rtab[v-R7x43].bytes
	}
	return vtab[v].bytes
}

// dataBytes returns the number of data codewords that can be stored
// in a symbol with the given version and level.
func (v Version) dataBytes(l Level) int {
	lev := v.blockInfo(l)
	return v.totalBytes() - lev.nblock*lev.check
}

// DataBytes returns the number of data codewords that can be stored
// in a symbol with the given version and level.
func (v Version) DataBytes(l Level) int { return v.dataBytes(l) }

// DataBits returns the number of data bits that can be stored in a
// symbol with the given version and level.  Micro QR versions M1 and
// M3 lose four bits to the narrow final codeword.
func (v Version) DataBits(l Level) int {
	n := v.dataBytes(l) * 8
	if v.IsMicro() && n != 0 {
		n -= int(v) & 1 << 2
	}
	return n
}

// remainderBits returns the number of zero filler bits following the
// final codeword in the symbol.
func (v Version) remainderBits() int {
	if v.IsRMQR() {
		return rtab[v-R7x43].remainder
	}
	return vtab[v].remainder
}

// terminator returns the terminator length in bits for the version.
func (v Version) terminator() int {
	switch {
	case v.IsRMQR():
		return 3
	case v.IsMicro():
		return int(v-M1)*2 + 3
	}
	return 4
}

// Valid reports whether the version and level combination is
// permitted: Micro QR versions allow level subsets (M1 none, M2 and
// M3 L and M, M4 L, M and Q), rMQR allows M and H.
func (v Version) Valid(l Level) bool {
	switch {
	case v.IsRMQR():
		return l == M || l == H
	case v >= MinVersion && v <= M4:
		return l >= L && l <= H && v.dataBytes(l) > 0
	}
	return false
}

// rlevel maps a Level to an index into rMQR level tables.
func rlevel(l Level) int {
	if l == H {
		return 1
	}
	return 0
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
// rMQR symbols permit only M and H.
type Level int

const (
	L Level = iota
	M
	Q
	H
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}
