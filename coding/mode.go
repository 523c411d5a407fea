// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"math/bits"
	"strconv"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// Predefined encoding modes.
const (
	Numeric       Mode = iota // numeric mode, ASCII-compatible text
	Alphanumeric              // alphanumeric mode, ASCII-compatible text
	Byte                      // byte mode, any data
	Kanji                     // kanji mode, UTF-8 text
	Latin1                    // byte mode, UTF-8 text encoded as ISO 8859-1
	ShiftJISKanji             // kanji mode, Shift JIS text
	ECI                       // eci mode, raw segment
)

// A Mode is a QR segment encoder.
type Mode int16

// ModeEncoder implements a QR segment encoding.
//
// The segment is validated using either Valid or CutRune and Accepts.
// Text mode encoders other than Numeric, Alphanumeric, Byte and
// ShiftJISKanji must have a Transform function returning a segment of
// one of those modes.  If set, it is called by Segment.Transform
// after validation.  The encoder calls Segment.Transform and
// validates the returned segment before encoding.
//
// Package split uses Indicator to determine valid Micro QR and rMQR
// versions, and CutRune, Accepts, EncodedLength and CountLength to
// split text into segments.
//
// Name, Indicator and CountLength must be set.
type ModeEncoder struct {
	Name      string // Name for error reporting
	Indicator byte   // 4 bit mode indicator for QR codes

	// CountLength lists lengths of the character count field in four
	// Micro QR and three QR version size classes.  rMQR count
	// lengths are per-version and only defined for the four
	// standard modes.
	CountLength [7]byte

	// EncodedLength returns the encoded data length in bits of a valid
	// string of the given length in bytes and runes.
	EncodedLength func(bytes, runes int) int

	// Valid reports whether the string is valid for the encoding mode.
	// It is called by Segment.IsValid and by the encoder.  If nil, the
	// string is validated using CutRune and Accepts.
	Valid func(string) bool

	// CutRune returns the first rune in the string and its width in
	// bytes.  If nil, utf8.DecodeRuneInString is used.  It should be
	// set if and only if the Mode requires non-UTF-8 rune decoding.
	CutRune func(string) (rune, int)

	// Accepts reports whether the encoding mode accepts the rune.
	// If nil, any rune is accepted.  It is called by Is.
	Accepts func(rune) bool

	// Transform returns a segment of another Mode with the string
	// transformed for encoding and a boolean indicating whether the
	// transform was successful.  The target Mode must have Transform
	// unset.  If nil, the original segment is used.  It is called by
	// Segment.Transform and by the encoder.
	Transform func(string) (Segment, bool)

	// Count returns the character count of the transformed string.
	// If nil, the length of the string in bytes is used.
	Count func(string) int

	// Encode3, Encode2 and Encode1 return the encoding of the bytes
	// and its length in bits.  The encoder calls a non-nil Encode{N}
	// repeatedly as long as N source bytes are available, in
	// descending order of N.  If all are nil, each byte is encoded as
	// 8 bits.  The encoder panics if not all bytes are consumed.
	Encode3 func([3]byte) (uint32, int)
	Encode2 func([2]byte) (uint32, int)
	Encode1 func(byte) (uint32, int)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

// Shift JIS / Shift JISx0213 table for ShiftJISKanji CutRune.
// Bit fields:
//
//	1 = valid 1st byte of multibyte character  0x81-0x9f, 0xe0-0xfc
//	2 = valid 2nd byte of multibyte character  0x40-0x7e, 0x80-0xfc
var sjistbl = [256]byte{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0x00
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0x10
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0x20
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0x30
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, // 0x40
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, // 0x50
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, // 0x60
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 0, // 0x70
	2, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, // 0x80
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, // 0x90
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, // 0xa0
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, // 0xb0
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, // 0xc0
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, // 0xd0
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, // 0xe0
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 0, 0, 0, // 0xf0
}

func nothing(rune) bool { return false }

// jisqr is a bit field of Unicode code points in the Basic
// Multilingual Plane belonging to the QR Kanji subset of JIS X 0208,
// built on first use by encoding every plane character to Shift JIS
// and testing the byte ranges defined by the symbology.
var (
	jisqr     [2048]uint32
	jisqrOnce sync.Once
)

// qrKanjiBytes reports whether the Shift JIS character hi lo is
// encodable in QR kanji mode: the ranges 0x8140-0x9ffc and
// 0xe040-0xebbf with valid trailer bytes.
func qrKanjiBytes(hi, lo byte) bool {
	if lo < 0x40 || lo > 0xfc || lo == 0x7f {
		return false
	}
	return hi >= 0x81 && hi <= 0x9f || hi >= 0xe0 && (hi < 0xeb || hi == 0xeb && lo <= 0xbf)
}

func buildJISQR() {
	enc := japanese.ShiftJIS.NewEncoder()
	for r := rune(0x100); r < 0x10000; r++ {
		if r >= 0xd800 && r < 0xe000 {
			continue
		}
		s, err := enc.String(string(r))
		if err != nil || len(s) != 2 {
			continue
		}
		if qrKanjiBytes(s[0], s[1]) {
			jisqr[r>>5] |= 1 << (r & 0x1f)
		}
	}
}

// IsKanji reports whether the Unicode rune r belongs to the QR Kanji
// subset of JIS X 0208.
func IsKanji(r rune) bool {
	jisqrOnce.Do(buildJISQR)
	x := uint32(r) >> 5
	return int(x) < len(jisqr) && jisqr[x]>>(r&0x1f)&1 != 0
}

var _stdmodes = []ModeEncoder{
	Numeric: {
		Name:          "numeric",
		Indicator:     1,
		CountLength:   [7]byte{3, 4, 5, 6, 10, 12, 14},
		EncodedLength: func(b, r int) int { return (10*b + 2) / 3 },
		Accepts:       func(r rune) bool { return uint32(r-'0') < 10 },
		Encode1: func(b byte) (uint32, int) {
			return uint32(b), 4
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0])*10 + uint32(b[1]) - '0'*11&0x7f, 7
		},
		Encode3: func(b [3]byte) (uint32, int) {
			return uint32(b[0])*100 + uint32(b[1])*10 +
				uint32(b[2]) + -'0'*111&0x3ff, 10
		},
	},
	Alphanumeric: {
		Name:          "alphanumeric",
		Indicator:     2,
		CountLength:   [7]byte{0, 3, 4, 5, 9, 11, 13},
		EncodedLength: func(b, r int) int { return (11*b + 1) / 2 },
		Accepts: func(r rune) bool {
			return alphamask>>(uint32(r)-' ')&1 != 0
		},
		Encode1: func(b byte) (uint32, int) {
			return uint32(alpha[b&0x3f]), 6
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(alpha[b[0]&0x3f])*45 +
				uint32(alpha[b[1]&0x3f]), 11
		},
	},
	Byte: {
		Name:        "byte",
		Indicator:   4,
		CountLength: [7]byte{0, 0, 4, 5, 8, 16, 16},
	},
	Kanji: {
		Name:          "kanji",
		Indicator:     8,
		CountLength:   [7]byte{0, 0, 3, 4, 8, 10, 12},
		EncodedLength: func(b, r int) int { return r * 13 },
		Accepts:       IsKanji,
		Transform: func(s string) (Segment, bool) {
			t, err := japanese.ShiftJIS.NewEncoder().String(s)
			return Segment{t, ShiftJISKanji}, err == nil
		},
	},
	Latin1: {
		Name:          "latin-1",
		Indicator:     4,
		CountLength:   [7]byte{0, 0, 4, 5, 8, 16, 16},
		EncodedLength: func(b, r int) int { return r * 8 },
		Accepts:       func(r rune) bool { return uint32(r) < 0x100 },
		Transform: func(s string) (Segment, bool) {
			t, err := charmap.ISO8859_1.NewEncoder().String(s)
			return Segment{t, Byte}, err == nil
		},
	},
	ShiftJISKanji: {
		Name:          "shift-jis-kanji",
		Indicator:     8,
		CountLength:   [7]byte{0, 0, 3, 4, 8, 10, 12},
		EncodedLength: func(b, r int) int { return b >> 1 * 13 },
		Count:         func(s string) int { return len(s) >> 1 },
		CutRune: func(s string) (rune, int) {
			r, sz := rune(s[0]), 1
			if sjistbl[s[0]]&1 != 0 && len(s) > 1 &&
				sjistbl[s[1]]&2 != 0 {
				r, sz = r<<8|rune(s[1]), 2
			}
			return r, sz
		},
		Accepts: func(r rune) bool {
			const maxk = 0x1fff/0xc0<<8 | 0x1fff%0xc0 + 0xc140
			return uint32(r^0x8000) < maxk-0x8000+1
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0]&^0xc0)*0xc0 + uint32(b[1]) - 0x100,
				13
		},
	},
	ECI: {
		Name:      "eci",
		Indicator: 7,
		Accepts:   nothing,
		Valid: func(s string) bool {
			ok := s != "" && len(s) == max(1, int(s[0]>>6))
			if ok && len(s) == 3 {
				ok = uint32(s[0]&^0xc0)<<16+uint32(s[1])<<8+
					uint32(s[2]) < 1e6
			}
			return ok
		},
	},
}

var (
	modep    atomic.Pointer[[]ModeEncoder] // modes
	modeLock sync.Mutex                    // write lock
)

func init() { modep.Store(&_stdmodes) }

func getMode(mode Mode) *ModeEncoder {
	if modes := *modep.Load(); mode >= 0 && int(mode) < len(modes) {
		return &modes[mode]
	}
	return nil
}

func (mode Mode) String() string {
	if m := getMode(mode); m != nil {
		return m.Name
	}
	return strconv.Itoa(int(mode))
}

// GetMode returns a copy of ModeEncoder for the mode.  It can be used
// to base the implementation of a new mode on an existing one.
func GetMode(mode Mode) *ModeEncoder {
	if m := getMode(mode); m != nil {
		mm := *m
		return &mm
	}
	return nil
}

// AddMode registers an encoding mode, returning its number on success
// or -1 on failure.  The number of modes is limited to 32768.
func AddMode(m *ModeEncoder) Mode {
	var mode Mode = -1
	modeLock.Lock()
	if modes := *modep.Load(); len(modes) < 0x8000 {
		mode = Mode(len(modes))
		modes = append(modes, *m)
		modep.Store(&modes)
	}
	modeLock.Unlock()
	return mode
}

// MinClass returns the lowest valid version size class for mode.
// rMQR classes accept the same modes as ClassM4.
func (mode Mode) MinClass() int {
	if m := getMode(mode); m != nil {
		if ind := m.Indicator; ind&(ind-1) == 0 {
			return int(min(ind-1, ClassM3))
		}
	}
	return Class0
}

type (
	CutRuneFunc func(string) (rune, int) // Used in ModeEncoder.
	AcceptsFunc func(rune) bool          // Used in ModeEncoder.
)

// RuneFilter returns CutRune and Accepts functions for mode.
// If mode is invalid, RuneFilter returns nil and a function rejecting
// any rune.
func (mode Mode) RuneFilter() (CutRuneFunc, AcceptsFunc) {
	if m := getMode(mode); m != nil {
		return m.CutRune, m.Accepts
	}
	return nil, nothing
}

// countLength returns the character count field width for the mode in
// the given size class, and whether the mode exists in the class.
func (m *ModeEncoder) countLength(class int) (int, bool) {
	if class < ClassR {
		return int(m.CountLength[class]), true
	}
	if ind := m.Indicator; ind != 0 && ind&(ind-1) == 0 {
		return int(rtab[class-ClassR].cci[bits.TrailingZeros8(ind)]), true
	}
	return 0, false
}

// headerLength returns the mode indicator width for the size class.
func headerLength(class int) int {
	switch {
	case class < Class0:
		return class
	case class < ClassR:
		return 4
	}
	return 3
}

// length returns the length in bits of a valid string of the given
// length in bytes and runes encoded in mode at the given QR version
// size class, including the header.
func (m *ModeEncoder) length(bytes, runes, class int) int {
	cl, ok := m.countLength(class)
	if !ok {
		return 0
	}
	n := headerLength(class) + cl
	if f := m.EncodedLength; f != nil {
		n += f(bytes, runes)
	} else {
		n += bytes * 8
	}
	return n
}

// Length returns the length in bits of a valid string of the given
// length in bytes and runes encoded in mode at the given QR version
// size class, including the header.  Length returns 0 if mode is
// invalid, or if it has no count field in an rMQR size class.  Modes
// missing from Micro QR classes are not reported; see MinClass.
func (mode Mode) Length(bytes, runes int, class int) int {
	n := 0
	if m := getMode(mode); m != nil {
		n = m.length(bytes, runes, class)
	}
	return n
}

// Is reports whether r is encodable in mode.
func Is(r rune, mode Mode) bool {
	m := getMode(mode)
	return m != nil && (m.Accepts == nil || m.Accepts(r))
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// SegmentError represents an invalid Segment.
type SegmentError Segment

func (e SegmentError) Error() string {
	if m := getMode(e.Mode); m != nil {
		return fmt.Sprintf("qr: non-%s string %#q", m.Name, e.Text)
	}
	return fmt.Sprintf("qr: invalid mode %d", e.Mode)
}

// ModeError represents an invalid Mode number or ModeEncoder.
type ModeError Mode

func (e ModeError) Error() string {
	return fmt.Sprintf("qr: invalid mode %s", Mode(e))
}

// CompatError represents an incompatibility between Mode and Version.
type CompatError struct {
	Mode
	Version
}

func (e CompatError) Error() string {
	return fmt.Sprintf("qr: mode %s not encodable in version %s",
		e.Mode, e.Version)
}

// isValid reports whether seg is encodable.
func (m *ModeEncoder) isValid(seg Segment) bool {
	if f := m.Valid; f != nil {
		return f(seg.Text)
	} else if is := m.Accepts; is != nil {
		if seg.Mode < 2 {
			for i := 0; i < len(seg.Text); i++ {
				if !is(rune(seg.Text[i])) {
					return false
				}
			}
		} else if cut := m.CutRune; cut != nil {
			for s := seg.Text; s != ""; {
				r, sz := cut(s)
				s = s[sz:]
				if !is(r) {
					return false
				}
			}
		} else {
			for _, r := range seg.Text {
				if !is(r) {
					return false
				}
			}
		}
	}
	return true
}

// IsValid reports whether seg is encodable.
func (seg Segment) IsValid() bool {
	if m := getMode(seg.Mode); m != nil {
		return m.isValid(seg)
	}
	return false
}

// EncodedLength returns the encoded length in bits of seg in the
// given QR version size class.  EncodedLength returns 0 if the mode
// is invalid, or if it has no count field in an rMQR size class.
// Modes missing from Micro QR classes are not reported; see
// Mode.MinClass.  The segment is not validated.
func (seg Segment) EncodedLength(class int) int {
	var rlen int
	m := getMode(seg.Mode)
	if m == nil {
		return 0
	} else if el := m.EncodedLength; el == nil || el(0, 0x100) == 0 {
	} else if cut := m.CutRune; cut != nil {
		for s := seg.Text; s != ""; rlen++ {
			_, sz := cut(s)
			s = s[sz:]
		}
	} else {
		rlen = utf8.RuneCountInString(seg.Text)
	}
	return m.length(len(seg.Text), rlen, class)
}

// transform transforms seg for encoding.  The transformed segment is
// not validated.  The encoder calls transform prior to encoding.
func (seg Segment) transform() (Segment, *ModeEncoder, error) {
	if m := getMode(seg.Mode); m == nil {
		return Segment{}, nil, ModeError(seg.Mode)
	} else if m.Transform == nil {
		return seg, m, nil
	} else if !m.isValid(seg) {
		return Segment{}, nil, SegmentError(seg)
	} else if ts, ok := m.Transform(seg.Text); !ok {
		return Segment{}, nil, SegmentError(seg)
	} else if m = getMode(ts.Mode); m == nil || m.Transform != nil {
		return Segment{}, nil, ModeError(seg.Mode)
	} else {
		return ts, m, nil
	}
}

// Transform transforms seg for encoding.  The transformed segment is
// not validated.  The encoder calls Transform prior to encoding.
func (seg Segment) Transform() (Segment, error) {
	if seg.Mode < Kanji || seg.Mode == ShiftJISKanji {
		return seg, nil
	}
	seg, _, err := seg.transform()
	return seg, err
}

// Encode writes seg encoded for the given QR version size class to b.
func (seg Segment) Encode(b *Bits, class int) error {
	// transform the string
	ts, m, err := seg.transform()
	if err != nil {
		return err
	} else if !m.isValid(ts) {
		return SegmentError(seg)
	}
	// write header
	s := ts.Text
	ind := uint32(m.Indicator)
	ilen := headerLength(class)
	switch {
	case class < Class0:
		ii := ind>>1 - ind>>3
		if ind&(ind-1) != 0 || ii >= 1<<ilen {
			return CompatError{seg.Mode, Version(class) + M1}
		}
		ind = ii
	case class >= ClassR:
		if ind&(ind-1) != 0 {
			return CompatError{seg.Mode, Version(class-ClassR) + R7x43}
		}
		ind = uint32(bits.TrailingZeros32(ind)) + 1
	}
	b.Write(ind, ilen)
	w := len(s)
	if m.Count != nil {
		w = m.Count(s)
	}
	cl, ok := m.countLength(class)
	if !ok {
		return CompatError{seg.Mode, Version(class-ClassR) + R7x43}
	}
	b.Write(uint32(w), cl)
	// encode the string
	enc3, enc2, enc1 := m.Encode3, m.Encode2, m.Encode1
	if enc3 != nil || enc2 != nil || enc1 != nil {
		if enc3 != nil {
			for len(s) >= 3 {
				b.Write(enc3([3]byte{s[0], s[1], s[2]}))
				s = s[3:]
			}
		}
		if enc2 != nil {
			for len(s) >= 2 {
				b.Write(enc2([2]byte{s[0], s[1]}))
				s = s[2:]
			}
		}
		if enc1 != nil {
			for len(s) >= 1 {
				b.Write(enc1(s[0]))
				s = s[1:]
			}
		} else if s != "" {
			panic("qr: " + m.Name + " mode internal error")
		}
	} else if b.nbit&7 != 0 {
		for ; len(s) >= 4; s = s[4:] {
			v := uint32(s[0])<<24 | uint32(s[1])<<16 |
				uint32(s[2])<<8 | uint32(s[3])
			b.Write(v, 32)
		}
		if s != "" {
			var v uint32
			for i := 0; i < len(s); i++ {
				v = v<<8 | uint32(s[i])
			}
			b.Write(v, 8*len(s))
			s = ""
		}
	} else {
		b.b = append(b.b, s...)
		b.nbit += len(s) * 8
	}
	return nil
}
