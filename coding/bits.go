// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/enc2d/qr/gf256"

// Bits is an append-only bit buffer.  Bits are packed into bytes
// MSB-first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a symbol of the
// given version and level.
func NewBits(v Version, l Level) *Bits {
	n := v.totalBytes()
	if v.blockInfo(l).nblock > 1 {
		n <<= 1
	}
	return &Bits{b: make([]byte, 0, n)}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the length of b in bits.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the contents of b, which must be a whole number of
// bytes long.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

func (b *Bits) growTo(n int) {
	for cap(b.b) < n {
		b.b = append(b.b[:cap(b.b)], 0)[:len(b.b)]
	}
}

func (b *Bits) Grow(n int) { b.growTo(len(b.b) + n) }

// Add adds n bytes to b and returns the added slice.
func (b *Bits) Add(n int) []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	b.Grow(n)
	start := len(b.b)
	b.b = b.b[:start+n]
	b.nbit = 8 * len(b.b)
	return b.b[start:]
}

// Write appends the low nbit bits of v, most significant first.
func (b *Bits) Write(v uint32, nbit int) {
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// padTo adds up to t terminator bits to b, aligns to a codeword
// boundary with zero bits and fills the rest of the n data bits with
// alternating 0xec, 0x11 pad codewords.  A trailing 4 bit codeword
// (Micro QR M1 and M3) is left zero.
func (b *Bits) padTo(t, n int) {
	b.nbit = min(b.nbit+t, n)
	for len(b.b)*8 < b.nbit {
		b.b = append(b.b, 0)
	}
	if len(b.b) < (n+7)>>3 {
		buf := b.b[len(b.b) : n>>3]
		b.b = b.b[:(n+7)>>3]
		b.b[len(b.b)-1] = 0
		for len(buf) >= 2 {
			buf[0], buf[1] = 0xec, 0x11
			buf = buf[2:]
		}
		if len(buf) > 0 {
			buf[0] = 0xec
		}
	}
	b.nbit = len(b.b) * 8
}

// PadTo adds up to t terminator bits to b and pads it to n bits.
func (b *Bits) PadTo(t, n int) {
	b.growTo(n)
	b.padTo(t, n)
}

// AddCheckBytes adds terminator, padding and checksum to b for the
// given version and level.
func (b *Bits) AddCheckBytes(v Version, l Level) {
	nb := v.DataBits(l)
	if b.nbit > nb {
		panic("qr: too much data")
	}
	b.growTo(v.totalBytes())
	b.padTo(v.terminator(), nb)
	nd := (nb + 4) >> 3

	dat := b.b[:nd]
	lev := v.blockInfo(l)
	db := nd / lev.nblock
	normal := (db+1)*lev.nblock - nd
	rs := gf256.NewRSEncoder(Field, lev.check)
	for i := 0; i < lev.nblock; i++ {
		if i == normal {
			db++
		}
		rs.ECC(dat[:db], b.Add(lev.check))
		dat = dat[db:]
	}

	if len(b.b) != v.totalBytes() {
		panic("qr: internal error")
	}
	if nb&4 != 0 {
		// M1 and M3: squeeze the checksum against the 4 bit
		// final data codeword.
		chk := b.b[nb>>3:]
		for i := range chk[:len(chk)-1] {
			chk[i] |= chk[i+1] >> 4
			chk[i+1] <<= 4
		}
	}
}

// interleave interleaves nblock blocks from src to dst, which must be
// of equal length.
func interleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := dst[db*nblock:]
	dst = dst[:db*nblock]
	normal := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j, v := range src[:db] {
			dst[j*nblock+i] = v
		}
		src = src[db:]
		if i >= normal {
			extra[i-normal] = src[0]
			src = src[1:]
		}
	}
}

// Permute returns a BitStream reading data and checksum bits in b
// with blocks interleaved for the given version and level.
// The BitStream may use the same underlying buffer.
func (b *Bits) Permute(v Version, l Level) BitStream {
	src := b.b
	if len(src) != v.totalBytes() {
		panic("qr: wrong data length")
	}
	dst := src
	if nblock := v.blockInfo(l).nblock; nblock != 1 {
		if cap(src) < len(src)*2 {
			dst = make([]byte, len(src))
		} else {
			dst = src[len(src) : len(src)*2]
		}
		nd := v.dataBytes(l)
		interleave(dst[:nd], src[:nd], nblock)
		interleave(dst[nd:], src[nd:], nblock)
	}
	return BitStream{b: dst, n: b.nbit}
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	n   int
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b, n: len(b) * 8} }

// Bits returns the number of bits in s.
func (s *BitStream) Bits() int { return s.n }

// Bytes returns the data underlying s.
func (s *BitStream) Bytes() []byte { return s.b }

// Next returns the next bit from s as 0 or 1.
// Past the end of the buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if s.pos < s.n {
		b = s.b[s.pos>>3] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}
