// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf256 implements arithmetic over the Galois field GF(256)
// and the systematic Reed-Solomon encoding used by QR codes.
package gf256

import "sync"

// A Field represents an instance of GF(256) defined by a generator.
// The elements of the field are the bytes 0x00..0xff; addition is xor
// and multiplication runs through exp/log tables.
type Field struct {
	log [256]byte // log[0] is unused
	exp [510]byte
}

// NewField returns a new field corresponding to the given polynomial
// and generator.  The Reed-Solomon encoding in QR codes uses
// polynomial 0x11d (x⁸+x⁴+x³+x²+1) with generator 2.
func NewField(poly, α int) *Field {
	if poly < 0x100 || poly >= 0x200 || reducible(poly) {
		panic("gf256: invalid polynomial")
	}
	var f Field
	x := 1
	for i := 0; i < 255; i++ {
		if x == 1 && i != 0 {
			panic("gf256: invalid generator")
		}
		f.exp[i] = byte(x)
		f.exp[i+255] = byte(x)
		f.log[x] = byte(i)
		x = mul(x, α, poly)
	}
	f.log[0] = 255
	for i := 0; i < 255; i++ {
		if f.log[f.exp[i]] != byte(i) {
			panic("gf256: bad log")
		}
	}
	return &f
}

// reducible reports whether p is reducible.
func reducible(p int) bool {
	// Walk candidate divisors q of degree at least 1 and at most
	// half the degree of p.
	for q := 2; nbit(q)*2-2 <= nbit(p)-1; q++ {
		if polyDiv(p, q) == 0 {
			return true
		}
	}
	return false
}

// nbit returns the number of significant bits in p.
func nbit(p int) int {
	n := 0
	for ; p > 0; p >>= 1 {
		n++
	}
	return n
}

// polyDiv returns the remainder of the polynomial division p/q over GF(2).
func polyDiv(p, q int) int {
	np, nq := nbit(p), nbit(q)
	for ; np >= nq; np-- {
		if p&(1<<uint(np-1)) != 0 {
			p ^= q << uint(np-nq)
		}
	}
	return p
}

// mul returns the product x*y mod poly, a slow multiply used only
// while building the tables.
func mul(x, y, poly int) int {
	z := 0
	for x > 0 {
		if x&1 != 0 {
			z ^= y
		}
		x >>= 1
		y <<= 1
		if y&0x100 != 0 {
			y ^= poly
		}
	}
	return z
}

// Exp returns the base-α exponential of e in the field.
// If e < 0, Exp returns 0.
func (f *Field) Exp(e int) byte {
	if e < 0 {
		return 0
	}
	return f.exp[e%255]
}

// Log returns the base-α logarithm of x in the field.
// If x == 0, Log returns -1.
func (f *Field) Log(x byte) int {
	if x == 0 {
		return -1
	}
	return int(f.log[x])
}

// Mul returns the product x*y in the field.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[int(f.log[x])+int(f.log[y])]
}

// gcache memoizes the generator polynomials of one field, keyed by
// degree, in the log form returned by gen.
type gcache struct {
	sync.Mutex
	m map[int][]byte
}

var gens sync.Map // *Field -> *gcache

// gen returns the logs of the low e coefficients of the degree-e
// generator polynomial ∏ (x - αⁱ), 0 <= i < e.  The polynomial is
// monic; all its other coefficients are non-zero, so the log form is
// total.
func (f *Field) gen(e int) []byte {
	ci, _ := gens.LoadOrStore(f, &gcache{m: make(map[int][]byte)})
	c := ci.(*gcache)
	c.Lock()
	defer c.Unlock()
	if lg, ok := c.m[e]; ok {
		return lg
	}
	// Multiply (x - α⁰)(x - α¹)...; coefficients highest-degree first.
	p := make([]byte, 1, e+1)
	p[0] = 1
	for i := 0; i < e; i++ {
		a := f.Exp(i)
		q := make([]byte, len(p)+1)
		for j, v := range p {
			q[j] ^= v
			q[j+1] ^= f.Mul(v, a)
		}
		p = q
	}
	lg := make([]byte, e)
	for i := 0; i < e; i++ {
		if p[i+1] == 0 {
			panic("gf256: zero generator coefficient")
		}
		lg[i] = f.log[p[i+1]]
	}
	c.m[e] = lg
	return lg
}

// An RSEncoder implements Reed-Solomon encoding over a given field
// with a given number of error correction bytes.
type RSEncoder struct {
	f    *Field
	c    int
	lgen []byte
}

// NewRSEncoder returns a new Reed-Solomon encoder over the given
// field producing c error correction bytes.
func NewRSEncoder(f *Field, c int) *RSEncoder {
	return &RSEncoder{f: f, c: c, lgen: f.gen(c)}
}

// ECC writes to check the error correcting code for data: the
// remainder of data·xᶜ divided by the generator polynomial.
// len(check) must equal the encoder's check byte count.
func (rs *RSEncoder) ECC(data, check []byte) {
	if len(check) < rs.c {
		panic("gf256: invalid check byte length")
	}
	if rs.c == 0 {
		return
	}
	// Synthetic division: fold each data byte into the remainder.
	p := check[:rs.c]
	for i := range p {
		p[i] = 0
	}
	f, lgen := rs.f, rs.lgen
	for _, d := range data {
		fb := p[0] ^ d
		copy(p, p[1:])
		p[rs.c-1] = 0
		if fb == 0 {
			continue
		}
		lfb := int(f.log[fb])
		for j, lg := range lgen {
			p[j] ^= f.exp[lfb+int(lg)]
		}
	}
}
