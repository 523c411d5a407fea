// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"strings"
)

// EncodePNG writes a PNG image displaying the code to w.
func (c *Code) EncodePNG(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	return png.Encode(w, c.Image())
}

// utf8Blocks maps two vertically stacked modules to a half-block
// character.
var utf8Blocks = [4]string{" ", "▄", "▀", "█"}

// WriteUTF8 writes the code to w as text, two rows of modules per
// line using Unicode half-block characters.  The quiet zone is
// included.
func (c *Code) WriteUTF8(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	bord := c.Border
	for y := -bord; y < c.Height+bord; y += 2 {
		for x := -bord; x < c.Width+bord; x++ {
			n := 0
			if c.Black(x, y) != c.Reverse {
				n |= 2
			}
			if c.Black(x, y+1) != c.Reverse {
				n |= 1
			}
			if _, err := b.WriteString(utf8Blocks[n]); err != nil {
				return err
			}
		}
		if err := b.WriteByte('\n'); err != nil {
			return err
		}
	}
	return b.Flush()
}

// String returns the code as UTF-8 half-block art.
func (c *Code) String() string {
	var b strings.Builder
	c.WriteUTF8(&b)
	return b.String()
}

// EncodeSVG writes an SVG image displaying the code to w.  Each run
// of dark modules becomes one path segment; the viewBox includes the
// quiet zone.
func (c *Code) EncodeSVG(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	bord := c.Border
	fg, bg := "#000", "#fff"
	if c.Reverse {
		fg, bg = bg, fg
	}
	fmt.Fprintf(b, `<?xml version="1.0" standalone="yes"?>
<svg xmlns="http://www.w3.org/2000/svg" version="1.1" viewBox="0 0 %d %d" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="%s" d="`,
		c.Width+2*bord, c.Height+2*bord, bg, fg)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; {
			for x < c.Width && !c.Black(x, y) {
				x++
			}
			if x == c.Width {
				break
			}
			start := x
			for x < c.Width && c.Black(x, y) {
				x++
			}
			fmt.Fprintf(b, "M%d %dh%dv1h-%dz",
				start+bord, y+bord, x-start, x-start)
		}
	}
	if _, err := b.WriteString("\"/>\n</svg>\n"); err != nil {
		return err
	}
	return b.Flush()
}

// EncodePIC writes the code to w in the PIC language for troff or
// GNU plotutils: one filled box per run of dark modules.
func (c *Code) EncodePIC(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	bord := c.Border
	fmt.Fprintf(b, "maxpswid=%d;maxpsht=%d;movewid=0;moveht=1;boxwid=1;boxht=1\n"+
		"define p { box wid $3 ht $4 fill 1 thickness 0.1 with .nw at $1,-$2 }\n"+
		"box wid maxpswid ht maxpsht with .nw at 0,0\n",
		c.Width+2*bord, c.Height+2*bord)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; {
			for x < c.Width && c.Black(x, y) == c.Reverse {
				x++
			}
			if x == c.Width {
				break
			}
			start := x
			for x < c.Width && c.Black(x, y) != c.Reverse {
				x++
			}
			fmt.Fprintf(b, "p(%d,%d,%d,1)\n",
				start+bord, y+bord, x-start)
		}
	}
	return b.Flush()
}

// EncodeEPS writes an Encapsulated PostScript image displaying the
// code to w, centred on a US Letter page.
func (c *Code) EncodeEPS(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	const midx, midy = 306, 396
	scale := c.Scale
	bord := c.Border
	width, height := c.Width, c.Height
	xorig := midx - (width+2*bord)*scale/2
	yorig := midy - (height+2*bord)*scale/2
	fmt.Fprintf(b, `%%!PS-Adobe-2.0 EPSF-2.0
%%%%Creator: qr
%%%%Title: %s Code
%%%%BoundingBox: %d %d %d %d
%%%%EndComments
%%%%EndProlog
<< >> begin
gsave
%d %d translate
%d dup neg scale
/row 0 def
/p { 0 rmoveto 0 rlineto } def
/r { 0 row 1 add dup /row exch def moveto } def
`,
		c.version, xorig-1, yorig-1,
		midx*2-xorig, midy*2-yorig,
		midx-width*scale/2, midy+(height-1)*scale/2-1, scale)
	if c.Reverse {
		fmt.Fprintf(b, `gsave
newpath %d %d moveto
%d dup neg scale
0 0 0 setrgbcolor
1 0 rlineto stroke
grestore
1 1 1 setrgbcolor
`,
			-bord, height/2, max(width, height)+2*bord)
	}
	fmt.Fprintln(b, "newpath 0 0 moveto")
	for y := 0; y < height; y++ {
		for x := 0; x < width; {
			s := x
			for x < width && !c.Black(x, y) {
				x++
			}
			if x == width {
				break
			}
			run := x
			for x < width && c.Black(x, y) {
				x++
			}
			fmt.Fprintf(b, "%d %d p ", x-run, run-s)
		}
		fmt.Fprintln(b, "r")
	}
	io.WriteString(b, "stroke grestore\nend\n%%Trailer\n")
	return b.Flush()
}
