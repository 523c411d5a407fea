// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command qr generates QR, Micro QR and rMQR codes.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/enc2d/qr"
	"github.com/enc2d/qr/coding"
	"github.com/enc2d/qr/split"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
)

var g = struct {
	scale    int            // scale
	border   int            // quiet zone
	rev      bool           // reverse colours
	fn       string         // filename
	lev      qr.Level       // QR correction level
	ver      coding.Version // explicit version, or 0
	format   int            // output file format
	cx       int            // randr source X coordinate index in inc
	inc      [2]int         // randr source X,Y coordinate increments
	eci      int            // ECI segment value
	eciflag  bool           // ECI flag
	latin1   bool           // Latin-1 byte mode
	sjis     bool           // Shift JIS input
	nokanji  bool           // kanji mode disabled
	byteOnly bool           // byte mode only
	upper    bool           // uppercase
	cformat  split.Format   // QR / Micro / rMQR / Either
}{
	inc: [2]int{1, 1},
	eci: -1,
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprint(w, "QR code generator\nUsage: ", cl.UsageLine(),
		` [string ...]
If no string is given, data is read from standard input and the final
newline is stripped.  Defaults: UTF-8 input, no conversion, kanji mode
segments enabled, no ECI segment.

`)
	var b bytes.Buffer
	cl.PrintOptions(&b)
	w.Write(b.Bytes())
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 1.0.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2025 The enc2d Authors`)
	os.Exit(0)
}

func flip() {
	g.inc[0] = -g.inc[0]
}

func rotate() {
	g.cx ^= 1
	m := g.inc[0] * g.inc[1]
	g.inc[0] *= m
	g.inc[1] *= -m
}

func cformat() {
	if g.cformat == split.QR {
		g.cformat = split.Micro
	} else {
		g.cformat = split.Either
	}
}

var formats = []string{
	"png", "pngi", "pbm", "pbmi", "svg", "svgi", "eps", "epsi",
	"pic", "pici", "utf8", "utf8i", "ascii", "asciii",
}

var encoders = [...]func(*qr.Code, io.Writer) error{
	(*qr.Code).EncodePNG,
	(*qr.Code).EncodePBM,
	(*qr.Code).EncodeSVG,
	(*qr.Code).EncodeEPS,
	(*qr.Code).EncodePIC,
	(*qr.Code).WriteUTF8,
	ascii,
}

// parseVersion parses a version argument: a QR version number, an
// "M1".."M4" Micro QR version or an "R<h>x<w>" rMQR version.
func parseVersion(s string) (coding.Version, error) {
	for v := coding.MinVersion; v <= coding.MaxRMQR; v++ {
		if s == v.String() {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%q: bad version", s)
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.Flag(opt(flip), 'f', `flip code horizontally; `+
		`to flip vertically, use "-frr"`).SetFlag()
	getopt.Flag(opt(rotate), 'r', `rotate code 90° counterclockwise; `+
		`-r and -f may be given multiple times, `+
		`order matters: "-fr" = "-rfrr" = "-rrrf"`).SetFlag()
	getopt.Flag(&g.nokanji, 'K', "disable kanji mode")
	getopt.Flag(&g.latin1, '1', "convert byte mode segments to Latin-1")
	getopt.Flag(&g.byteOnly, '8', "encode entire data in byte mode")
	getopt.Flag(&g.sjis, 'k', "Shift JIS input")
	getopt.Flag(&g.upper, 'i', "ignore case, convert input to uppercase")
	getopt.Flag(opt(cformat), 'M', "encode a Micro QR code; "+
		"-MM: only if data fits").SetFlag()
	getopt.FlagLong(opt(func() { g.cformat = split.RMQR }), "rmqr", 'R',
		"encode an rMQR code").SetFlag()
	getopt.Flag(&g.border, 'm', "quiet zone modules "+
		"[4 (2 for Micro and rMQR)]", "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	getopt.Flag(&g.eciflag, 'e', "encode ECI segment setting "+
		"character encoding according to -1 and -k flags")
	eci := getopt.Signed('E', -1, &getopt.SignedLimit{Base: 0, Bits: 21, Min: 0, Max: 999999},
		"encode ECI segment with the given value; overrides -e", "eci")
	ver := getopt.String('v', "",
		`symbol version, e.g. "7", "M2" or "R11x43"`, "ver")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "l",
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', 4,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 28}),
		`image pixels (type eps[i]: points) per QR module; `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	g.scale = int(*scale)
	g.lev = qr.Level(strings.Index("lmqhLMQH", *lev) & 3)
	g.eci = int(*eci)
	if *ver != "" {
		var err error
		if g.ver, err = parseVersion(*ver); err != nil {
			fmt.Fprintln(os.Stderr, err)
			usage()
		}
	}
	if !getopt.IsSet('m') {
		g.border = -1
	}
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			break
		}
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if g.eciflag && !getopt.IsSet('E') {
		switch {
		case g.latin1:
			g.eci = qr.Latin1ECI
		case g.sjis:
			g.eci = qr.ShiftJISECI
		default:
			g.eci = qr.UTF8ECI
		}
	}
}

func main() {
	log.SetFlags(0)
	parseFlags()

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}
	if g.upper {
		s = strings.ToUpper(s)
	}

	// Set byte and kanji modes and full charset.  Input:
	//   -k:      Shift JIS input
	//   default: UTF-8 input
	// Byte mode encoding:
	//   -1:      Latin-1; input: UTF-8
	//   default: no conversion
	bm := coding.Byte
	var cs split.Charset
	switch {
	case g.sjis:
		cs = split.ShiftJIS
	case g.latin1:
		bm = coding.Latin1
		cs = split.UTF8AsLatin1
	}
	if g.byteOnly || bm != coding.Byte && g.nokanji {
		ml := split.ModeList{bm,
			split.Disabled, split.Disabled, split.Disabled}
		if !g.byteOnly {
			ml[1] = coding.Numeric
			ml[2] = coding.Alphanumeric
		}
		cs = split.NewCharset(ml, 1)
	} else if g.nokanji {
		cs = split.ASCIICompat // UTF-8, kanji disabled
	}

	var c *qr.Code
	var err error
	if g.ver != 0 {
		c, err = qr.EncodeVersion(s, g.ver)
	} else {
		d := split.Text(s, cs, uint32(max(g.eci, 0)))
		c, err = qr.EncodeData(d, g.lev, g.cformat)
	}
	if err != nil {
		log.Fatalln(err)
	}
	write(c)
}

func write(c *qr.Code) {
	fn := g.fn
	var w = os.Stdout
	if fn != "" {
		var err error
		if w, err = os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	c = randr(c)
	c.Scale = g.scale
	c.Reverse = g.rev
	if g.border >= 0 {
		c.Border = g.border
	}
	err := encoders[g.format](c, w)
	if fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}

// randr rotates and reflects c.  Output column x walks source axis
// cx with step inc[0], output row y walks the other axis with step
// inc[1]; coord[0] indexes source columns, coord[1] source rows.
func randr(c *qr.Code) *qr.Code {
	cx, inc := g.cx, g.inc
	if cx == 0 && inc == [2]int{1, 1} {
		return c
	}
	srcDim := [2]int{c.Width, c.Height}
	ow, oh := srcDim[cx], srcDim[cx^1]
	stride := (ow + 7) / 8
	b := make([]byte, 0, stride*oh)
	var coord [2]int
	coord[cx^1] = (srcDim[cx^1] - 1) & (inc[1] >> 1)
	for y := 0; y < oh; y++ {
		coord[cx] = (srcDim[cx] - 1) & (inc[0] >> 1)
		var bb byte
		n := 0
		for x := 0; x < ow; x++ {
			bb <<= 1
			if c.Black(coord[0], coord[1]) {
				bb |= 1
			}
			if n++; n == 8 {
				b = append(b, bb)
				bb, n = 0, 0
			}
			coord[cx] += inc[0]
		}
		if n != 0 {
			b = append(b, bb<<(8-n))
		}
		coord[cx^1] += inc[1]
	}
	cc := *c
	cc.Bitmap = b
	cc.Width, cc.Height, cc.Stride = ow, oh, stride
	return &cc
}

func ascii(c *qr.Code, w io.Writer) error {
	width := c.Width
	height := c.Height
	bord := c.Border
	px := width + 2*bord
	b := make([]byte, 0, (px*2+1)*(height+2*bord))
	for y := -bord; y < height+bord; y++ {
		for x := -bord; x < width+bord; x++ {
			p := byte(' ')
			if c.Black(x, y) != c.Reverse {
				p = '#'
			}
			b = append(b, p, p)
		}
		b = append(b, '\n')
	}
	_, err := w.Write(b)
	return err
}
