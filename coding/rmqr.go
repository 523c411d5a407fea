// Copyright 2025 The enc2d Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// rMQR size enumeration and per-size parameters (ISO/IEC 23941).
// Capacities are consistent with the function pattern geometry in
// canvas.go: data modules = 8*bytes + remainder for every size.

package coding

// An rversion describes metadata associated with an rMQR version.
type rversion struct {
	height    int
	width     int
	bytes     int     // total data and check codewords
	remainder int     // zero filler bits after the final codeword
	align     []int   // alignment pattern column coordinates
	cci       [4]byte // count widths: numeric, alphanumeric, byte, kanji
	level     [2]level
}

var rtab = [32]rversion{
	R7x43 - R7x43: {7, 43, 13, 0, []int{21}, [4]byte{4, 4, 3, 2}, [2]level{{1, 7}, {1, 10}}},
	R7x59 - R7x43: {7, 59, 21, 3, []int{19, 39}, [4]byte{5, 5, 4, 3}, [2]level{{1, 9}, {1, 14}}},
	R7x77 - R7x43: {7, 77, 32, 5, []int{25, 51}, [4]byte{6, 5, 5, 4}, [2]level{{1, 12}, {1, 22}}},
	R7x99 - R7x43: {7, 99, 44, 6, []int{23, 49, 75}, [4]byte{7, 6, 5, 5}, [2]level{{1, 14}, {1, 29}}},
	R7x139 - R7x43: {7, 139, 68, 1, []int{27, 55, 83, 111}, [4]byte{7, 7, 6, 5}, [2]level{{1, 18}, {2, 21}}},
	R9x43 - R7x43: {9, 43, 21, 2, []int{21}, [4]byte{5, 5, 4, 3}, [2]level{{1, 9}, {1, 14}}},
	R9x59 - R7x43: {9, 59, 33, 3, []int{19, 39}, [4]byte{6, 5, 5, 4}, [2]level{{1, 12}, {1, 22}}},
	R9x77 - R7x43: {9, 77, 49, 1, []int{25, 51}, [4]byte{7, 6, 5, 5}, [2]level{{1, 18}, {2, 16}}},
	R9x99 - R7x43: {9, 99, 66, 4, []int{23, 49, 75}, [4]byte{7, 6, 6, 5}, [2]level{{1, 24}, {2, 22}}},
	R9x139 - R7x43: {9, 139, 99, 5, []int{27, 55, 83, 111}, [4]byte{8, 7, 6, 6}, [2]level{{2, 18}, {3, 22}}},
	R11x27 - R7x43: {11, 27, 15, 2, nil, [4]byte{4, 4, 3, 3}, [2]level{{1, 8}, {1, 12}}},
	R11x43 - R7x43: {11, 43, 31, 1, []int{21}, [4]byte{6, 5, 5, 4}, [2]level{{1, 12}, {1, 20}}},
	R11x59 - R7x43: {11, 59, 47, 0, []int{19, 39}, [4]byte{7, 6, 5, 5}, [2]level{{1, 16}, {2, 16}}},
	R11x77 - R7x43: {11, 77, 67, 2, []int{25, 51}, [4]byte{7, 6, 6, 5}, [2]level{{1, 24}, {2, 22}}},
	R11x99 - R7x43: {11, 99, 89, 7, []int{23, 49, 75}, [4]byte{8, 7, 6, 6}, [2]level{{2, 16}, {2, 30}}},
	R11x139 - R7x43: {11, 139, 132, 6, []int{27, 55, 83, 111}, [4]byte{8, 7, 7, 6}, [2]level{{2, 24}, {3, 30}}},
	R13x27 - R7x43: {13, 27, 21, 4, nil, [4]byte{5, 5, 4, 3}, [2]level{{1, 9}, {1, 16}}},
	R13x43 - R7x43: {13, 43, 41, 1, []int{21}, [4]byte{6, 6, 5, 5}, [2]level{{1, 14}, {1, 28}}},
	R13x59 - R7x43: {13, 59, 60, 6, []int{19, 39}, [4]byte{7, 6, 6, 5}, [2]level{{1, 22}, {2, 20}}},
	R13x77 - R7x43: {13, 77, 85, 4, []int{25, 51}, [4]byte{7, 7, 6, 6}, [2]level{{2, 16}, {2, 28}}},
	R13x99 - R7x43: {13, 99, 113, 3, []int{23, 49, 75}, [4]byte{8, 7, 7, 6}, [2]level{{2, 20}, {3, 26}}},
	R13x139 - R7x43: {13, 139, 166, 0, []int{27, 55, 83, 111}, [4]byte{8, 8, 7, 7}, [2]level{{2, 30}, {4, 28}}},
	R15x43 - R7x43: {15, 43, 51, 1, []int{21}, [4]byte{7, 6, 6, 5}, [2]level{{1, 18}, {2, 18}}},
	R15x59 - R7x43: {15, 59, 74, 4, []int{19, 39}, [4]byte{7, 7, 6, 5}, [2]level{{1, 26}, {2, 24}}},
	R15x77 - R7x43: {15, 77, 103, 6, []int{25, 51}, [4]byte{8, 7, 7, 6}, [2]level{{2, 19}, {3, 24}}},
	R15x99 - R7x43: {15, 99, 136, 7, []int{23, 49, 75}, [4]byte{8, 7, 7, 6}, [2]level{{2, 25}, {3, 30}}},
	R15x139 - R7x43: {15, 139, 199, 2, []int{27, 55, 83, 111}, [4]byte{9, 8, 7, 7}, [2]level{{3, 24}, {5, 26}}},
	R17x43 - R7x43: {17, 43, 61, 1, []int{21}, [4]byte{7, 6, 6, 5}, [2]level{{1, 22}, {2, 20}}},
	R17x59 - R7x43: {17, 59, 88, 2, []int{19, 39}, [4]byte{8, 7, 6, 6}, [2]level{{2, 16}, {2, 30}}},
	R17x77 - R7x43: {17, 77, 122, 0, []int{25, 51}, [4]byte{8, 7, 7, 6}, [2]level{{2, 22}, {3, 28}}},
	R17x99 - R7x43: {17, 99, 160, 3, []int{23, 49, 75}, [4]byte{8, 8, 7, 6}, [2]level{{2, 30}, {4, 26}}},
	R17x139 - R7x43: {17, 139, 232, 4, []int{27, 55, 83, 111}, [4]byte{9, 8, 8, 7}, [2]level{{3, 27}, {6, 26}}},
}
