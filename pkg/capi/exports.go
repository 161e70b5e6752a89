//go:build cgo

package main

/*
#include <stdlib.h>
#include <stdint.h>
*/
import "C"
import (
	"unsafe"
)

// goInts copies n C ints starting at p.
func goInts(p *C.int, n C.int) []int {
	if p == nil || n <= 0 {
		return nil
	}
	src := unsafe.Slice(p, int(n))
	out := make([]int, len(src))
	for i, v := range src {
		out[i] = int(v)
	}
	return out
}

//export bgmovegen_version
func bgmovegen_version() *C.char {
	return C.CString(version)
}

//export bgmovegen_last_error
func bgmovegen_last_error() *C.char {
	msg := getError()
	if msg == "" {
		return nil
	}
	return C.CString(msg)
}

//export bgmovegen_init
func bgmovegen_init(cacheSize, maxNodes C.int) C.int {
	initEngine(int(cacheSize), int(maxNodes))
	setError(nil)
	return 0
}

//export bgmovegen_shutdown
func bgmovegen_shutdown() {
	shutdownEngine()
}

// bgmovegen_next_boards writes up to maxBoards result boards of 56 ints to
// out and returns the total number of legal boards, or -1 on error. A
// return value above maxBoards means out was too small.
//
//export bgmovegen_next_boards
func bgmovegen_next_boards(board *C.int, mover C.int, dice *C.int, ndice C.int, out *C.int, maxBoards C.int) C.int {
	flat, err := nextBoardsFlat(goInts(board, C.int(boardInts)), int(mover), goInts(dice, ndice))
	if err != nil {
		setError(err)
		return -1
	}

	count := len(flat) / boardInts
	n := count
	if n > int(maxBoards) {
		n = int(maxBoards)
	}
	if n > 0 && out != nil {
		dst := unsafe.Slice(out, n*boardInts)
		for i := range dst {
			dst[i] = C.int(flat[i])
		}
	}
	setError(nil)
	return C.int(count)
}

//export bgmovegen_moves
func bgmovegen_moves(positionID *C.char, mover C.int, dice *C.int, ndice C.int, resultJSON **C.char) C.int {
	res, err := movesJSON(C.GoString(positionID), int(mover), goInts(dice, ndice))
	if err != nil {
		setError(err)
		*resultJSON = C.CString(`{"error": "move generation failed"}`)
		return -1
	}
	*resultJSON = C.CString(res)
	setError(nil)
	return 0
}

//export bgmovegen_free_string
func bgmovegen_free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}
