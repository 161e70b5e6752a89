// Package positionid encodes two-sided backgammon positions as gnubg
// position keys and 14-character position ID strings.
//
// Positions are held in gnubg's TanBoard layout: [side][point], where each
// side counts its points 0-23 from its own home and index 24 is its bar.
// Side 1 is the player on roll. Borne-off checkers are implicit.
package positionid

import (
	"errors"
)

// PositionIDLength is the length of a position ID string
const PositionIDLength = 14

// Base64 alphabet used for position ID encoding
const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// ErrInvalidPositionID is returned when a position ID is invalid
var ErrInvalidPositionID = errors.New("invalid position ID")

// TanBoard is a position in gnubg layout, [side][point], point 24 the bar.
type TanBoard [2][25]uint8

// PositionKey is a compact binary representation of a board position
// Uses 7 uint32s to encode the position (4 bits per point)
type PositionKey struct {
	Data [7]uint32
}

// OldPositionKey is the 80-bit key the position ID string is built from.
type OldPositionKey struct {
	Data [10]uint8
}

// MakePositionKey packs a board into 4 bits per point.
func MakePositionKey(board TanBoard) PositionKey {
	var key PositionKey
	for i := 0; i < 3; i++ {
		for k := 0; k < 8; k++ {
			shift := uint(k * 4)
			key.Data[i] |= uint32(board[1][i*8+k]&0x0f) << shift
			key.Data[i+3] |= uint32(board[0][i*8+k]&0x0f) << shift
		}
	}
	key.Data[6] = uint32(board[0][24]&0x0f) | uint32(board[1][24]&0x0f)<<4
	return key
}

// addBits sets nBits consecutive bits in key starting at bitPos.
func addBits(key *OldPositionKey, bitPos, nBits uint32) {
	k := bitPos / 8
	r := bitPos & 0x7
	b := ((uint32(1) << nBits) - 1) << r

	key.Data[k] |= uint8(b)

	if k < 8 {
		key.Data[k+1] |= uint8(b >> 8)
		key.Data[k+2] |= uint8(b >> 16)
	} else if k == 8 {
		key.Data[k+1] |= uint8(b >> 8)
	}
}

// MakeOldPositionKey writes each point as a run of 1-bits (one per
// checker) terminated by a 0-bit, side 0 first.
func MakeOldPositionKey(board TanBoard) OldPositionKey {
	var key OldPositionKey
	var bitPos uint32

	for i := 0; i < 2; i++ {
		for j := 0; j < 25; j++ {
			nc := uint32(board[i][j])
			if nc > 0 {
				addBits(&key, bitPos, nc)
			}
			bitPos += nc + 1
		}
	}
	return key
}

// BoardFromOldKey reverses MakeOldPositionKey.
func BoardFromOldKey(key OldPositionKey) (TanBoard, error) {
	var board TanBoard
	i, j := 0, 0

	for _, cur := range key.Data {
		for k := 0; k < 8; k++ {
			if cur&0x1 != 0 {
				if i >= 2 {
					return board, ErrInvalidPositionID
				}
				board[i][j]++
			} else if i < 2 {
				j++
				if j == 25 {
					i++
					j = 0
				}
			}
			cur >>= 1
		}
	}
	return board, nil
}

// PositionID generates a base64 position ID string from a board
func PositionID(board TanBoard) string {
	key := MakeOldPositionKey(board)
	result := make([]byte, PositionIDLength)
	puch := key.Data[:]

	for i := 0; i < 3; i++ {
		result[i*4] = base64Chars[puch[0]>>2]
		result[i*4+1] = base64Chars[((puch[0]&0x03)<<4)|(puch[1]>>4)]
		result[i*4+2] = base64Chars[((puch[1]&0x0F)<<2)|(puch[2]>>6)]
		result[i*4+3] = base64Chars[puch[2]&0x3F]
		puch = puch[3:]
	}
	result[12] = base64Chars[puch[0]>>2]
	result[13] = base64Chars[(puch[0]&0x03)<<4]

	return string(result)
}

// base64Decode decodes a base64 character to its value
func base64Decode(ch byte) uint8 {
	switch {
	case ch >= 'A' && ch <= 'Z':
		return ch - 'A'
	case ch >= 'a' && ch <= 'z':
		return ch - 'a' + 26
	case ch >= '0' && ch <= '9':
		return ch - '0' + 52
	case ch == '+':
		return 62
	case ch == '/':
		return 63
	}
	return 255
}

// BoardFromPositionID decodes a position ID. Anything after the 14th
// character (such as a ":matchID" suffix) is ignored.
func BoardFromPositionID(posID string) (TanBoard, error) {
	var key OldPositionKey
	var board TanBoard

	if len(posID) < PositionIDLength {
		return board, ErrInvalidPositionID
	}

	var ach [PositionIDLength]uint8
	for i := range ach {
		ach[i] = base64Decode(posID[i])
		if ach[i] == 255 {
			return board, ErrInvalidPositionID
		}
	}

	pch := ach[:]
	for i := 0; i < 3; i++ {
		key.Data[i*3] = (pch[0] << 2) | (pch[1] >> 4)
		key.Data[i*3+1] = (pch[1] << 4) | (pch[2] >> 2)
		key.Data[i*3+2] = (pch[2] << 6) | pch[3]
		pch = pch[4:]
	}
	key.Data[9] = (pch[0] << 2) | (pch[1] >> 4)

	board, err := BoardFromOldKey(key)
	if err != nil {
		return board, err
	}
	if !CheckPosition(board) {
		return board, ErrInvalidPositionID
	}
	return board, nil
}

// CheckPosition validates that a board position is legal
func CheckPosition(board TanBoard) bool {
	var ac [2]uint32

	// No side may have more than 15 checkers
	for i := 0; i < 25; i++ {
		ac[0] += uint32(board[0][i])
		ac[1] += uint32(board[1][i])
		if ac[0] > 15 || ac[1] > 15 {
			return false
		}
	}

	// Both sides on the same point
	for i := 0; i < 24; i++ {
		if board[0][i] > 0 && board[1][23-i] > 0 {
			return false
		}
	}

	// Both sides on the bar against closed boards
	for i := 0; i < 6; i++ {
		if board[0][i] < 2 || board[1][i] < 2 {
			return true
		}
	}
	return board[0][24] == 0 || board[1][24] == 0
}
