package game

import (
	"crypto/sha256"
	"encoding/binary"
)

// HashSize is the size of a state commitment hash in bytes.
const HashSize = sha256.Size

// StateHash computes the commitment hash binding a claim to a final game
// state without revealing it.
//
// The serialization order is fixed and part of the commitment format:
// each snake position head-to-tail as little-endian uint32 X then Y,
// followed by the grid width and height. Any reordering or change of
// state produces a different hash.
func StateHash(s *GameState) [HashSize]byte {
	h := sha256.New()
	var buf [8]byte

	for _, p := range s.Snake {
		binary.LittleEndian.PutUint32(buf[:4], uint32(p.X))
		binary.LittleEndian.PutUint32(buf[4:], uint32(p.Y))
		_, _ = h.Write(buf[:])
	}
	binary.LittleEndian.PutUint32(buf[:4], uint32(s.Width))
	binary.LittleEndian.PutUint32(buf[4:], uint32(s.Height))
	_, _ = h.Write(buf[:])

	var out [HashSize]byte
	copy(out[:], h.Sum(nil))
	return out
}
