package pio

import "errors"

// PIO errors.
var (
	ErrOutOfProgramSpace = errors.New("pio: out of program space")
	ErrNoSpaceAtOffset   = errors.New("pio: program space unavailable at offset")
	ErrEmptyProgram      = errors.New("pio: empty program")
)

// programSlots is the size of a PIO block's instruction memory.
const programSlots = 32

// programSpace tracks which of the 32 instruction memory slots are in use.
type programSpace uint32

func programMask(n uint8) uint32 {
	if n >= programSlots {
		return 0xffff_ffff
	}
	return 1<<n - 1
}

// find returns the offset where a program of length n fits, or -1.
// Relocatable programs (origin < 0) are placed as high as possible.
func (s programSpace) find(n uint8, origin int8) int8 {
	if n == 0 || n > programSlots {
		return -1
	}
	mask := programMask(n)
	if origin >= 0 {
		if uint8(origin) > programSlots-n || uint32(s)&(mask<<uint8(origin)) != 0 {
			return -1
		}
		return origin
	}
	for i := int8(programSlots - n); i >= 0; i-- {
		if uint32(s)&(mask<<uint8(i)) == 0 {
			return i
		}
	}
	return -1
}

func (s programSpace) canUse(n uint8, origin int8, offset uint8) bool {
	if origin >= 0 && origin != int8(offset) {
		return false
	}
	if n == 0 || uint16(offset)+uint16(n) > programSlots {
		return false
	}
	return uint32(s)&(programMask(n)<<offset) == 0
}

func (s *programSpace) use(n, offset uint8) {
	*s |= programSpace(programMask(n) << offset)
}

func (s *programSpace) release(n, offset uint8) {
	*s &^= programSpace(programMask(n) << offset)
}
