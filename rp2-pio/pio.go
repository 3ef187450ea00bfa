//go:build rp2040 || rp2350

package pio

import (
	"device/rp"
	"errors"
	"machine"
	"runtime/volatile"
	"unsafe"
)

// PIO peripheral handles.
var (
	PIO0 = &PIO{
		hw: rp.PIO0,
	}
	PIO1 = &PIO{
		hw: rp.PIO1,
	}
)

var errStateMachineClaimed = errors.New("pio: state machine already claimed")

const (
	badStateMachineIndex = "invalid state machine index"
	badPIO               = "invalid PIO"
	badProgramBounds     = "invalid program bounds"
)

// PIO represents one of the PIO peripherals of the RP2 family.
type PIO struct {
	// hw points to the PIO hardware registers.
	hw *rp.PIO0_Type
	// Instruction slots holding loaded programs.
	used programSpace
	// Bitmask of used state machines. Each PIO has 4 state machines.
	claimedSMMask uint8
	nc            noCopy
}

// BlockIndex returns 0, 1, or 2 depending on whether the underlying device is PIO0, PIO1, or PIO2.
func (pio *PIO) BlockIndex() uint8 {
	return pio.blockIndex()
}

func (pio *PIO) blockIndex() uint8 {
	for i, hw := range blocks {
		if pio.hw == hw {
			return uint8(i)
		}
	}
	panic(badPIO)
}

// StateMachine returns a state machine by index.
func (pio *PIO) StateMachine(index uint8) StateMachine {
	if index > 3 {
		panic(badStateMachineIndex)
	}
	return StateMachine{
		pio:   pio,
		index: index,
	}
}

// ClaimStateMachine returns an unused state machine
// or an error if all state machines on this PIO are claimed.
func (pio *PIO) ClaimStateMachine() (sm StateMachine, err error) {
	for i := uint8(0); i < 4; i++ {
		sm = pio.StateMachine(i)
		if sm.TryClaim() {
			return sm, nil
		}
	}
	return StateMachine{}, errStateMachineClaimed
}

// AddProgram loads a PIO program into PIO memory and returns the offset where it was loaded.
// Relocatable programs are placed in the highest free run of slots; JMP
// targets are patched to the load offset.
func (pio *PIO) AddProgram(prog Program) (offset uint8, _ error) {
	if prog.Len() == 0 {
		return 0, ErrEmptyProgram
	}
	maybeOffset := pio.used.find(prog.Len(), prog.Origin)
	if maybeOffset < 0 {
		return 0, ErrOutOfProgramSpace
	}
	offset = uint8(maybeOffset)
	return offset, pio.AddProgramAtOffset(prog, offset)
}

// AddProgramAtOffset loads a PIO program into PIO memory at a specific offset
// and returns a non-nil error if there is not enough space.
func (pio *PIO) AddProgramAtOffset(prog Program, offset uint8) error {
	if !pio.used.canUse(prog.Len(), prog.Origin, offset) {
		return ErrNoSpaceAtOffset
	}
	hw := pio.HW()
	for i, instr := range prog.Relocated(offset) {
		hw.INSTR_MEM[offset+uint8(i)].Set(uint32(instr))
	}
	pio.used.use(prog.Len(), offset)
	return nil
}

// ClearProgramSection clears a contiguous section of the PIO's program memory.
// To clear all program memory use ClearProgramSection(0, 32).
func (pio *PIO) ClearProgramSection(offset, len uint8) {
	if uint16(offset)+uint16(len) > programSlots {
		panic(badProgramBounds)
	}
	hw := pio.HW()
	for i := offset; i < offset+len; i++ {
		// Trap instructions so a state machine still running here stays put.
		hw.INSTR_MEM[i].Set(uint32(AssemblerV0{}.Jmp(i, JmpAlways).Encode()))
	}
	pio.used.release(len, offset)
}

type statemachineHW struct {
	CLKDIV    volatile.Register32 // 0xC8 for SM0
	EXECCTRL  volatile.Register32 // 0xCC for SM0
	SHIFTCTRL volatile.Register32 // 0xD0 for SM0
	ADDR      volatile.Register32 // 0xD4 for SM0
	INSTR     volatile.Register32 // 0xD8 for SM0
	PINCTRL   volatile.Register32 // 0xDC for SM0
}

func (pio *PIO) smHW(index uint8) *statemachineHW {
	if index > 3 {
		panic(badStateMachineIndex)
	}
	return &pio.HW().SM[index]
}

// PinMode returns the PinMode for a PIO state machine, one of
// PIO0, PIO1, or PIO2.
func (pio *PIO) PinMode() machine.PinMode {
	return machine.PinPIO0 + machine.PinMode(pio.BlockIndex())
}

// HW returns a pointer to the PIO's hardware registers.
func (pio *PIO) HW() *pioHW { return (*pioHW)(unsafe.Pointer(pio.hw)) }

// Programmable IO block
type pioHW struct {
	CTRL              volatile.Register32 // 0x0
	FSTAT             volatile.Register32 // 0x4
	FDEBUG            volatile.Register32 // 0x8
	FLEVEL            volatile.Register32 // 0xC
	TXF               [4]volatile.Register32
	RXF               [4]volatile.Register32
	IRQ               volatile.Register32                       // 0x30
	IRQ_FORCE         volatile.Register32                       // 0x34
	INPUT_SYNC_BYPASS volatile.Register32                       // 0x38
	DBG_PADOUT        volatile.Register32                       // 0x3C
	DBG_PADOE         volatile.Register32                       // 0x40
	DBG_CFGINFO       volatile.Register32                       // 0x44
	INSTR_MEM         [32]volatile.Register32                   // 0x48..0xC4
	SM                [4]statemachineHW                         // SM0=[0xC8..0xDC], .. 0x124
	RXF_PUTGET        [rp2350ExtraReg][4][4]volatile.Register32 // ----- | 0x128
	GPIOBASE          [rp2350ExtraReg]volatile.Register32       // ----- | 0x168
	INTR              volatile.Register32                       // 0x128 | 0x16C
	IRQ_INT           [2]irqINTHW                               // 0x12C..0x140 | 0x170..0x184
}

type irqINTHW struct {
	E volatile.Register32
	F volatile.Register32
	S volatile.Register32
}

const (
	sizeOK = unsafe.Sizeof(rp.PIO0_Type{}) == unsafe.Sizeof(pioHW{})
)

// noCopy may be embedded into structs which must not be copied
// after the first use.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) UnLock() {}
