package pio

import (
	"errors"
	"math"
)

// InstrKind is a enum for the PIO instruction type. It only represents the kind of
// instruction. It cannot store the arguments.
type InstrKind uint8

const (
	InstrJMP InstrKind = iota
	InstrWAIT
	InstrIN
	InstrOUT
	InstrPUSH
	InstrPULL
	InstrMOV
	InstrIRQ
	InstrSET
)

// This file contains the primitives for creating instructions dynamically
const (
	_INSTR_BITS_JMP  = 0x0000
	_INSTR_BITS_WAIT = 0x2000
	_INSTR_BITS_IN   = 0x4000
	_INSTR_BITS_OUT  = 0x6000
	_INSTR_BITS_PUSH = 0x8000
	_INSTR_BITS_PULL = 0x8080
	_INSTR_BITS_MOV  = 0xa000
	_INSTR_BITS_IRQ  = 0xc000
	_INSTR_BITS_SET  = 0xe000

	// Bit mask for instruction code
	_INSTR_BITS_Msk = 0xe000

	// Delay/side-set field occupies bits 12..8.
	delaySidesetBits = 5
	delaySidesetPos  = 8
)

const (
	badDelay       = "pio: delay too large for side-set configuration"
	badSidesetBits = "pio: too many side-set bits"
	noSideset      = "pio: side-set not configured"
)

// OutDest is the destination of an OUT instruction.
type OutDest uint8

const (
	OutDestPins    OutDest = 0
	OutDestX       OutDest = 1
	OutDestY       OutDest = 2
	OutDestNull    OutDest = 3
	OutDestPindirs OutDest = 4
	OutDestPC      OutDest = 5
	OutDestISR     OutDest = 6
	OutDestExec    OutDest = 7
)

// InSrc is the source of an IN instruction.
type InSrc uint8

const (
	InSrcPins InSrc = 0
	InSrcX    InSrc = 1
	InSrcY    InSrc = 2
	InSrcNull InSrc = 3
	InSrcISR  InSrc = 6
	InSrcOSR  InSrc = 7
)

// SetDest is the destination of a SET instruction.
type SetDest uint8

const (
	SetDestPins    SetDest = 0
	SetDestX       SetDest = 1
	SetDestY       SetDest = 2
	SetDestPindirs SetDest = 4
)

// MovDest is the destination of a MOV instruction.
type MovDest uint8

const (
	MovDestPins MovDest = 0
	MovDestX    MovDest = 1
	MovDestY    MovDest = 2
	MovDestExec MovDest = 4
	MovDestPC   MovDest = 5
	MovDestISR  MovDest = 6
	MovDestOSR  MovDest = 7
)

// MovSrc is the source of a MOV instruction.
type MovSrc uint8

const (
	MovSrcPins   MovSrc = 0
	MovSrcX      MovSrc = 1
	MovSrcY      MovSrc = 2
	MovSrcNull   MovSrc = 3
	MovSrcStatus MovSrc = 5
	MovSrcISR    MovSrc = 6
	MovSrcOSR    MovSrc = 7
)

type JmpCond uint8

const (
	// No condition, always jumps.
	JmpAlways JmpCond = iota
	// Jump if X is zero.
	JmpXZero
	// Jump if X is not zero, prior to decrement of X.
	JmpXNZeroDec
	// Jump if Y is zero.
	JmpYZero
	// Jump if Y is not zero, prior to decrement of Y.
	JmpYNZeroDec
	// Jump if X is not equal to Y.
	JmpXNotEqualY
	// Jump if EXECCTRL_JMP_PIN (state machine configured) is high.
	JmpPinInput
	// Compares the bits shifted out since last pull with the shift count theshold
	// (configured by SHIFTCTRL_PULL_THRESH) and jumps if there are remaining bits to shift.
	JmpOSRNotEmpty
)

// AssemblerV0 provides a fluent API for programming PIO
// within the Go language for PIO version 0 (RP2040).
//
// SidesetBits is the number of side-set value bits declared by the program
// (.side_set N). SidesetOptional marks the side-set as optional
// (.side_set N opt), which costs one extra bit of the delay field.
type AssemblerV0 struct {
	SidesetBits     uint8
	SidesetOptional bool
}

type instructionV0 struct {
	instr uint16
	asm   AssemblerV0
}

// fieldBits returns how many bits of the delay/side-set field are reserved for side-set.
func (asm AssemblerV0) fieldBits() uint8 {
	n := asm.SidesetBits
	if asm.SidesetOptional {
		n++
	}
	if n > delaySidesetBits {
		panic(badSidesetBits)
	}
	return n
}

// MaxDelay returns the largest delay in cycles an instruction can carry.
func (asm AssemblerV0) MaxDelay() uint8 {
	return 1<<(delaySidesetBits-asm.fieldBits()) - 1
}

func (asm AssemblerV0) instr(bits uint16) instructionV0 {
	return instructionV0{instr: bits, asm: asm}
}

func (asm AssemblerV0) instrArgs(bits uint16, arg1, arg2 uint8) instructionV0 {
	return asm.instr(bits | uint16(arg1&0b111)<<5 | uint16(arg2&0x1f))
}

// Jmp jumps to addr if cond is true. addr is relative to the start of the
// program; it is patched to an absolute address when the program is loaded.
func (asm AssemblerV0) Jmp(addr uint8, cond JmpCond) instructionV0 {
	return asm.instrArgs(_INSTR_BITS_JMP, uint8(cond), addr)
}

// WaitGPIO stalls until the absolute GPIO pin reaches polarity.
func (asm AssemblerV0) WaitGPIO(polarity bool, pin uint8) instructionV0 {
	flag := boolAsU8(polarity) << 2
	return asm.instrArgs(_INSTR_BITS_WAIT, 0|flag, pin)
}

// WaitPin stalls until the input-mapped pin reaches polarity.
func (asm AssemblerV0) WaitPin(polarity bool, pin uint8) instructionV0 {
	flag := boolAsU8(polarity) << 2
	return asm.instrArgs(_INSTR_BITS_WAIT, 1|flag, pin)
}

// WaitIRQ stalls until the IRQ flag reaches polarity.
func (asm AssemblerV0) WaitIRQ(polarity bool, relative bool, irq uint8) instructionV0 {
	flag := boolAsU8(polarity) << 2
	return asm.instrArgs(_INSTR_BITS_WAIT, 2|flag, encodeIRQ(relative, irq))
}

// In shifts bitCount bits from src into the ISR.
func (asm AssemblerV0) In(src InSrc, bitCount uint8) instructionV0 {
	return asm.instrArgs(_INSTR_BITS_IN, uint8(src), bitCount)
}

// Out shifts bitCount bits out of the OSR to dest.
func (asm AssemblerV0) Out(dest OutDest, bitCount uint8) instructionV0 {
	return asm.instrArgs(_INSTR_BITS_OUT, uint8(dest), bitCount)
}

// Push pushes the ISR to the RX FIFO.
func (asm AssemblerV0) Push(ifFull bool, block bool) instructionV0 {
	return asm.instrArgs(_INSTR_BITS_PUSH, boolAsU8(ifFull)<<1|boolAsU8(block), 0)
}

// Pull loads the OSR from the TX FIFO.
func (asm AssemblerV0) Pull(ifEmpty bool, block bool) instructionV0 {
	return asm.instrArgs(_INSTR_BITS_PULL, boolAsU8(ifEmpty)<<1|boolAsU8(block), 0)
}

// Mov copies src to dest.
func (asm AssemblerV0) Mov(dest MovDest, src MovSrc) instructionV0 {
	return asm.instrArgs(_INSTR_BITS_MOV, uint8(dest), uint8(src)&7)
}

// MovInvert copies the bitwise complement of src to dest.
func (asm AssemblerV0) MovInvert(dest MovDest, src MovSrc) instructionV0 {
	return asm.instrArgs(_INSTR_BITS_MOV, uint8(dest), (1<<3)|(uint8(src)&7))
}

// MovReverse copies src to dest with the bit order reversed.
func (asm AssemblerV0) MovReverse(dest MovDest, src MovSrc) instructionV0 {
	return asm.instrArgs(_INSTR_BITS_MOV, uint8(dest), (2<<3)|(uint8(src)&7))
}

// IRQSet sets the IRQ flag without waiting.
func (asm AssemblerV0) IRQSet(relative bool, irq uint8) instructionV0 {
	return asm.instrArgs(_INSTR_BITS_IRQ, 0, encodeIRQ(relative, irq))
}

// IRQClear clears the IRQ flag.
func (asm AssemblerV0) IRQClear(relative bool, irq uint8) instructionV0 {
	return asm.instrArgs(_INSTR_BITS_IRQ, 2, encodeIRQ(relative, irq))
}

// Set writes an immediate value to dest.
func (asm AssemblerV0) Set(dest SetDest, value uint8) instructionV0 {
	return asm.instrArgs(_INSTR_BITS_SET, uint8(dest), value)
}

// Nop assembles to mov y, y.
func (asm AssemblerV0) Nop() instructionV0 {
	return asm.Mov(MovDestY, MovSrcY)
}

// Side sets the side-set value asserted while the instruction executes.
func (instr instructionV0) Side(value uint8) instructionV0 {
	n := instr.asm.fieldBits()
	if n == 0 {
		panic(noSideset)
	}
	v := uint16(value) & (1<<instr.asm.SidesetBits - 1)
	if instr.asm.SidesetOptional {
		v |= 1 << instr.asm.SidesetBits
	}
	instr.instr |= v << (delaySidesetPos + delaySidesetBits - n)
	return instr
}

// Delay idles for the given amount of cycles after the instruction executes.
func (instr instructionV0) Delay(cycles uint8) instructionV0 {
	if cycles > instr.asm.MaxDelay() {
		panic(badDelay)
	}
	instr.instr |= uint16(cycles) << delaySidesetPos
	return instr
}

// Encode returns the 16-bit machine code of the instruction.
func (instr instructionV0) Encode() uint16 {
	return instr.instr
}

func encodeIRQ(relative bool, irq uint8) uint8 {
	return boolAsU8(relative)<<4 | irq&0b111
}

func majorInstrBits(instr uint16) uint16 {
	return instr & _INSTR_BITS_Msk
}

// Program is an assembled PIO program together with the directives pioasm
// would emit alongside it.
type Program struct {
	Instructions []uint16
	// Origin is the fixed load address, or -1 if the program is relocatable.
	Origin int8
	// WrapTarget and Wrap are relative to the start of the program.
	WrapTarget uint8
	Wrap       uint8

	SidesetBits     uint8
	SidesetOptional bool
}

// Len returns the number of instructions.
func (p Program) Len() uint8 { return uint8(len(p.Instructions)) }

// Relocated returns the instructions with JMP targets moved to an absolute
// address for a program loaded at offset.
func (p Program) Relocated(offset uint8) []uint16 {
	out := make([]uint16, len(p.Instructions))
	for i, instr := range p.Instructions {
		if majorInstrBits(instr) == _INSTR_BITS_JMP {
			addr := (instr + uint16(offset)) & 0x1f
			instr = instr&^0x1f | addr
		}
		out[i] = instr
	}
	return out
}

// sidesetCount returns the SIDESET_COUNT register value, which includes the enable bit.
func (p Program) sidesetCount() uint8 {
	return AssemblerV0{SidesetBits: p.SidesetBits, SidesetOptional: p.SidesetOptional}.fieldBits()
}

var (
	errClkDivTooLarge = errors.New("pio: clkdiv too large period or CPU frequency")
	errClkDivTooSmall = errors.New("pio: clkdiv too small period or CPU frequency")
)

// ClkDivFromPeriod calculates the CLKDIV register values
// to reach a given StateMachine cycle period given the CPU frequency.
// period is expected to be in nanoseconds. freq is expected to be in Hz.
//
// Prefer using ClkDivFromFrequency if possible for speed and accuracy.
func ClkDivFromPeriod(period, cpuFreq uint32) (whole uint16, frac uint8, err error) {
	//  freq = 256*clockfreq / (256*whole + frac)
	// where period = 1e9/freq => freq = 1e9/period, so:
	//  1e9/period = 256*clockfreq / (256*whole + frac) =>
	//  256*whole + frac = 256*clockfreq*period/1e9
	return splitClkdiv(256 * uint64(period) * uint64(cpuFreq) / uint64(1e9))
}

// ClkDivFromFrequency calculates the CLKDIV register values
// to reach a given StateMachine cycle frequency. freq and cpuFreq
// must be in the same unit; passing kHz keeps intermediate values small
// for callers that also compute the ratio elsewhere.
func ClkDivFromFrequency(freq, cpuFreq uint32) (whole uint16, frac uint8, err error) {
	//  freq = 256*clockfreq / (256*whole + frac)
	//  256*whole + frac = 256*clockfreq / freq
	return splitClkdiv(256 * uint64(cpuFreq) / uint64(freq))
}

func splitClkdiv(clkdiv uint64) (whole uint16, frac uint8, err error) {
	if clkdiv > 256*math.MaxUint16 {
		return 0, 0, errClkDivTooLarge
	} else if clkdiv < 256 {
		return 0, 0, errClkDivTooSmall
	}
	whole = uint16(clkdiv / 256)
	frac = uint8(clkdiv % 256)
	return whole, frac, nil
}

func boolAsU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
