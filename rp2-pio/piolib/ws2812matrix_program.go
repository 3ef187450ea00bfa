package piolib

import (
	"time"

	pio "github.com/tinygo-org/piomatrix/rp2-pio"
)

// WS2812 NRZ bit timing in state machine cycles. Every bit starts high for
// T1 cycles, stays high (1) or goes low (0) for T2 cycles and ends low for T3.
const (
	WS2812T1 = 2
	WS2812T2 = 5
	WS2812T3 = 3

	ws2812CyclesPerBit = WS2812T1 + WS2812T2 + WS2812T3
	// WS2812FreqKHz is the protocol bit rate.
	WS2812FreqKHz = 800
)

// ws2812Latch is how long to hold the line low after the TX FIFO drains:
// the last 24-bit word is still in the OSR, followed by the >50µs reset.
const ws2812Latch = 24*1250*time.Nanosecond + 50*time.Microsecond

// ws2812Program assembles
//
//	.side_set 1
//	.wrap_target
//	bitloop:
//	    out x, 1       side 0 [T3 - 1]
//	    jmp !x do_zero side 1 [T1 - 1]
//	do_one:
//	    jmp  bitloop   side 1 [T2 - 1]
//	do_zero:
//	    nop            side 0 [T2 - 1]
//	.wrap
func ws2812Program() pio.Program {
	asm := pio.AssemblerV0{SidesetBits: 1}
	const (
		bitloop = 0
		doZero  = 3
	)
	return pio.Program{
		Instructions: []uint16{
			bitloop: asm.Out(pio.OutDestX, 1).Side(0).Delay(WS2812T3 - 1).Encode(),
			asm.Jmp(doZero, pio.JmpXZero).Side(1).Delay(WS2812T1 - 1).Encode(),
			asm.Jmp(bitloop, pio.JmpAlways).Side(1).Delay(WS2812T2 - 1).Encode(),
			doZero: asm.Nop().Side(0).Delay(WS2812T2 - 1).Encode(),
		},
		Origin:      -1,
		WrapTarget:  bitloop,
		Wrap:        doZero,
		SidesetBits: 1,
	}
}

// ws2812ClkDiv returns the divider that runs the state machine at
// WS2812FreqKHz*ws2812CyclesPerBit for a CPU clocked at cpuHz.
// The ratio is taken in kHz.
func ws2812ClkDiv(cpuHz uint32) (whole uint16, frac uint8, err error) {
	return pio.ClkDivFromFrequency(WS2812FreqKHz*ws2812CyclesPerBit, cpuHz/1000)
}
