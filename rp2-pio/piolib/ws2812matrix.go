//go:build rp2040 || rp2350

package piolib

import (
	"machine"
	"time"

	"github.com/tinygo-org/piomatrix/matrix"
	pio "github.com/tinygo-org/piomatrix/rp2-pio"
)

// WS2812Matrix pushes matrix.Buffer frames to a chain of WS2812 LEDs wired
// as a serpentine panel.
type WS2812Matrix struct {
	sm     pio.StateMachine
	dma    dmaChannel
	offset uint8
	// frame holds the words being shifted out. It is only touched by Write.
	frame [matrix.Len]uint32
}

// NewWS2812Matrix loads the NRZ program on the state machine's PIO block and
// starts it driving pin. Errors are returned when the CPU clock cannot be
// divided down to the bit clock or the PIO has no program space left.
func NewWS2812Matrix(sm pio.StateMachine, pin machine.Pin) (*WS2812Matrix, error) {
	sm.TryClaim() // SM should be claimed beforehand, we just guarantee it's claimed.
	whole, frac, err := ws2812ClkDiv(machine.CPUFrequency())
	if err != nil {
		return nil, err
	}
	Pio := sm.PIO()
	prog := ws2812Program()
	offset, err := Pio.AddProgram(prog)
	if err != nil {
		return nil, err
	}
	pin.Configure(machine.PinConfig{Mode: Pio.PinMode()})
	sm.SetPindirsConsecutive(pin, 1, true)
	cfg := prog.DefaultConfig(offset)
	cfg.SetSidesetPins(pin)
	// We only use Tx FIFO, so we set the join to Tx.
	cfg.SetFIFOJoin(pio.FifoJoinTx)
	cfg.SetClkDivIntFrac(whole, frac)
	// Colors are left aligned in the word: shift left, pull every 24 bits.
	cfg.SetOutShift(false, true, 24)
	sm.Init(offset, cfg)
	sm.SetEnabled(true)
	return &WS2812Matrix{sm: sm, offset: offset}, nil
}

// SetTimeout bounds how long Write waits on the hardware. Zero waits forever.
func (ws *WS2812Matrix) SetTimeout(timeout time.Duration) {
	ws.dma.dl.setTimeout(timeout)
}

// Write shifts out the whole buffer and returns once the LEDs have latched
// the frame. buf is only read during the call.
func (ws *WS2812Matrix) Write(buf *matrix.Buffer) error {
	buf.EncodeGRB(&ws.frame)
	var err error
	if ws.IsDMAEnabled() {
		err = ws.dma.Push32(&ws.sm.TxReg().Reg, ws.frame[:], dmaPIO_TxDREQ(ws.sm))
	} else {
		err = ws.writeFIFO(ws.frame[:])
	}
	if err != nil {
		return err
	}
	dl := ws.dma.dl.newDeadline()
	for !ws.sm.IsTxFIFOEmpty() {
		if dl.expired() {
			return errTimeout
		}
		gosched()
	}
	time.Sleep(ws2812Latch)
	return nil
}

func (ws *WS2812Matrix) writeFIFO(words []uint32) error {
	dl := ws.dma.dl.newDeadline()
	i := 0
	for i < len(words) {
		if ws.sm.IsTxFIFOFull() {
			if dl.expired() {
				return errTimeout
			}
			gosched()
			continue
		}
		ws.sm.TxPut(words[i])
		i++
	}
	return nil
}

// EnableDMA enables DMA for frame transfers.
func (ws *WS2812Matrix) EnableDMA(enabled bool) error {
	dmaAlreadyEnabled := ws.IsDMAEnabled()
	if !enabled || dmaAlreadyEnabled {
		if !enabled && dmaAlreadyEnabled {
			dl := ws.dma.dl
			ws.dma.Unclaim()
			ws.dma = dmaChannel{dl: dl} // Invalidate DMA channel, keep timeout.
		}
		return nil
	}
	channel, ok := _DMA.ClaimChannel()
	if !ok {
		return errDMAUnavail
	}
	channel.dl = ws.dma.dl // Copy deadline.
	ws.dma = channel
	return nil
}

// IsDMAEnabled returns true if DMA is enabled.
func (ws *WS2812Matrix) IsDMAEnabled() bool {
	return ws.dma.IsValid()
}
