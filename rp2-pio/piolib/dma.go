//go:build rp2040 || rp2350

package piolib

import (
	"device/rp"
	"runtime/volatile"
	"unsafe"

	pio "github.com/tinygo-org/piomatrix/rp2-pio"
)

// Channels common to RP2040 (12) and RP2350 (16).
const dmaMaxChannels = 12

// Single DMA channel. See rp.DMA_Type.
type dmaChannelHW struct {
	READ_ADDR   volatile.Register32
	WRITE_ADDR  volatile.Register32
	TRANS_COUNT volatile.Register32
	CTRL_TRIG   volatile.Register32
	_           [12]volatile.Register32 // aliases
}

var dmaChannels = (*[dmaMaxChannels]dmaChannelHW)(unsafe.Pointer(rp.DMA))

// dmaArbiter hands out DMA channels to drivers in this package.
type dmaArbiter struct {
	claimedChannels uint16
}

var _DMA = &dmaArbiter{}

// ClaimChannel returns an unclaimed channel. Channels are handed out from
// the top down since low channels tend to be statically assigned elsewhere.
func (arb *dmaArbiter) ClaimChannel() (channel dmaChannel, ok bool) {
	for i := int8(dmaMaxChannels - 1); i >= 0; i-- {
		mask := uint16(1) << uint8(i)
		if arb.claimedChannels&mask == 0 {
			arb.claimedChannels |= mask
			return dmaChannel{hw: &dmaChannels[i], arb: arb, idx: uint8(i)}, true
		}
	}
	return dmaChannel{}, false
}

type dmaChannel struct {
	hw  *dmaChannelHW
	arb *dmaArbiter
	dl  deadliner
	idx uint8
}

// IsValid returns true if the channel was claimed from the arbiter.
func (ch dmaChannel) IsValid() bool {
	return ch.arb != nil && ch.hw != nil
}

// Unclaim returns the channel to the arbiter.
func (ch dmaChannel) Unclaim() {
	if ch.IsValid() {
		ch.arb.claimedChannels &^= 1 << ch.idx
	}
}

// dmaPIO_TxDREQ returns the data request signal paced by the state
// machine's TX FIFO.
func dmaPIO_TxDREQ(sm pio.StateMachine) uint32 {
	return uint32(sm.PIO().BlockIndex())*8 + uint32(sm.StateMachineIndex())
}

type dmaTxSize uint32

const (
	dmaTxSize8 dmaTxSize = iota
	dmaTxSize16
	dmaTxSize32
)

// Push32 writes each element of src into the memory location at dst, paced
// by dreq, and yields until the transfer finishes or the channel deadline
// expires. On timeout the transfer is aborted.
func (ch dmaChannel) Push32(dst *uint32, src []uint32, dreq uint32) error {
	if len(src) == 0 {
		return nil
	}
	hw := ch.hw
	hw.READ_ADDR.Set(uint32(uintptr(unsafe.Pointer(&src[0]))))
	hw.WRITE_ADDR.Set(uint32(uintptr(unsafe.Pointer(dst))))
	hw.TRANS_COUNT.Set(uint32(len(src)))

	var ctrl uint32
	setBits(&ctrl, rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Msk, rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos, dreq)
	setBits(&ctrl, rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Msk, rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos, uint32(dmaTxSize32))
	// Chaining to itself disables chaining.
	setBits(&ctrl, rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Msk, rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos, uint32(ch.idx))
	setBitPos(&ctrl, rp.DMA_CH0_CTRL_TRIG_INCR_READ_Pos, true)
	setBitPos(&ctrl, rp.DMA_CH0_CTRL_TRIG_INCR_WRITE_Pos, false)
	setBitPos(&ctrl, rp.DMA_CH0_CTRL_TRIG_EN_Pos, true)
	hw.CTRL_TRIG.Set(ctrl)

	dl := ch.dl.newDeadline()
	for ch.busy() {
		if dl.expired() {
			ch.abort()
			return errTimeout
		}
		gosched()
	}
	return nil
}

// abort aborts the current transfer sequence on the channel and waits until
// in-flight transfers have been flushed through the address and data FIFOs.
func (ch dmaChannel) abort() {
	chMask := uint32(1) << ch.idx
	rp.DMA.CHAN_ABORT.Set(chMask)
	for rp.DMA.CHAN_ABORT.Get()&chMask != 0 {
		gosched()
	}
}

func (ch dmaChannel) busy() bool {
	return ch.hw.CTRL_TRIG.Get()&rp.DMA_CH0_CTRL_TRIG_BUSY != 0
}

func setBits(reg *uint32, mask, pos, value uint32) {
	*reg = (*reg &^ mask) | (value<<pos)&mask
}

func setBitPos(reg *uint32, pos uint32, bit bool) {
	if bit {
		*reg |= 1 << pos
	} else {
		*reg &^= 1 << pos
	}
}
