//go:build rp2040

package pio

import "device/rp"

// The RP2040 has none of the RP2350's extra PIO registers.
const rp2350ExtraReg = 0

// blocks holds the PIO register blocks in index order.
var blocks = [...]*rp.PIO0_Type{rp.PIO0, rp.PIO1}
