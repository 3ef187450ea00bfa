//go:build rp2350

package pio

import "device/rp"

const rp2350ExtraReg = 1

// PIO2 is only present on the RP2350.
var PIO2 = &PIO{hw: rp.PIO2}

var blocks = [...]*rp.PIO0_Type{rp.PIO0, rp.PIO1, rp.PIO2}
