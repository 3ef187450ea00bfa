package main

import (
	"bytes"
	"io"
	"strconv"
	"sync/atomic"

	"github.com/tinygo-org/piomatrix/matrix"
)

// termDriver is a scheduler.Driver that prints each frame to a terminal,
// two columns per pixel.
type termDriver struct {
	w      io.Writer
	gain   uint8
	color  bool
	out    bytes.Buffer
	frames atomic.Uint64
}

func newTermDriver(w io.Writer, gain uint8, color bool) *termDriver {
	if gain == 0 {
		gain = 1
	}
	return &termDriver{w: w, gain: gain, color: color}
}

// Write renders buf. In color mode the cursor is moved home first so frames
// overdraw each other.
func (d *termDriver) Write(buf *matrix.Buffer) error {
	d.out.Reset()
	if d.color {
		d.out.WriteString("\x1b[H")
	}
	for row := 0; row < matrix.Rows; row++ {
		for col := 0; col < matrix.Cols; col++ {
			d.pixel(buf.Get(row, col))
		}
		if d.color {
			d.out.WriteString("\x1b[0m")
		}
		d.out.WriteByte('\n')
	}
	if !d.color {
		d.out.WriteByte('\n')
	}
	if _, err := d.w.Write(d.out.Bytes()); err != nil {
		return err
	}
	d.frames.Add(1)
	return nil
}

func (d *termDriver) pixel(c matrix.Color) {
	if !d.color {
		if c == matrix.Black {
			d.out.WriteString(". ")
		} else {
			d.out.WriteString("# ")
		}
		return
	}
	d.out.WriteString("\x1b[48;2;")
	d.out.WriteString(strconv.Itoa(int(d.scale(c.R))))
	d.out.WriteByte(';')
	d.out.WriteString(strconv.Itoa(int(d.scale(c.G))))
	d.out.WriteByte(';')
	d.out.WriteString(strconv.Itoa(int(d.scale(c.B))))
	d.out.WriteString("m  ")
}

// scale brightens a channel; LED values are far dimmer than what a
// terminal shows at the same number.
func (d *termDriver) scale(v uint8) uint8 {
	return uint8(min(uint(v)*uint(d.gain), 255))
}

// Frames returns how many frames were written. Safe for concurrent use.
func (d *termDriver) Frames() uint64 {
	return d.frames.Load()
}
