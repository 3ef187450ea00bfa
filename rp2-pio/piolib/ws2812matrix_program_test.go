package piolib

import (
	"testing"
	"time"
)

func TestWS2812Program(t *testing.T) {
	// pioasm output for ws2812.pio with T1=2, T2=5, T3=3.
	want := []uint16{
		0x6221, //  0: out    x, 1            side 0 [2]
		0x1123, //  1: jmp    !x, 3           side 1 [1]
		0x1400, //  2: jmp    0               side 1 [4]
		0xa442, //  3: nop                    side 0 [4]
	}
	prog := ws2812Program()
	if len(prog.Instructions) != len(want) {
		t.Fatalf("program length %d, want %d", len(prog.Instructions), len(want))
	}
	for i := range want {
		if prog.Instructions[i] != want[i] {
			t.Errorf("instr %d mismatch got!=expected: %#x != %#x", i, prog.Instructions[i], want[i])
		}
	}
	if prog.WrapTarget != 0 || prog.Wrap != 3 {
		t.Errorf("wrap %d..%d, want 0..3", prog.WrapTarget, prog.Wrap)
	}
	if prog.Origin != -1 {
		t.Errorf("program should be relocatable, origin %d", prog.Origin)
	}
	// Loaded at the top of instruction memory both jumps move by the offset.
	reloc := prog.Relocated(28)
	if reloc[1] != 0x113f || reloc[2] != 0x141c {
		t.Errorf("relocated jumps %#x %#x", reloc[1], reloc[2])
	}
}

func TestWS2812ClkDiv(t *testing.T) {
	tests := []struct {
		cpuHz uint32
		whole uint16
		frac  uint8
	}{
		{125_000_000, 15, 160},
		{133_000_000, 16, 160},
		{150_000_000, 18, 192},
		{48_000_000, 6, 0},
		{200_000_000, 25, 0},
	}
	for _, tt := range tests {
		whole, frac, err := ws2812ClkDiv(tt.cpuHz)
		if err != nil {
			t.Errorf("%d Hz: %v", tt.cpuHz, err)
			continue
		}
		if whole != tt.whole || frac != tt.frac {
			t.Errorf("%d Hz: got %d+%d/256, want %d+%d/256", tt.cpuHz, whole, frac, tt.whole, tt.frac)
		}
		if whole == 0 {
			t.Errorf("%d Hz: zero divider", tt.cpuHz)
		}
	}
	if _, _, err := ws2812ClkDiv(1_000_000); err == nil {
		t.Error("1MHz CPU cannot reach 8MHz state machine clock, want error")
	}
}

func TestWS2812Latch(t *testing.T) {
	if ws2812Latch != 80*time.Microsecond {
		t.Errorf("latch %v, want 80µs", ws2812Latch)
	}
}

func TestDeadliner(t *testing.T) {
	var dl deadliner
	if dl.newDeadline().expired() {
		t.Fatal("zero deadliner must never expire")
	}
	dl.setTimeout(time.Millisecond)
	if got := time.Duration(1 << dl.timeout); got <= time.Millisecond || got > 2*time.Millisecond {
		t.Errorf("timeout rounded to %v", got)
	}
	d := dl.newDeadline()
	if d.expired() {
		t.Error("fresh deadline already expired")
	}
	time.Sleep(3 * time.Millisecond)
	if !d.expired() {
		t.Error("deadline not expired after timeout")
	}
	dl.setTimeout(0)
	if dl.timeout != 0 {
		t.Error("setTimeout(0) should disable deadline")
	}
}
