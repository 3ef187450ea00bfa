//go:build rp2040 || rp2350

package main

import (
	"context"
	"errors"
	"machine"
	"math/rand"
	"strconv"
	"time"

	"github.com/tinygo-org/piomatrix/effects"
	pio "github.com/tinygo-org/piomatrix/rp2-pio"
	"github.com/tinygo-org/piomatrix/rp2-pio/piolib"
	"github.com/tinygo-org/piomatrix/scheduler"
)

var ws2812Pin string

// effectSignal carries effect switches from the serial console to the render loop.
var effectSignal = scheduler.NewSignal[effects.Effect]()

/*
Drives a 16x16 serpentine WS2812 panel. Flash specifying the data GPIO:
tinygo flash -target=pico -ldflags "-X main.ws2812Pin=$GPIO_NUMBER" ./rp2-pio/examples/matrix/

Type an effect number or name followed by enter on the serial console to switch.
*/
func main() {
	// Sleep to catch prints.
	time.Sleep(2 * time.Second)
	pinNum, err := strconv.Atoi(ws2812Pin)
	if err != nil {
		println("Invalid pin number: " + ws2812Pin)
		pinNum = 16
	}
	sm, err := pio.PIO1.ClaimStateMachine()
	if err != nil {
		panic(err.Error())
	}
	ws, err := piolib.NewWS2812Matrix(sm, machine.Pin(pinNum))
	if err != nil {
		panic(err.Error())
	}
	if err := ws.EnableDMA(true); err != nil {
		println("falling back to FIFO writes:", err.Error())
	}
	ws.SetTimeout(100 * time.Millisecond)

	switchEffect(effects.KindWheel.String())
	go readSelectors()

	s := scheduler.New(ws, effectSignal, scheduler.Config{})
	err = s.Run(context.Background())
	panic(err.Error())
}

// readSelectors reads one effect selector per line from the serial console.
func readSelectors() {
	var line [16]byte
	n := 0
	for {
		if machine.Serial.Buffered() == 0 {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		b, err := machine.Serial.ReadByte()
		if err != nil {
			continue
		}
		switch b {
		case '\r', '\n':
			if n > 0 {
				switchEffect(string(line[:n]))
				n = 0
			}
		default:
			if n < len(line) {
				line[n] = b
				n++
			}
		}
	}
}

func switchEffect(selector string) {
	kind, err := effects.ParseKind(selector)
	if err != nil {
		println(err.Error())
		return
	}
	e, err := effects.New(kind, newRand())
	var unknown *effects.UnknownEffectError
	if errors.As(err, &unknown) {
		println(err.Error())
		return
	} else if err != nil {
		panic(err.Error())
	}
	println("effect:", kind.String())
	effectSignal.Signal(e)
}

// newRand returns a generator for a single effect; effects run on the render
// goroutine and must not share one.
func newRand() *rand.Rand {
	seed, err := machine.GetRNG()
	if err != nil {
		seed = uint32(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(int64(seed)))
}
