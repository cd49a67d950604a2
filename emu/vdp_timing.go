package emu

// Cycles before the end of each scanline spent in horizontal blanking.
// The active slice of a 228-cycle line is roughly 171 cycles; the VDP
// enters HBlank for the remainder and leaves it at line start.
const hblankCycles = 57

// hCounterTable maps CPU cycle offset (0-227) to H-counter value (0-255)
// The SMS VDP master clock is 10.738 MHz (3x CPU clock). Each scanline is 684 master clocks = 228 CPU cycles.
// The H-counter is a 9-bit internal counter, but only the upper 8 bits are exposed via port $7E/$7F.
// This creates non-linear behavior with a jump from $93 to $E9 at H-blank start.
//
// Hardware timing per scanline:
//   - Master clocks 0-255 (CPU 0-85): H-counter $00-$7F (active display left)
//   - Master clocks 256-511 (CPU 86-170): H-counter $80-$93 (active display right)
//   - Master clocks 512+ (CPU 171+): H-counter jumps to $E9, counts to $FF, wraps to $00-$08 (H-blank)
var hCounterTable = func() [228]uint8 {
	var table [228]uint8

	for cycle := 0; cycle < 228; cycle++ {
		masterClock := cycle * 3

		var hValue int
		switch {
		case masterClock < 256:
			// Active display left half: 2 master clocks per H-count
			hValue = masterClock / 2
		case masterClock < 512:
			// Active display right half: $80-$93 over 256 master clocks
			progress := masterClock - 256
			hValue = 0x80 + (progress * 20 / 256)
			if hValue > 0x93 {
				hValue = 0x93
			}
		default:
			// H-blank: jump from $93 to $E9, count to $FF, wrap to $00-$08
			progress := masterClock - 512
			hValue = 0xE9 + (progress * 32 / 172)
			if hValue > 0xFF {
				hValue = hValue - 0x100
			}
		}

		table[cycle] = uint8(hValue)
	}

	return table
}()

// vCounterJump describes the mid-frame fallback of the exposed V counter:
// scanlines up to and including cutoff read back unchanged, later lines
// read back lowered by drop so the counter ends the frame at $FF. Values
// match the SMS2 revision; cutoff224 applies in 224-line mode.
type vCounterJump struct {
	cutoff192 int
	cutoff224 int
	drop      int
}

// vCounterJumps holds one entry per region x console pair. Game Gear
// silicon shares the SMS values; the table keeps the pairs separate so a
// revision difference is a data edit.
var vCounterJumps = map[[2]bool]vCounterJump{
	{false, false}: {cutoff192: 218, cutoff224: 234, drop: 6},  // NTSC SMS
	{false, true}:  {cutoff192: 218, cutoff224: 234, drop: 6},  // NTSC GG
	{true, false}:  {cutoff192: 242, cutoff224: 258, drop: 57}, // PAL SMS
	{true, true}:   {cutoff192: 242, cutoff224: 258, drop: 57}, // PAL GG
}

func vCounterJumpFor(pal, gameGear bool) vCounterJump {
	return vCounterJumps[[2]bool{pal, gameGear}]
}

// ReadVCounter returns the V-counter with the mid-frame jump applied so
// the exposed value stays 8-bit across 262/313 physical scanlines.
func (v *VDP) ReadVCounter() uint8 {
	line := int(v.vCounter)
	cutoff := v.vJump.cutoff192
	if v.ActiveHeight() == 224 {
		cutoff = v.vJump.cutoff224
	}
	if line <= cutoff {
		return uint8(line)
	}
	return uint8(line - v.vJump.drop)
}

// ReadHCounter returns the latched horizontal counter
func (v *VDP) ReadHCounter() uint8 {
	return v.hCounterLatch
}

// LatchHCounter freezes the current dot position into the H counter
// latch. Wired to the TH pin transitions on the controller ports.
func (v *VDP) LatchHCounter() {
	cycle := v.cycleCounter
	if cycle > 227 {
		cycle = 227
	}
	v.hCounterLatch = hCounterTable[cycle]
}

// InHBlank reports whether the beam is in the horizontal blanking
// portion of the current scanline.
func (v *VDP) InHBlank() bool {
	return v.hblank
}

// CyclesUntilLineEnd returns the cycle budget left in the current
// scanline. Used by the emulator loop to slice CPU execution so port
// writes land on the line they were made in.
func (v *VDP) CyclesUntilLineEnd() int {
	left := v.lineCycles - v.cycleCounter
	if left < 1 {
		left = 1
	}
	return left
}

// startScanline computes the cycle budget for the line about to scan.
// The 16.16 fixed-point accumulator spreads the fractional cycles so the
// frame rate matches the region clock with zero long-term drift.
func (v *VDP) startScanline() {
	total := v.cyclesPerLineFP + v.lineFrac
	v.lineCycles = total >> 16
	v.lineFrac = total & 0xFFFF
	v.hblank = false
}

// SetTiming switches the frame timing between NTSC and PAL without
// disturbing memory, registers or the beam position.
func (v *VDP) SetTiming(pal bool) {
	v.pal = pal
	timing := NTSCTiming
	if pal {
		timing = PALTiming
	}
	v.linesPerFrame = timing.Scanlines
	v.cyclesPerLineFP = timing.CPUClockHz * 65536 / timing.FPS / timing.Scanlines
	v.vJump = vCounterJumpFor(pal, v.gameGear)
	if int(v.vCounter) >= v.linesPerFrame {
		v.vCounter = 0
	}
}

// Tick advances the VDP by the given CPU cycle count. Completed
// scanlines are rendered into frame (RGBA, 256 wide with up to 224 lines
// for SMS, 160x144 for Game Gear). Returns true exactly once per completed frame; when the
// frame completes mid-delta the unconsumed overshoot is stored back into
// cycles for the caller's next call.
func (v *VDP) Tick(cycles *uint32, frame []uint8) bool {
	v.cycleCounter += int(*cycles)
	*cycles = 0

	frameDone := false
	for v.cycleCounter >= v.lineCycles {
		v.cycleCounter -= v.lineCycles
		if v.endScanline(frame) {
			frameDone = true
			v.startScanline()
			// Hand the overshoot back so the next frame starts clean
			if v.cycleCounter > 0 {
				*cycles = uint32(v.cycleCounter)
				v.cycleCounter = 0
			}
			break
		}
		v.startScanline()
	}

	v.hblank = v.cycleCounter >= v.lineCycles-hblankCycles
	return frameDone
}

// endScanline finishes the line the beam just completed: renders it,
// steps the line interrupt counter, raises the frame interrupt at the
// bottom of the active display and wraps at end of frame. Returns true
// when the frame just completed.
func (v *VDP) endScanline(frame []uint8) bool {
	line := int(v.vCounter)
	active := v.ActiveHeight()

	if line < active {
		v.scanLine(line, frame)
	}

	// The line counter decrements through the active display and one
	// line beyond; for the rest of the frame it is held at its reload
	// value and cannot fire.
	if line <= active {
		v.lineCounter--
		if v.lineCounter < 0 {
			v.lineCounter = int16(v.register[10])
			v.lineIntPending = true
			v.updateIRQ()
		}
	} else {
		v.lineCounter = int16(v.register[10])
	}

	v.vCounter++
	if int(v.vCounter) == active {
		v.status |= statusFrameIRQ
		v.updateIRQ()
	}

	if int(v.vCounter) >= v.linesPerFrame {
		v.vCounter = 0
		// Vertical scroll is locked for the whole next frame
		v.vScrollLatch = v.register[9]
		return true
	}
	return false
}
