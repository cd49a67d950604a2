package emu

// VDP command codes (bits 7-6 of the second control byte)
const (
	codeReadVRAM  = 0
	codeWriteVRAM = 1
	codeWriteReg  = 2
	codeWriteCRAM = 3
)

// Status register bits
const (
	statusFrameIRQ       = 0x80 // Frame interrupt pending (VBlank)
	statusSpriteOverflow = 0x40 // More than 8 sprites on a scanline
	statusSpriteCollide  = 0x20 // Two sprite pixels overlapped
)

// InterruptRequester receives maskable interrupt requests from the VDP.
// The CPU side injects its implementation at construction; the VDP keeps
// no other reference to the processor.
type InterruptRequester interface {
	RequestINT(maskable bool)
}

// VDP is the SMS/Game Gear Video Display Processor (315-5124 family).
// It is advanced by Tick with the cycle count the CPU just executed and
// renders directly into a caller-supplied RGBA frame buffer.
type VDP struct {
	vram     [0x4000]uint8 // 16KB VRAM
	cram     [0x40]uint8   // Palette: SMS uses 32 bytes, Game Gear all 64
	register [16]uint8     // VDP registers (0-10 meaningful, 11-15 inert)

	addr       uint16 // Current VRAM/CRAM address (14-bit)
	addrLatch  uint8  // First byte of control write
	writeLatch bool   // True if first byte written
	codeReg    uint8  // Command code (bits 6-7 of second write)
	readBuffer uint8  // Read buffer for VRAM reads

	status         uint8
	lineCounter    int16 // Line interrupt counter (register 10 reload)
	lineIntPending bool

	vCounter      uint16 // Current scanline (raw, 0..linesPerFrame-1)
	hCounterLatch uint8  // H counter value frozen by the TH latch

	// Region/console configuration, fixed at Reset
	gameGear      bool
	pal           bool
	linesPerFrame int
	cramMask      uint16
	vJump         vCounterJump

	// Line timing state
	cyclesPerLineFP int // 16.16 fixed point cycles per scanline
	lineFrac        int // Fractional cycle remainder carried between lines
	lineCycles      int // Cycle budget for the current line
	cycleCounter    int // Cycles consumed within the current line
	hblank          bool

	vScrollLatch uint8 // Vertical scroll, latched once per frame

	irq     InterruptRequester
	irqLine bool // Current level of the INT line toward the CPU

	info [256]uint8 // Per-scanline pixel staging, reused every line
}

// NewVDP creates a VDP with SMS/NTSC timing. Reset reconfigures it.
func NewVDP(irq InterruptRequester) *VDP {
	v := &VDP{irq: irq}
	v.Reset(false, false)
	return v
}

// SetInterruptRequester installs the interrupt sink. Used when the CPU is
// constructed after the VDP (circular construction dependency).
func (v *VDP) SetInterruptRequester(irq InterruptRequester) {
	v.irq = irq
}

// Reset re-zeroes memory, registers and latches and installs the timing
// for the selected console and region.
func (v *VDP) Reset(gameGear, pal bool) {
	v.vram = [0x4000]uint8{}
	v.cram = [0x40]uint8{}
	v.register = [16]uint8{}

	v.addr = 0
	v.addrLatch = 0
	v.writeLatch = false
	v.codeReg = 0
	v.readBuffer = 0

	v.status = 0
	v.lineCounter = 0xFF // Prevent a spurious line interrupt on the first frame
	v.lineIntPending = false

	v.vCounter = 0
	v.hCounterLatch = 0

	v.gameGear = gameGear
	v.pal = pal
	timing := NTSCTiming
	if pal {
		timing = PALTiming
	}
	v.linesPerFrame = timing.Scanlines
	v.cyclesPerLineFP = timing.CPUClockHz * 65536 / timing.FPS / timing.Scanlines
	v.cramMask = 0x1F
	if gameGear {
		v.cramMask = 0x3F
	}
	v.vJump = vCounterJumpFor(pal, gameGear)

	v.lineFrac = 0
	v.cycleCounter = 0
	v.hblank = false
	v.startScanline()

	v.vScrollLatch = 0
	v.irqLine = false
}

// IsGameGear reports whether the VDP is configured as a Game Gear.
func (v *VDP) IsGameGear() bool {
	return v.gameGear
}

// ActiveHeight returns the active display height based on mode
// 192 lines: standard Mode 4 (default)
// 224 lines: M2=1, M1=1
// Where: M2 = reg0 bit 1, M1 = reg1 bit 4
func (v *VDP) ActiveHeight() int {
	m2 := v.register[0]&0x02 != 0
	m1 := v.register[1]&0x10 != 0

	// 240-line mode (M2=1, M1=0) is not supported on SMS
	if m2 && m1 {
		return 224
	}
	return 192
}

// WriteControl handles the two-write control port sequence
func (v *VDP) WriteControl(value uint8) {
	if !v.writeLatch {
		// First write: store low byte of address
		v.addrLatch = value
		v.writeLatch = true
		return
	}

	// Second write: high byte + command code
	v.writeLatch = false
	v.addr = uint16(v.addrLatch) | (uint16(value&0x3F) << 8)
	v.codeReg = (value >> 6) & 0x03

	switch v.codeReg {
	case codeReadVRAM:
		// Pre-fetch a byte into the read buffer and increment the address
		v.readBuffer = v.vram[v.addr&0x3FFF]
		v.addr = (v.addr + 1) & 0x3FFF
	case codeWriteReg:
		regNum := value & 0x0F
		v.register[regNum] = v.addrLatch
		// Enabling an interrupt while its pending flag is set asserts
		// the line immediately (reg 0 bit 4: line, reg 1 bit 5: frame)
		if regNum == 0 || regNum == 1 {
			v.updateIRQ()
		}
	}
}

// WriteData writes to VRAM or CRAM depending on the command code.
// Codes 0, 1 and 2 all store to VRAM; only code 3 reaches CRAM. The
// register-write code falling through to VRAM matches real silicon.
func (v *VDP) WriteData(value uint8) {
	v.writeLatch = false
	v.readBuffer = value
	if v.codeReg == codeWriteCRAM {
		v.cram[v.addr&v.cramMask] = value
	} else {
		v.vram[v.addr&0x3FFF] = value
	}
	v.addr = (v.addr + 1) & 0x3FFF
}

// ReadData returns the buffered byte and refills the buffer from VRAM
func (v *VDP) ReadData() uint8 {
	v.writeLatch = false
	data := v.readBuffer
	v.readBuffer = v.vram[v.addr&0x3FFF]
	v.addr = (v.addr + 1) & 0x3FFF
	return data
}

// ReadControl returns the status flags and clears them, along with the
// control write latch and the pending line interrupt.
func (v *VDP) ReadControl() uint8 {
	status := v.status
	v.status &^= statusFrameIRQ | statusSpriteOverflow | statusSpriteCollide
	v.lineIntPending = false
	v.writeLatch = false
	v.updateIRQ()
	return status
}

// InterruptAsserted returns the level of the INT line toward the CPU.
// Frame: status bit 7 AND register 1 bit 5. Line: pending AND register 0 bit 4.
func (v *VDP) InterruptAsserted() bool {
	frame := v.status&statusFrameIRQ != 0 && v.register[1]&0x20 != 0
	line := v.lineIntPending && v.register[0]&0x10 != 0
	return frame || line
}

// updateIRQ recomputes the INT line and notifies the sink on a rising edge.
func (v *VDP) updateIRQ() {
	asserted := v.InterruptAsserted()
	if asserted && !v.irqLine && v.irq != nil {
		v.irq.RequestINT(true)
	}
	v.irqLine = asserted
}

// GetVRAM returns the VRAM contents
func (v *VDP) GetVRAM() []uint8 {
	return v.vram[:]
}

// GetCRAM returns the CRAM (palette) contents
func (v *VDP) GetCRAM() []uint8 {
	return v.cram[:]
}

// GetRegister returns the value of a VDP register (0-15)
func (v *VDP) GetRegister(n int) uint8 {
	if n < 0 || n >= len(v.register) {
		return 0
	}
	return v.register[n]
}

// GetAddress returns the current VRAM/CRAM address
func (v *VDP) GetAddress() uint16 {
	return v.addr
}

// GetCodeReg returns the code register (command type)
func (v *VDP) GetCodeReg() uint8 {
	return v.codeReg
}

// GetWriteLatch returns whether a control write is pending
func (v *VDP) GetWriteLatch() bool {
	return v.writeLatch
}

// GetStatus returns the status register without clearing flags
func (v *VDP) GetStatus() uint8 {
	return v.status
}

// GetLineCounter returns the line interrupt counter
func (v *VDP) GetLineCounter() int16 {
	return v.lineCounter
}

// GetLineIntPending returns the line interrupt pending flag
func (v *VDP) GetLineIntPending() bool {
	return v.lineIntPending
}

// LeftColumnBlankEnabled returns true if VDP register 0 bit 5 is set,
// indicating the leftmost 8 pixels are masked with backdrop color
func (v *VDP) LeftColumnBlankEnabled() bool {
	return v.register[0]&0x20 != 0
}
