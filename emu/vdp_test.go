package emu

import "testing"

// TestVDP_ControlWriteSequence tests the two-byte address/command sequence
func TestVDP_ControlWriteSequence(t *testing.T) {
	vdp, _ := newTestVDP()

	if vdp.GetWriteLatch() {
		t.Error("Write latch should be false initially")
	}

	vdp.WriteControl(0x00) // First byte
	if !vdp.GetWriteLatch() {
		t.Error("Write latch should be true after first byte")
	}

	vdp.WriteControl(0x00) // Second byte
	if vdp.GetWriteLatch() {
		t.Error("Write latch should be false after second byte")
	}
}

// TestVDP_LatchSymmetry verifies that any pair of control writes forms
// address ((hi & 0x3F) << 8) | lo and code hi >> 6, regardless of what
// came before.
func TestVDP_LatchSymmetry(t *testing.T) {
	vdp, _ := newTestVDP()

	pairs := []struct{ lo, hi uint8 }{
		{0x00, 0x00},
		{0xFF, 0x3F},
		{0x34, 0x52},
		{0xAB, 0xFF},
		{0x01, 0x80},
		{0x7F, 0xC5},
	}

	for _, p := range pairs {
		vdp.WriteControl(p.lo)
		vdp.WriteControl(p.hi)

		wantAddr := (uint16(p.hi&0x3F) << 8) | uint16(p.lo)
		wantCode := p.hi >> 6
		if p.hi>>6 == codeReadVRAM {
			// Read setup pre-fetches and advances the address
			wantAddr = (wantAddr + 1) & 0x3FFF
		}

		if got := vdp.GetAddress(); got != wantAddr {
			t.Errorf("Pair (%02X, %02X): address expected 0x%04X, got 0x%04X", p.lo, p.hi, wantAddr, got)
		}
		if got := vdp.GetCodeReg(); got != wantCode {
			t.Errorf("Pair (%02X, %02X): code expected %d, got %d", p.lo, p.hi, wantCode, got)
		}
		if vdp.GetWriteLatch() {
			t.Errorf("Pair (%02X, %02X): latch should be empty after second byte", p.lo, p.hi)
		}
	}
}

// TestVDP_RegisterWrite tests control code 2 writes to registers
func TestVDP_RegisterWrite(t *testing.T) {
	vdp, _ := newTestVDP()

	// First byte: value to write, second byte: 10xx xxxx | register number
	vdp.WriteControl(0x7E)
	vdp.WriteControl(0x85) // Code 2, reg 5
	if got := vdp.GetRegister(5); got != 0x7E {
		t.Errorf("Register 5 after write: expected 0x7E, got 0x%02X", got)
	}

	vdp.WriteControl(0x36)
	vdp.WriteControl(0x80) // Code 2, reg 0
	if got := vdp.GetRegister(0); got != 0x36 {
		t.Errorf("Register 0 after write: expected 0x36, got 0x%02X", got)
	}
}

// TestVDP_RegisterWriteInert tests that registers 11-15 accept writes
// without affecting VDP behavior (they are stored but never read).
func TestVDP_RegisterWriteInert(t *testing.T) {
	vdp, rec := newTestVDP()

	for reg := uint8(11); reg <= 15; reg++ {
		writeRegister(vdp, reg, 0xFF)
	}

	if rec.calls != 0 {
		t.Errorf("Writes to inert registers requested %d interrupts", rec.calls)
	}
	if vdp.GetStatus() != 0 {
		t.Errorf("Writes to inert registers changed status to 0x%02X", vdp.GetStatus())
	}
}

// TestVDP_ScenarioA: reset as SMS/NTSC, write register 0 = 0x00.
// Expect register 0 == 0, latch empty, no interrupt.
func TestVDP_ScenarioA(t *testing.T) {
	vdp, rec := newTestVDP()
	vdp.Reset(false, false)

	vdp.WriteControl(0x00)
	vdp.WriteControl(0x80)

	if got := vdp.GetRegister(0); got != 0 {
		t.Errorf("Register 0: expected 0, got 0x%02X", got)
	}
	if vdp.GetWriteLatch() {
		t.Error("Latch should be empty")
	}
	if rec.calls != 0 {
		t.Errorf("Expected no interrupt, got %d", rec.calls)
	}
}

// TestVDP_ScenarioB: VRAM write setup at 0, then one data byte.
func TestVDP_ScenarioB(t *testing.T) {
	vdp, _ := newTestVDP()

	vdp.WriteControl(0x00)
	vdp.WriteControl(0x40) // VRAM write at 0x0000
	vdp.WriteData(0xAB)

	if got := vdp.GetVRAM()[0]; got != 0xAB {
		t.Errorf("VRAM[0]: expected 0xAB, got 0x%02X", got)
	}
	if got := vdp.GetAddress(); got != 1 {
		t.Errorf("Address: expected 1, got 0x%04X", got)
	}
}

// TestVDP_ScenarioC: CRAM write of 0x3F twice on SMS gives white.
func TestVDP_ScenarioC(t *testing.T) {
	vdp, _ := newTestVDP()

	vdp.WriteControl(0x00)
	vdp.WriteControl(0xC0) // CRAM write at 0
	vdp.WriteData(0x3F)
	vdp.WriteData(0x3F)

	cram := vdp.GetCRAM()
	if cram[0] != 0x3F || cram[1] != 0x3F {
		t.Errorf("CRAM[0..1]: expected 0x3F 0x3F, got 0x%02X 0x%02X", cram[0], cram[1])
	}

	r, g, b := vdp.colorAt(0)
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("Converted color: expected (255,255,255), got (%d,%d,%d)", r, g, b)
	}
}

// TestVDP_VRAMReadWrite tests VRAM access with auto-increment
func TestVDP_VRAMReadWrite(t *testing.T) {
	vdp, _ := newTestVDP()

	vdp.WriteControl(0x00)
	vdp.WriteControl(0x41) // VRAM write at 0x100

	vdp.WriteData(0x11)
	vdp.WriteData(0x22)
	vdp.WriteData(0x33)

	if got := vdp.GetAddress(); got != 0x103 {
		t.Errorf("Address after 3 writes at 0x100: expected 0x103, got 0x%04X", got)
	}

	vram := vdp.GetVRAM()
	if vram[0x100] != 0x11 || vram[0x101] != 0x22 || vram[0x102] != 0x33 {
		t.Errorf("VRAM contents wrong: %02X %02X %02X", vram[0x100], vram[0x101], vram[0x102])
	}
}

// TestVDP_AddressWrap tests that the address stays 14-bit across writes
func TestVDP_AddressWrap(t *testing.T) {
	vdp, _ := newTestVDP()

	// Point at the last VRAM byte and write across the boundary
	vdp.WriteControl(0xFF)
	vdp.WriteControl(0x7F) // VRAM write at 0x3FFF
	vdp.WriteData(0xAA)
	vdp.WriteData(0xBB)

	if got := vdp.GetAddress(); got != 0x0001 {
		t.Errorf("Address after wrap: expected 0x0001, got 0x%04X", got)
	}
	vram := vdp.GetVRAM()
	if vram[0x3FFF] != 0xAA {
		t.Errorf("VRAM[0x3FFF]: expected 0xAA, got 0x%02X", vram[0x3FFF])
	}
	if vram[0x0000] != 0xBB {
		t.Errorf("VRAM[0x0000]: expected 0xBB, got 0x%02X", vram[0x0000])
	}

	if got := vdp.GetAddress(); got >= 0x4000 {
		t.Errorf("Address must stay below 0x4000, got 0x%04X", got)
	}
}

// TestVDP_DataPortRegWriteQuirk tests that command code 2 (register
// write) on the data port behaves as a VRAM write, like real silicon.
func TestVDP_DataPortRegWriteQuirk(t *testing.T) {
	vdp, _ := newTestVDP()

	vdp.WriteControl(0x20)
	vdp.WriteControl(0x80) // Register write setup (code 2), address 0x0020

	vdp.WriteData(0x55)

	vram := vdp.GetVRAM()
	if vram[0x20] != 0x55 {
		t.Errorf("VRAM[0x20]: expected 0x55 (register-write code stores to VRAM), got 0x%02X", vram[0x20])
	}
	cram := vdp.GetCRAM()
	if cram[0] != 0 {
		t.Errorf("CRAM[0] must be untouched, got 0x%02X", cram[0])
	}
}

// TestVDP_CRAMWrite tests palette writes (32 bytes on SMS, wraps at $1F)
func TestVDP_CRAMWrite(t *testing.T) {
	vdp, _ := newTestVDP()

	vdp.WriteControl(0x00)
	vdp.WriteControl(0xC0) // Code 3 (CRAM write)

	vdp.WriteData(0x00) // Black
	vdp.WriteData(0x03) // Red
	vdp.WriteData(0x0C) // Green
	vdp.WriteData(0x30) // Blue

	cram := vdp.GetCRAM()
	want := []uint8{0x00, 0x03, 0x0C, 0x30}
	for i, w := range want {
		if cram[i] != w {
			t.Errorf("CRAM[%d]: expected 0x%02X, got 0x%02X", i, w, cram[i])
		}
	}

	vram := vdp.GetVRAM()
	for i := 0; i < 4; i++ {
		if vram[i] != 0 {
			t.Errorf("CRAM writes must not touch VRAM, VRAM[%d] = 0x%02X", i, vram[i])
		}
	}
}

// TestVDP_CRAMWrap tests that the CRAM address wraps at 32 bytes on SMS
func TestVDP_CRAMWrap(t *testing.T) {
	vdp, _ := newTestVDP()

	vdp.WriteControl(0x1F)
	vdp.WriteControl(0xC0)

	vdp.WriteData(0xAA) // Index 31
	vdp.WriteData(0xBB) // Wraps to index 0

	cram := vdp.GetCRAM()
	if cram[31] != 0xAA {
		t.Errorf("CRAM[31]: expected 0xAA, got 0x%02X", cram[31])
	}
	if cram[0] != 0xBB {
		t.Errorf("CRAM[0] after wrap: expected 0xBB, got 0x%02X", cram[0])
	}
}

// TestVDP_CRAMGameGear tests the 64-byte Game Gear CRAM: even bytes
// carry the red and green nibbles, odd bytes the blue nibble.
func TestVDP_CRAMGameGear(t *testing.T) {
	vdp, _ := newTestVDP()
	vdp.Reset(true, false)

	vdp.WriteControl(0x00)
	vdp.WriteControl(0xC0)
	vdp.WriteData(0x21) // Entry 0 low byte: G=2, R=1
	vdp.WriteData(0x03) // Entry 0 high byte: B=3

	cram := vdp.GetCRAM()
	if cram[0] != 0x21 || cram[1] != 0x03 {
		t.Errorf("GG CRAM[0..1]: expected 0x21 0x03, got 0x%02X 0x%02X", cram[0], cram[1])
	}

	r, g, b := vdp.colorAt(0)
	if r != 17 || g != 34 || b != 51 {
		t.Errorf("GG color: expected (17,34,51), got (%d,%d,%d)", r, g, b)
	}

	// Address wraps at 64 bytes
	vdp.WriteControl(0x3F)
	vdp.WriteControl(0xC0)
	vdp.WriteData(0x0A) // Index 63
	vdp.WriteData(0x0B) // Wraps to index 0
	if cram[63] != 0x0A {
		t.Errorf("GG CRAM[63]: expected 0x0A, got 0x%02X", cram[63])
	}
	if cram[0] != 0x0B {
		t.Errorf("GG CRAM[0] after wrap: expected 0x0B, got 0x%02X", cram[0])
	}
}

// TestVDP_ReadBuffer tests pre-fetch behavior on VRAM reads
func TestVDP_ReadBuffer(t *testing.T) {
	vdp, _ := newTestVDP()

	vdp.WriteControl(0x00)
	vdp.WriteControl(0x40) // VRAM write at 0x000
	vdp.WriteData(0xAA)
	vdp.WriteData(0xBB)
	vdp.WriteData(0xCC)

	vdp.WriteControl(0x00)
	vdp.WriteControl(0x00) // VRAM read at 0x000 (pre-fetches)

	if first := vdp.ReadData(); first != 0xAA {
		t.Errorf("First read (pre-fetch): expected 0xAA, got 0x%02X", first)
	}
	if second := vdp.ReadData(); second != 0xBB {
		t.Errorf("Second read: expected 0xBB, got 0x%02X", second)
	}
	if third := vdp.ReadData(); third != 0xCC {
		t.Errorf("Third read: expected 0xCC, got 0x%02X", third)
	}
}

// TestVDP_WriteDataLoadsReadBuffer tests that a data port write also
// loads the written value into the read buffer.
func TestVDP_WriteDataLoadsReadBuffer(t *testing.T) {
	vdp, _ := newTestVDP()

	vdp.WriteControl(0x00)
	vdp.WriteControl(0x40)
	vdp.WriteData(0x42)

	// ReadData returns the buffer before refilling; no read setup has
	// happened so the buffer still holds the written byte.
	if got := vdp.ReadData(); got != 0x42 {
		t.Errorf("Read buffer after data write: expected 0x42, got 0x%02X", got)
	}
}

// TestVDP_DataAccessClearsLatch tests that data port accesses reset a
// half-written control sequence.
func TestVDP_DataAccessClearsLatch(t *testing.T) {
	vdp, _ := newTestVDP()

	vdp.WriteControl(0x12) // First byte only
	vdp.WriteData(0x00)
	if vdp.GetWriteLatch() {
		t.Error("Data write should clear the control latch")
	}

	vdp.WriteControl(0x12)
	vdp.ReadData()
	if vdp.GetWriteLatch() {
		t.Error("Data read should clear the control latch")
	}
}

// TestVDP_StatusClearOnRead tests that reading status clears the three
// latched flags and the control latch.
func TestVDP_StatusClearOnRead(t *testing.T) {
	vdp, _ := newTestVDP()

	vdp.status = statusFrameIRQ | statusSpriteOverflow | statusSpriteCollide
	vdp.lineIntPending = true
	vdp.WriteControl(0x12) // Leave the latch half-full

	first := vdp.ReadControl()
	if first&0xE0 != 0xE0 {
		t.Errorf("First status read: expected bits 7/6/5 set, got 0x%02X", first)
	}

	second := vdp.ReadControl()
	if second&0xE0 != 0 {
		t.Errorf("Second status read: expected bits 7/6/5 clear, got 0x%02X", second)
	}
	if vdp.GetWriteLatch() {
		t.Error("Status read should clear the control latch")
	}
	if vdp.GetLineIntPending() {
		t.Error("Status read should clear the pending line interrupt")
	}
}
