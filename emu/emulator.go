package emu

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/go-chip-sn76489"
	"github.com/user-none/go-chip-z80"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.SaveStater = (*Emulator)(nil)
var _ emucore.BatterySaver = (*Emulator)(nil)
var _ emucore.MemoryInspector = (*Emulator)(nil)
var _ emucore.MemoryMapper = (*Emulator)(nil)

// Core identification used by frontends.
const (
	Name    = "emgg"
	Version = "0.1.0"
)

const sampleRate = 48000

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "emGGSState"
	stateHeaderSize = 20 // magic(10) + version(2) + romCRC(4) + dataCRC(4)
)

// cpuINTLine adapts the VDP's interrupt sink to the go-chip-z80 INT pin.
type cpuINTLine struct {
	cpu *z80.CPU
}

func (l cpuINTLine) RequestINT(maskable bool) {
	if !maskable {
		l.cpu.NMI()
		return
	}
	l.cpu.INT(true, 0xFF)
}

// Emulator contains the emulator core components.
type Emulator struct {
	cpu *z80.CPU
	mem *Memory
	vdp *VDP
	psg *sn76489.SN76489
	io  *SMSIO

	console Console
	region  Region
	timing  RegionTiming

	framebuffer *image.RGBA
	carryCycles uint32 // End-of-frame overshoot carried into the next frame

	// Input edge detection for pause/start button
	prevButtons [2]uint32

	// Crop border support (SMS only)
	cropBorder bool
	cropBuffer []byte

	// Pre-allocated audio buffers to avoid per-frame allocations
	frameSamples []float32 // Collects float32 samples during frame emulation
	audioBuffer  []int16   // Final int16 stereo output for external consumption
}

// NewEmulator creates and initializes the emulator components. The Game
// Gear is NTSC-only; a PAL region request is ignored for it.
func NewEmulator(rom []byte, console Console, region Region) (Emulator, error) {
	if console == ConsoleGG {
		region = RegionNTSC
	}
	timing := GetTimingForRegion(region)

	mem := NewMemory(rom)
	vdp := NewVDP(nil)
	vdp.Reset(console == ConsoleGG, region == RegionPAL)

	samplesPerFrame := sampleRate / timing.FPS
	psg := sn76489.New(timing.CPUClockHz, sampleRate, samplesPerFrame*2, sn76489.Sega)

	nationality := DetectNationalityFromROM(rom)
	io := NewSMSIO(vdp, psg, console, nationality)
	bus := NewSMSBus(mem, io)
	cpu := z80.New(bus)
	vdp.SetInterruptRequester(cpuINTLine{cpu: cpu})

	width, height := ScreenWidth, MaxScreenHeight
	if console == ConsoleGG {
		width, height = GameGearWidth, GameGearHeight
	}

	return Emulator{
		cpu:         cpu,
		mem:         mem,
		vdp:         vdp,
		psg:         psg,
		io:          io,
		console:     console,
		region:      region,
		timing:      timing,
		framebuffer: image.NewRGBA(image.Rect(0, 0, width, height)),
		cropBuffer:  make([]byte, (ScreenWidth-8)*MaxScreenHeight*4),
		// ~800 samples/frame at 48kHz/60fps
		frameSamples: make([]float32, 0, 1024),
		audioBuffer:  make([]int16, 0, 2048),
	}, nil
}

// RunFrame executes one frame of emulation. The VDP owns the clock: the
// CPU is stepped in slices bounded by the current scanline budget, and
// every executed cycle count is fed into VDP.Tick until it reports the
// frame complete. Audio samples accumulate per slice.
func (e *Emulator) RunFrame() {
	e.frameSamples = e.frameSamples[:0]
	pix := e.framebuffer.Pix

	frameDone := false
	if e.carryCycles > 0 {
		// Cycles the CPU already executed past the previous frame end
		cycles := e.carryCycles
		e.carryCycles = 0
		frameDone = e.vdp.Tick(&cycles, pix)
	}

	for !frameDone {
		budget := e.vdp.CyclesUntilLineEnd()
		executed := e.cpu.StepCycles(budget)

		e.psg.GenerateSamples(executed)
		e.collectSamples()

		cycles := uint32(executed)
		frameDone = e.vdp.Tick(&cycles, pix)
		if frameDone {
			e.carryCycles = cycles
		}

		// The INT line is level-triggered: reflect the VDP state after
		// every slice so status reads de-assert it promptly
		e.cpu.INT(e.vdp.InterruptAsserted(), 0xFF)
	}

	// Convert float32 mono samples to int16 stereo in-place
	// Attenuate by 0.5 to compensate for acoustic summing when both speakers
	// play the same signal (mono duplicated to L+R doubles perceived loudness)
	e.audioBuffer = e.audioBuffer[:0]
	for _, sample := range e.frameSamples {
		intSample := int16(sample * 32767 * 0.5)
		e.audioBuffer = append(e.audioBuffer, intSample, intSample)
	}
}

// collectSamples drains the PSG output buffer into the frame accumulator.
func (e *Emulator) collectSamples() {
	buffer, count := e.psg.GetBuffer()
	if count > 0 {
		e.frameSamples = append(e.frameSamples, buffer[:count]...)
	}
}

// GetAudioSamples returns the int16 stereo samples produced by the last
// RunFrame.
func (e *Emulator) GetAudioSamples() []int16 {
	return e.audioBuffer
}

// SetInput unpacks a button bitmask and sets controller state for the given player.
func (e *Emulator) SetInput(player int, buttons uint32) {
	up := buttons&(1<<emucore.ButtonUp) != 0
	down := buttons&(1<<emucore.ButtonDown) != 0
	left := buttons&(1<<emucore.ButtonLeft) != 0
	right := buttons&(1<<emucore.ButtonRight) != 0
	btn1 := buttons&(1<<4) != 0
	btn2 := buttons&(1<<5) != 0

	switch player {
	case 0:
		e.io.Input.SetP1(up, down, left, right, btn1, btn2)
		startNow := buttons&(1<<7) != 0
		if e.console == ConsoleGG {
			// Game Gear Start is a normal input line, not a pause NMI
			e.io.Input.SetStart(startNow)
		} else {
			// Edge detect pause (bit 7): trigger NMI on press (0->1)
			startPrev := e.prevButtons[0]&(1<<7) != 0
			if startNow && !startPrev {
				e.cpu.NMI()
			}
		}
	case 1:
		e.io.Input.SetP2(up, down, left, right, btn1, btn2)
	}

	if player < 2 {
		e.prevButtons[player] = buttons
	}
}

// GetFramebuffer returns raw RGBA pixel data for the current frame.
// When crop border is enabled on the SMS and the VDP has left column
// blank active, the left 8 pixels are stripped from each row.
func (e *Emulator) GetFramebuffer() []byte {
	if e.console == ConsoleSMS && e.cropBorder && e.vdp.LeftColumnBlankEnabled() {
		srcStride := e.framebuffer.Stride
		dstStride := (ScreenWidth - 8) * 4
		activeHeight := e.vdp.ActiveHeight()
		for y := 0; y < activeHeight; y++ {
			srcOff := y*srcStride + 8*4 // skip 8 pixels
			dstOff := y * dstStride
			copy(e.cropBuffer[dstOff:dstOff+dstStride], e.framebuffer.Pix[srcOff:srcOff+dstStride])
		}
		return e.cropBuffer[:dstStride*activeHeight]
	}
	return e.framebuffer.Pix
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	if e.console == ConsoleSMS && e.cropBorder && e.vdp.LeftColumnBlankEnabled() {
		return (ScreenWidth - 8) * 4
	}
	return e.framebuffer.Stride
}

// GetActiveHeight returns the current active display height in pixels.
func (e *Emulator) GetActiveHeight() int {
	if e.console == ConsoleGG {
		return GameGearHeight
	}
	return e.vdp.ActiveHeight()
}

// GetConsole returns the emulated console type.
func (e *Emulator) GetConsole() Console {
	return e.console
}

// GetRegion returns the emulator's region setting
func (e *Emulator) GetRegion() Region {
	return e.region
}

// GetTiming returns FPS and scanline count for the current region.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.timing.FPS,
		Scanlines: e.timing.Scanlines,
	}
}

// SetRegion updates the emulator's region configuration. The VDP keeps
// its memory and registers; only the frame timing changes.
func (e *Emulator) SetRegion(region Region) {
	if e.console == ConsoleGG {
		region = RegionNTSC
	}
	e.region = region
	e.timing = GetTimingForRegion(region)
	e.vdp.SetTiming(region == RegionPAL)
}

// SetOption applies a core option change identified by key.
func (e *Emulator) SetOption(key string, value string) {
	switch key {
	case "crop_border":
		e.cropBorder = value == "true"
	}
}

// Close releases any resources held by the emulator.
func (e *Emulator) Close() {}

// HasSRAM reports whether the loaded ROM uses battery-backed save.
// SMS/GG cartridges always have 32KB cart RAM available.
func (e *Emulator) HasSRAM() bool {
	return true
}

// GetSRAM returns a copy of the current SRAM contents.
func (e *Emulator) GetSRAM() []byte {
	sram := make([]byte, len(e.mem.cartRAM))
	copy(sram, e.mem.cartRAM[:])
	return sram
}

// SetSRAM loads SRAM contents into the emulator.
func (e *Emulator) SetSRAM(data []byte) {
	copy(e.mem.cartRAM[:], data)
}

// =============================================================================
// Save State Serialization
// =============================================================================

// SerializeSize returns the total size in bytes needed for a save state.
func SerializeSize() int {
	return stateHeaderSize + // magic + version + CRCs
		z80.SerializeSize + // CPU state
		0x2000 + // RAM (8KB)
		0x8000 + // Cart RAM (32KB)
		3 + // bankSlot
		1 + // ramControl
		VDPSerializeSize + // VDP state
		sn76489.SerializeSize + // PSG state
		4 + // carryCycles
		5 // Input ports (3) + ioControl (1) + ggStereo (1)
}

// Serialize creates a save state and returns it as a byte slice.
func (e *Emulator) Serialize() ([]byte, error) {
	data := make([]byte, SerializeSize())

	// Write header
	copy(data[0:10], stateMagic)
	binary.LittleEndian.PutUint16(data[10:12], stateVersion)
	binary.LittleEndian.PutUint32(data[12:16], e.mem.GetROMCRC32())
	// Data CRC is written last

	offset := stateHeaderSize

	e.cpu.Serialize(data[offset:])
	offset += z80.SerializeSize

	offset = e.serializeMemory(data, offset)

	if err := e.vdp.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += VDPSerializeSize

	e.psg.Serialize(data[offset:])
	offset += sn76489.SerializeSize

	binary.LittleEndian.PutUint32(data[offset:], e.carryCycles)
	offset += 4

	e.serializeInput(data, offset)

	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[16:20], dataCRC)

	return data, nil
}

// Deserialize restores emulator state from a save state byte slice.
// Console and region are NOT restored - the current settings are preserved.
func (e *Emulator) Deserialize(data []byte) error {
	if err := e.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize

	e.cpu.Deserialize(data[offset:])
	offset += z80.SerializeSize

	offset = e.deserializeMemory(data, offset)

	if err := e.vdp.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += VDPSerializeSize

	e.psg.Deserialize(data[offset:])
	offset += sn76489.SerializeSize

	e.carryCycles = binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	e.deserializeInput(data, offset)

	return nil
}

// VerifyState checks if a save state is valid without loading it.
func (e *Emulator) VerifyState(data []byte) error {
	if len(data) < SerializeSize() {
		return errors.New("save state too short")
	}

	if string(data[0:10]) != stateMagic {
		return errors.New("invalid save state magic")
	}

	version := binary.LittleEndian.Uint16(data[10:12])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}

	romCRC := binary.LittleEndian.Uint32(data[12:16])
	if romCRC != e.mem.GetROMCRC32() {
		return errors.New("save state is for a different ROM")
	}

	expectedCRC := binary.LittleEndian.Uint32(data[16:20])
	actualCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	if expectedCRC != actualCRC {
		return errors.New("save state data is corrupted")
	}

	return nil
}

// serializeMemory writes Memory state to the data buffer
func (e *Emulator) serializeMemory(data []byte, offset int) int {
	copy(data[offset:], e.mem.ram[:])
	offset += len(e.mem.ram)

	copy(data[offset:], e.mem.cartRAM[:])
	offset += len(e.mem.cartRAM)

	copy(data[offset:], e.mem.bankSlot[:])
	offset += len(e.mem.bankSlot)

	data[offset] = e.mem.ramControl
	offset++

	return offset
}

// deserializeMemory reads Memory state from the data buffer
func (e *Emulator) deserializeMemory(data []byte, offset int) int {
	copy(e.mem.ram[:], data[offset:offset+len(e.mem.ram)])
	offset += len(e.mem.ram)

	copy(e.mem.cartRAM[:], data[offset:offset+len(e.mem.cartRAM)])
	offset += len(e.mem.cartRAM)

	copy(e.mem.bankSlot[:], data[offset:offset+len(e.mem.bankSlot)])
	offset += len(e.mem.bankSlot)

	e.mem.ramControl = data[offset]
	offset++

	return offset
}

// serializeInput writes Input state to the data buffer
func (e *Emulator) serializeInput(data []byte, offset int) int {
	data[offset] = e.io.Input.Port1
	offset++
	data[offset] = e.io.Input.Port2
	offset++
	data[offset] = e.io.Input.Start
	offset++
	data[offset] = e.io.ioControl
	offset++
	data[offset] = e.io.ggStereo
	offset++
	return offset
}

// deserializeInput reads Input state from the data buffer
func (e *Emulator) deserializeInput(data []byte, offset int) int {
	e.io.Input.Port1 = data[offset]
	offset++
	e.io.Input.Port2 = data[offset]
	offset++
	e.io.Input.Start = data[offset]
	offset++
	e.io.ioControl = data[offset]
	offset++
	e.io.ggStereo = data[offset]
	offset++
	return offset
}

// =============================================================================
// MemoryInspector interface
// =============================================================================

// Flat address boundaries for ReadMemory.
const (
	systemRAMStart = 0x0000
	systemRAMEnd   = 0x1FFF
)

// ReadMemory reads from a flat address into buf and returns the number
// of bytes read. Flat address mapping for RetroAchievements:
// 0x0000-0x1FFF -> System RAM (8KB)
func (e *Emulator) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		if cur >= systemRAMStart && cur <= systemRAMEnd {
			buf[i] = e.mem.ram[cur]
			count++
		} else {
			return count
		}
	}
	return count
}

// =============================================================================
// MemoryMapper interface
// =============================================================================

// MemoryMap returns a list of available memory regions with sizes.
func (e *Emulator) MemoryMap() []emucore.MemoryRegion {
	return []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: 0x2000},
		{Type: emucore.MemorySaveRAM, Size: 0x8000},
	}
}

// ReadRegion returns a copy of the specified memory region.
func (e *Emulator) ReadRegion(regionType int) []byte {
	switch regionType {
	case emucore.MemorySystemRAM:
		out := make([]byte, len(e.mem.ram))
		copy(out, e.mem.ram[:])
		return out
	case emucore.MemorySaveRAM:
		return e.GetSRAM()
	default:
		return nil
	}
}

// WriteRegion writes data to the specified memory region.
func (e *Emulator) WriteRegion(regionType int, data []byte) {
	switch regionType {
	case emucore.MemorySystemRAM:
		copy(e.mem.ram[:], data)
	case emucore.MemorySaveRAM:
		e.SetSRAM(data)
	}
}
