package emu

import "github.com/user-none/go-chip-sn76489"

// Input holds controller state (directly usable as port values)
type Input struct {
	Port1 uint8 // Port $DC - Controller 1 + partial Controller 2
	Port2 uint8 // Port $DD - Controller 2 + misc
	Start uint8 // Game Gear Start button, bit 7 of port $00 (active low)
}

// SMSIO routes Z80 I/O ports to the VDP, PSG and controllers. The same
// decoder serves the Game Gear, which adds ports $00-$06.
type SMSIO struct {
	vdp         *VDP
	psg         *sn76489.SN76489
	Input       *Input
	console     Console
	nationality Nationality
	ioControl   uint8 // Port $3F: TR/TH pin directions and output levels
	ggStereo    uint8 // Game Gear port $06: PSG stereo panning
}

func NewSMSIO(vdp *VDP, psg *sn76489.SN76489, console Console, nationality Nationality) *SMSIO {
	return &SMSIO{
		vdp:         vdp,
		psg:         psg,
		console:     console,
		nationality: nationality,
		Input: &Input{
			Port1: 0xFF, // All buttons released (active low)
			Port2: 0xFF,
			Start: 0x80,
		},
		ggStereo: 0xFF, // Both channels on for all tones
	}
}

func (e *SMSIO) In(addr uint8) uint8 {
	// Game Gear extension ports sit below the normal decode ranges
	if e.console == ConsoleGG && addr <= 0x06 {
		return e.inGameGear(addr)
	}

	// SMS uses partial address decoding
	// Bits 7 and 6 determine the port group, bit 0 determines even/odd
	switch addr & 0xC1 {
	case 0x40: // $40-$7F even: V counter
		return e.vdp.ReadVCounter()
	case 0x41: // $40-$7F odd: H counter
		return e.vdp.ReadHCounter()
	case 0x80: // $80-$BF even: VDP data
		return e.vdp.ReadData()
	case 0x81: // $80-$BF odd: VDP control (status)
		return e.vdp.ReadControl()
	case 0xC0: // $C0-$FF even: I/O port A (controller 1)
		return e.Input.Port1
	case 0xC1: // $C0-$FF odd: I/O port B (controller 2 + misc)
		return e.portB()
	}
	return 0xFF
}

// portB returns port $DD. On export consoles bits 6 and 7 read back the
// TH output levels programmed through port $3F; Japanese consoles read 0.
func (e *SMSIO) portB() uint8 {
	val := e.Input.Port2
	if e.nationality == NationalityExport {
		val = (val & 0x3F) | ((e.ioControl & 0x20) << 1) | (e.ioControl & 0x80)
	} else {
		val &= 0x3F
	}
	return val
}

// inGameGear handles the Game Gear-only ports $00-$06.
func (e *SMSIO) inGameGear(addr uint8) uint8 {
	switch addr {
	case 0x00:
		// Bit 7: Start button (active low), bit 6: export console,
		// low bits unused
		val := e.Input.Start | 0x3F
		if e.nationality == NationalityExport {
			val |= 0x40
		}
		return val
	case 0x01, 0x02, 0x03, 0x04, 0x05:
		// EXT port and serial registers; nothing attached
		return 0x00
	case 0x06:
		return e.ggStereo
	}
	return 0xFF
}

func (e *SMSIO) Out(addr uint8, value uint8) {
	if e.console == ConsoleGG && addr <= 0x06 {
		if addr == 0x06 {
			e.ggStereo = value
		}
		return
	}

	// SMS uses partial address decoding
	switch addr & 0xC1 {
	case 0x01: // $00-$3F odd: I/O port control
		e.writeIOControl(value)
	case 0x40, 0x41: // $40-$7F: PSG
		if e.psg != nil {
			e.psg.Write(value)
		}
	case 0x80: // $80-$BF even: VDP data
		e.vdp.WriteData(value)
	case 0x81: // $80-$BF odd: VDP control
		e.vdp.WriteControl(value)
	}
}

// writeIOControl handles port $3F. A rising edge on either TH output
// level (bit 5: port A, bit 7: port B) latches the VDP H counter; this
// is how light gun games read the beam position.
func (e *SMSIO) writeIOControl(value uint8) {
	risingTH := value &^ e.ioControl & 0xA0
	if risingTH != 0 {
		e.vdp.LatchHCounter()
	}
	e.ioControl = value
}

// IOControl returns the current port $3F value.
func (e *SMSIO) IOControl() uint8 {
	return e.ioControl
}

// SetP1 updates Player 1 controller state
// Port $DC bits (active low - 0 = pressed):
//
//	Bit 0: P1 Up
//	Bit 1: P1 Down
//	Bit 2: P1 Left
//	Bit 3: P1 Right
//	Bit 4: P1 Button 1
//	Bit 5: P1 Button 2
func (i *Input) SetP1(up, down, left, right, btn1, btn2 bool) {
	// Update only P1 bits (0-5), preserve P2 bits (6-7)
	i.Port1 |= 0x3F
	if up {
		i.Port1 &^= 0x01
	}
	if down {
		i.Port1 &^= 0x02
	}
	if left {
		i.Port1 &^= 0x04
	}
	if right {
		i.Port1 &^= 0x08
	}
	if btn1 {
		i.Port1 &^= 0x10
	}
	if btn2 {
		i.Port1 &^= 0x20
	}
}

// SetP2 updates Player 2 controller state
// Port $DC bits 6-7: P2 Up, Down
// Port $DD bits 0-3: P2 Left, Right, Btn1, Btn2
func (i *Input) SetP2(up, down, left, right, btn1, btn2 bool) {
	// Update Port1 bits 6-7 (P2 Up/Down), preserve P1 bits
	i.Port1 |= 0xC0
	if up {
		i.Port1 &^= 0x40
	}
	if down {
		i.Port1 &^= 0x80
	}

	// Update Port2 bits 0-3 (P2 Left/Right/Btn1/Btn2)
	i.Port2 |= 0x0F
	if left {
		i.Port2 &^= 0x01
	}
	if right {
		i.Port2 &^= 0x02
	}
	if btn1 {
		i.Port2 &^= 0x04
	}
	if btn2 {
		i.Port2 &^= 0x08
	}
}

// SetStart updates the Game Gear Start button (active low).
func (i *Input) SetStart(pressed bool) {
	if pressed {
		i.Start = 0x00
	} else {
		i.Start = 0x80
	}
}
