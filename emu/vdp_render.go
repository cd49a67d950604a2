package emu

// Screen geometry. The Game Gear LCD shows a window out of the same
// 256-pixel raster.
const (
	ScreenWidth     = 256
	MaxScreenHeight = 224

	GameGearWidth  = 160
	GameGearHeight = 144
	ggFirstLine    = 24 // First raster line visible on the Game Gear LCD
	ggFirstColumn  = 48 // First raster column visible on the Game Gear LCD
)

// Info buffer bit layout. Each entry annotates one pixel of the line
// being staged: the resolved CRAM index (including the sprite-palette
// bank bit), whether an opaque background tile claimed priority, and
// whether a sprite already owns the slot.
const (
	infoPaletteMask = 0x1F
	infoPriority    = 0x40
	infoSprite      = 0x80
)

// Palette scale: 2-bit SMS channel to 8-bit
var smsColorScale = [4]uint8{0, 85, 170, 255}

// Palette scale: 4-bit Game Gear channel to 8-bit
var ggColorScale = func() [16]uint8 {
	var table [16]uint8
	for c := 0; c < 16; c++ {
		table[c] = uint8(c * 255 / 15)
	}
	return table
}()

// backdropEntry returns the info-buffer value for the backdrop: the
// register 7 color index out of the sprite half of CRAM, priority low.
func (v *VDP) backdropEntry() uint8 {
	return 0x10 | (v.register[7] & 0x0F)
}

// scanLine stages one visible line into the info buffer and commits it
// to the caller's frame buffer.
func (v *VDP) scanLine(line int, frame []uint8) {
	if v.register[1]&0x40 == 0 {
		// Display disabled: the whole line shows the backdrop
		backdrop := v.backdropEntry()
		for x := range v.info {
			v.info[x] = backdrop
		}
		v.commitLine(line, frame)
		return
	}

	v.renderBackground(line)
	v.renderSprites(line)

	// Left column blank (register 0 bit 5) masks the first 8 pixels
	if v.register[0]&0x20 != 0 {
		backdrop := v.backdropEntry()
		for x := 0; x < 8; x++ {
			v.info[x] = backdrop
		}
	}

	v.commitLine(line, frame)
}

// renderBackground stages the background plane for a scanline.
func (v *VDP) renderBackground(line int) {
	// Name table base address from register 2:
	// - 192-line mode: (Reg2 & 0x0E) << 10
	// - 224-line mode: bit 1 ignored, OR with 0x0700
	var nameTableBase uint16
	activeHeight := v.ActiveHeight()
	if activeHeight == 192 {
		nameTableBase = uint16(v.register[2]&0x0E) << 10
	} else {
		nameTableBase = (uint16(v.register[2]&0x0C) << 10) | 0x0700
	}

	hScroll := v.register[8]
	vScroll := v.vScrollLatch

	// Top row scroll lock (register 0 bit 6): top 2 tile rows ignore horizontal scroll
	topRowLock := v.register[0]&0x40 != 0
	// Right column scroll lock (register 0 bit 7): right 8 tile columns ignore vertical scroll
	rightColLock := v.register[0]&0x80 != 0

	backdrop := v.backdropEntry()

	for x := 0; x < ScreenWidth; x++ {
		effectiveHScroll := hScroll
		effectiveVScroll := vScroll

		if topRowLock && line < 16 {
			effectiveHScroll = 0
		}
		if rightColLock && x >= 192 {
			effectiveVScroll = 0
		}

		// Vertical wrap: the name table is 28 rows (224 px) in 192-line
		// mode and 32 rows (256 px) in 224-line mode
		var effectiveY uint16
		if activeHeight == 224 {
			effectiveY = (uint16(line) + uint16(effectiveVScroll)) & 0xFF
		} else {
			effectiveY = uint16(line) + uint16(effectiveVScroll)
			if effectiveY >= 224 {
				effectiveY -= 224
			}
		}

		tileRow := effectiveY / 8
		tileLine := effectiveY % 8

		// Horizontal scroll moves the plane right, so the fetch column
		// moves left
		effectiveX := (uint16(x) - uint16(effectiveHScroll)) & 0xFF
		tileCol := effectiveX / 8
		tilePixel := effectiveX % 8

		// 2-byte name table entries, 32 per row:
		// Bits 0-8: pattern index
		// Bit 9: horizontal flip, bit 10: vertical flip
		// Bit 11: palette select, bit 12: priority
		nameTableAddr := nameTableBase + (tileRow*32+tileCol)*2
		entryLo := v.vram[nameTableAddr&0x3FFF]
		entryHi := v.vram[(nameTableAddr+1)&0x3FFF]

		patternIndex := uint16(entryLo) | (uint16(entryHi&0x01) << 8)
		hFlip := (entryHi & 0x02) != 0
		vFlip := (entryHi & 0x04) != 0
		spritePalette := (entryHi & 0x08) != 0
		priority := (entryHi & 0x10) != 0

		patternLine := tileLine
		if vFlip {
			patternLine = 7 - tileLine
		}
		pixelPos := tilePixel
		if hFlip {
			pixelPos = 7 - tilePixel
		}

		// Patterns are 32 bytes: 8 lines x 4 bitplanes
		patternAddr := patternIndex*32 + patternLine*4
		bp0 := v.vram[patternAddr&0x3FFF]
		bp1 := v.vram[(patternAddr+1)&0x3FFF]
		bp2 := v.vram[(patternAddr+2)&0x3FFF]
		bp3 := v.vram[(patternAddr+3)&0x3FFF]

		shift := 7 - pixelPos
		colorIndex := ((bp0 >> shift) & 1) |
			(((bp1 >> shift) & 1) << 1) |
			(((bp2 >> shift) & 1) << 2) |
			(((bp3 >> shift) & 1) << 3)

		if colorIndex == 0 {
			// Transparent background shows the backdrop and never
			// claims priority
			v.info[x] = backdrop
			continue
		}

		entry := colorIndex
		if spritePalette {
			entry |= 0x10
		}
		if priority {
			entry |= infoPriority
		}
		v.info[x] = entry
	}
}

// renderSprites stages the sprite plane for a scanline on top of the
// background already in the info buffer.
func (v *VDP) renderSprites(line int) {
	// Sprite Attribute Table base from register 5 (bits 1-6 x $100)
	satBase := uint16(v.register[5]&0x7E) << 7

	// Sprite height: 8 or 16 pixels (register 1 bit 1)
	spriteHeight := 8
	if v.register[1]&0x02 != 0 {
		spriteHeight = 16
	}

	// Zoomed sprites are 2x size (register 1 bit 0)
	zoom := 1
	zoomShift := 0
	if v.register[1]&0x01 != 0 {
		zoom = 2
		zoomShift = 1
	}
	effectiveHeight := spriteHeight * zoom

	// Sprite pattern base from register 6 (bit 2 selects $0000 or $2000)
	patternBase := uint16(v.register[6]&0x04) << 11

	// Register 0 bit 3 shifts all sprites left by 8 pixels
	spriteShift := 0
	if v.register[0]&0x08 != 0 {
		spriteShift = 8
	}

	activeHeight := v.ActiveHeight()
	drawn := 0

	for i := 0; i < 64; i++ {
		y := int(v.vram[(satBase+uint16(i))&0x3FFF])

		// Y = $D0 terminates the sprite list, but only in 192-line mode
		if activeHeight == 192 && y == 0xD0 {
			break
		}

		// Sprites are displayed one line below their Y coordinate
		spriteY := y + 1
		if line < spriteY || line >= spriteY+effectiveHeight {
			continue
		}

		if drawn == 8 {
			// Ninth matching sprite: overflow, sticky until status read
			v.status |= statusSpriteOverflow
			break
		}
		drawn++

		// X and pattern live at SAT offset +$80 as (X, index) pairs
		satAddr := satBase + 0x80 + uint16(i)*2
		spriteX := int(v.vram[satAddr&0x3FFF]) - spriteShift
		pattern := uint16(v.vram[(satAddr+1)&0x3FFF])

		spriteLine := (line - spriteY) >> zoomShift
		if spriteHeight == 16 {
			// 8x16 sprites ignore pattern bit 0; the bottom half is the
			// next pattern
			pattern &= 0xFE
			if spriteLine >= 8 {
				pattern++
				spriteLine -= 8
			}
		}

		patternAddr := patternBase + pattern*32 + uint16(spriteLine)*4
		bp0 := v.vram[patternAddr&0x3FFF]
		bp1 := v.vram[(patternAddr+1)&0x3FFF]
		bp2 := v.vram[(patternAddr+2)&0x3FFF]
		bp3 := v.vram[(patternAddr+3)&0x3FFF]

		for px := 0; px < 8*zoom; px++ {
			screenX := spriteX + px
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}

			shift := uint(7 - (px >> zoomShift))
			colorIndex := ((bp0 >> shift) & 1) |
				(((bp1 >> shift) & 1) << 1) |
				(((bp2 >> shift) & 1) << 2) |
				(((bp3 >> shift) & 1) << 3)

			// Color 0 is transparent
			if colorIndex == 0 {
				continue
			}

			if v.info[screenX]&infoSprite != 0 {
				// A lower-numbered sprite owns the slot; overlapping
				// opaque pixels set the collision flag
				v.status |= statusSpriteCollide
				continue
			}

			if v.info[screenX]&infoPriority != 0 {
				// Hidden behind a priority background tile, but the
				// slot still counts as sprite-occupied for collision
				v.info[screenX] |= infoSprite
				continue
			}

			// Sprites always use the sprite half of CRAM in Mode 4
			v.info[screenX] = infoSprite | 0x10 | colorIndex
		}
	}
}

// colorAt converts a CRAM index to 8-bit RGB channels.
// SMS: one byte per entry, --BBGGRR, 2 bits per channel.
// Game Gear: little-endian words, ----BBBBGGGGRRRR, 4 bits per channel.
func (v *VDP) colorAt(index uint8) (r, g, b uint8) {
	if v.gameGear {
		lo := v.cram[(uint16(index)*2)&v.cramMask]
		hi := v.cram[(uint16(index)*2+1)&v.cramMask]
		return ggColorScale[lo&0x0F], ggColorScale[lo>>4], ggColorScale[hi&0x0F]
	}
	c := v.cram[index&0x1F]
	return smsColorScale[c&0x03], smsColorScale[(c>>2)&0x03], smsColorScale[(c>>4)&0x03]
}

// commitLine resolves the staged info buffer into RGBA pixels in the
// caller's frame buffer. The Game Gear writes only its LCD window.
func (v *VDP) commitLine(line int, frame []uint8) {
	if v.gameGear {
		if line < ggFirstLine || line >= ggFirstLine+GameGearHeight {
			return
		}
		offset := (line - ggFirstLine) * GameGearWidth * 4
		for x := 0; x < GameGearWidth; x++ {
			r, g, b := v.colorAt(v.info[ggFirstColumn+x] & infoPaletteMask)
			p := offset + x*4
			frame[p] = r
			frame[p+1] = g
			frame[p+2] = b
			frame[p+3] = 0xFF
		}
		return
	}

	offset := line * ScreenWidth * 4
	for x := 0; x < ScreenWidth; x++ {
		r, g, b := v.colorAt(v.info[x] & infoPaletteMask)
		p := offset + x*4
		frame[p] = r
		frame[p+1] = g
		frame[p+2] = b
		frame[p+3] = 0xFF
	}
}

// InfoBuffer exposes the per-scanline staging buffer for inspection.
// Valid for the most recently rendered line.
func (v *VDP) InfoBuffer() []uint8 {
	return v.info[:]
}
