package emu

import (
	"hash/crc32"
	"path/filepath"
	"strings"

	emucore "github.com/user-none/eblitui/api"
)

// Region is an alias for emucore.Region so internal code compiles unchanged.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// Console selects the modelled hardware: Master System or Game Gear.
// The two share the same VDP core; the Game Gear adds a 64-byte CRAM
// with 12-bit colors and crops the picture to a 160x144 window.
type Console int

const (
	ConsoleSMS Console = iota
	ConsoleGG
)

func (c Console) String() string {
	switch c {
	case ConsoleSMS:
		return "Master System"
	case ConsoleGG:
		return "Game Gear"
	default:
		return "Unknown"
	}
}

// RegionTiming holds timing constants for a specific region
type RegionTiming struct {
	CPUClockHz int // Z80 clock frequency
	Scanlines  int // Total scanlines per frame
	FPS        int // Frames per second
}

// NTSC timing: 3.579545 MHz, 262 scanlines, 60 Hz
var NTSCTiming = RegionTiming{
	CPUClockHz: 3579545,
	Scanlines:  262,
	FPS:        60,
}

// PAL timing: 3.546893 MHz, 313 scanlines, 50 Hz
var PALTiming = RegionTiming{
	CPUClockHz: 3546893,
	Scanlines:  313,
	FPS:        50,
}

// GetTimingForRegion returns the appropriate timing constants
func GetTimingForRegion(r Region) RegionTiming {
	if r == RegionPAL {
		return PALTiming
	}
	return NTSCTiming
}

// DefaultRegion returns the default region (NTSC).
// SMS ROM headers don't distinguish PAL from NTSC for export regions,
// so use the --region flag to specify PAL games. Game Gear hardware is
// NTSC-only.
func DefaultRegion() Region {
	return RegionNTSC
}

// DetectRegionFromROM returns the region for a ROM based on CRC32 lookup.
// Returns (detected region, true) if found in database, (NTSC, false) if not found.
func DetectRegionFromROM(rom []byte) (Region, bool) {
	crc := crc32.ChecksumIEEE(rom)
	if info, ok := romDatabase[crc]; ok {
		return info.Region, true
	}
	return RegionNTSC, false
}

// headerRegionCode reads the region nibble from the "TMR SEGA" header.
// Returns 0 when the header is missing.
func headerRegionCode(rom []byte) uint8 {
	// Header is at $7FF0; need at least $8000 bytes
	if len(rom) < 0x8000 {
		return 0
	}
	if string(rom[0x7FF0:0x7FF8]) != "TMR SEGA" {
		return 0
	}
	// Region code is upper nibble of $7FFF
	return rom[0x7FFF] >> 4
}

// DetectConsoleFromROM determines SMS vs Game Gear from the ROM header.
// Header region codes 5 (GG Japan), 6 (GG Export) and 7 (GG
// International) mark Game Gear cartridges. Headerless ROMs default to
// SMS; use DetectConsoleFromPath when a filename is available.
func DetectConsoleFromROM(rom []byte) Console {
	switch headerRegionCode(rom) {
	case 5, 6, 7:
		return ConsoleGG
	}
	return ConsoleSMS
}

// DetectConsoleFromPath determines the console from a ROM file extension.
func DetectConsoleFromPath(path string) Console {
	if strings.ToLower(filepath.Ext(path)) == ".gg" {
		return ConsoleGG
	}
	return ConsoleSMS
}

// Nationality represents the console nationality (Japanese or Export).
// This is orthogonal to Region (NTSC/PAL): Japanese is always NTSC,
// but Export can be either NTSC (Americas) or PAL (Europe).
type Nationality int

const (
	NationalityExport Nationality = iota // Default
	NationalityJapanese
)

func (n Nationality) String() string {
	switch n {
	case NationalityExport:
		return "Export"
	case NationalityJapanese:
		return "Japanese"
	default:
		return "Unknown"
	}
}

// DetectNationalityFromROM reads the ROM header to determine nationality.
// Returns Export if the header is missing or unrecognizable.
func DetectNationalityFromROM(rom []byte) Nationality {
	switch headerRegionCode(rom) {
	case 3, 5: // SMS Japan, GG Japan
		return NationalityJapanese
	}
	return NationalityExport
}
