package emu

// ROMInfo contains mapper and region information for a known ROM.
type ROMInfo struct {
	Mapper MapperType
	Region Region
}

// romDatabase maps CRC32 hashes to ROM information. PAL-only releases
// and Codemasters cartridges cannot be told apart from the ROM header,
// so they are listed here. Game Gear ROMs are always NTSC and use the
// Sega mapper; they need no entries.
var romDatabase = map[uint32]ROMInfo{
	// Ace of Aces
	0x887d9f6b: {MapperSega, RegionPAL},
	// Action Fighter (NTSC)
	0xd91b340d: {MapperSega, RegionNTSC},
	// Action Fighter (PAL)
	0x8418f438: {MapperSega, RegionPAL},
	// The Addams Family
	0x72420f38: {MapperSega, RegionPAL},
	// Aerial Assault (NTSC)
	0x15576613: {MapperSega, RegionNTSC},
	// Aerial Assault (PAL)
	0xecf491cf: {MapperSega, RegionPAL},
	// After Burner
	0x1c951f8e: {MapperSega, RegionNTSC},
	// Air Rescue
	0x8b43d21d: {MapperSega, RegionPAL},
	// Aladdin
	0xc8718d40: {MapperSega, RegionPAL},
	// Alex Kidd in Miracle World (NTSC)
	0x50a8e8a7: {MapperSega, RegionNTSC},
	// Alex Kidd in Miracle World (NTSC, alt)
	0xaed9aac4: {MapperSega, RegionNTSC},
	// Alien 3
	0xb618b144: {MapperSega, RegionPAL},
	// Alien Storm
	0x7f30f793: {MapperSega, RegionPAL},
	// Altered Beast
	0xbba2fe98: {MapperSega, RegionNTSC},
	// Assault City
	0x0bd8da96: {MapperSega, RegionPAL},
	// Astro Warrior
	0x299cbb74: {MapperSega, RegionNTSC},
	// Back to the Future Part II
	0xe5ff50d8: {MapperSega, RegionNTSC},
	// Back to the Future Part III
	0x2d48c1d3: {MapperSega, RegionPAL},
	// Basketball Nightmare
	0x4e3ebb55: {MapperSega, RegionPAL},
	// Bonanza Bros.
	0xcaea8002: {MapperSega, RegionPAL},
	// Bram Stoker's Dracula
	0x1b10a951: {MapperSega, RegionPAL},
	// Bubble Bobble (NTSC)
	0xb948752e: {MapperSega, RegionNTSC},
	// Bubble Bobble (PAL)
	0xe843ba7e: {MapperSega, RegionPAL},
	// Buggy Run
	0xb0fc4577: {MapperSega, RegionPAL},
	// California Games
	0xac6009a7: {MapperSega, RegionNTSC},
	// California Games II
	0xc0e25d62: {MapperSega, RegionPAL},
	// Castle of Illusion Starring Mickey Mouse
	0xb9db4282: {MapperSega, RegionNTSC},
	// Championship Hockey
	0x7e5839a0: {MapperSega, RegionPAL},
	// Chase H.Q.
	0x1cdcf415: {MapperSega, RegionPAL},
	// Choplifter (NTSC)
	0xfd981232: {MapperSega, RegionNTSC},
	// Choplifter (PAL)
	0x55f929ce: {MapperSega, RegionPAL},
	// Chuck Rock II: Son of Chuck (PAL)
	0xc30e690a: {MapperSega, RegionPAL},
	// Columns
	0x665fda92: {MapperSega, RegionNTSC},
	// Cool Spot
	0x13ac9023: {MapperSega, RegionPAL},
	// Cosmic Spacehead (Codemasters)
	0x29822980: {MapperCodemasters, RegionPAL},
	// The Cyber Shinobi
	0x1350e4f8: {MapperSega, RegionPAL},
	// Fantastic Dizzy (Codemasters)
	0xb9664ae1: {MapperCodemasters, RegionPAL},
	// Micro Machines (PAL, Codemasters)
	0xa577ce46: {MapperCodemasters, RegionPAL},
	// Micro Machines (NTSC version)
	0xa567a0c6: {MapperCodemasters, RegionNTSC},
	// Out Run
	0xbad0c760: {MapperSega, RegionNTSC},
}
