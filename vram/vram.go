/*
Package vram implements access to the Zeal Video Board memory through the
16 KB window the CPU sees at virtual page 0.

The video memory lives in the physical address space well above anything the
CPU can address directly. To reach it, a page register selects which 16 KB
physical page is visible through the window. The same window normally holds
the code and data of the running program, so every access disables
interrupts, remembers the current page, installs the target page, performs a
bounded copy and then puts everything back.
*/
package vram

const (
	// WindowSize is the size of the window, and of a physical page
	WindowSize = 16 * 1024
	// Pages is the number of physical pages the page register can select
	Pages = 256

	// PhysicalStart is the physical address of the video memory
	PhysicalStart = 0x100000
	// TilesetStart is the physical address of the tileset memory
	TilesetStart = PhysicalStart + 0x10000
	// TilesetSize is the size of the tileset memory, four pages
	TilesetSize = 64 * 1024

	// Offsets within the first video memory page
	Layer0Offset  = 0x0000
	PaletteOffset = 0x0e00
	Layer1Offset  = 0x1000
	SpriteOffset  = 0x2800
	FontOffset    = 0x3000
)

// Page returns the page number of a physical address
func Page(addr uint32) uint8 {
	return uint8(addr / WindowSize)
}
