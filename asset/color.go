package asset

import "image/color"

// RGB565 converts c to the 16-bit color format used by the video board
func RGB565(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	return uint16(r>>11<<11 | g>>10<<5 | b>>11)
}

// Color converts a 16-bit color back to a color.RGBA, replicating the high
// bits into the low bits so that white stays white
func Color(v uint16) color.RGBA {
	r := byte(v >> 11 & 0x1f)
	g := byte(v >> 5 & 0x3f)
	b := byte(v & 0x1f)
	return color.RGBA{
		r<<3 | r>>2,
		g<<2 | g>>4,
		b<<3 | b>>2,
		0xff,
	}
}

// Palette converts a palette of 16-bit colors to a color.Palette
func Palette(colors []uint16) color.Palette {
	p := make(color.Palette, len(colors))
	for i, c := range colors {
		p[i] = Color(c)
	}
	return p
}
