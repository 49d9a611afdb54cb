package vram

// MMU emulates the memory management unit of a Zeal 8-bit Computer as far as
// the window is concerned: a page register, the interrupt enable flag and
// the physical pages behind them. Pages are allocated on first use. An MMU
// is not safe for concurrent use.
type MMU struct {
	pages   [Pages]*[WindowSize]byte
	page    uint8
	enabled bool
}

// NewMMU returns an MMU with page mapped in the window and interrupts
// enabled.
func NewMMU(page uint8) *MMU {
	return &MMU{
		page:    page,
		enabled: true,
	}
}

// Page returns the page currently mapped in the window
func (m *MMU) Page() uint8 {
	return m.page
}

// SetPage maps page in the window
func (m *MMU) SetPage(page uint8) {
	m.page = page
}

// Disable masks interrupts
func (m *MMU) Disable() {
	m.enabled = false
}

// Enable unmasks interrupts
func (m *MMU) Enable() {
	m.enabled = true
}

// InterruptsEnabled reports whether interrupts are currently enabled
func (m *MMU) InterruptsEnabled() bool {
	return m.enabled
}

func (m *MMU) physical(page uint8) []byte {
	if m.pages[page] == nil {
		m.pages[page] = new([WindowSize]byte)
	}
	return m.pages[page][:]
}

// Window returns the bytes visible through the window
func (m *MMU) Window() []byte {
	return m.physical(m.page)
}

// Peek copies len(b) bytes of physical memory starting at addr into b,
// bypassing the window.
func (m *MMU) Peek(addr uint32, b []byte) {
	for i := range b {
		a := addr + uint32(i)
		b[i] = m.physical(Page(a))[a%WindowSize]
	}
}

// Poke copies b into physical memory starting at addr, bypassing the window.
func (m *MMU) Poke(addr uint32, b []byte) {
	for i, v := range b {
		a := addr + uint32(i)
		m.physical(Page(a))[a%WindowSize] = v
	}
}
