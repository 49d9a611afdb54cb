package vram

// Registers is the page select register controlling which physical page is
// visible through the window.
type Registers interface {
	Page() uint8
	SetPage(page uint8)
}

// Interrupts controls delivery of maskable interrupts.
type Interrupts interface {
	Disable()
	Enable()
}

// Hardware is everything an Accessor needs from the machine. Window returns
// the WindowSize bytes currently visible through the window.
type Hardware interface {
	Registers
	Interrupts
	Window() []byte
}

// Mapping is the capability to change what the window maps. Between Select
// and Restore interrupts are disabled.
type Mapping struct {
	regs Registers
	irq  Interrupts
}

// NewMapping returns a Mapping driving the given page register and
// interrupt controller.
func NewMapping(regs Registers, irq Interrupts) *Mapping {
	return &Mapping{
		regs: regs,
		irq:  irq,
	}
}

// Select disables interrupts, maps page into the window and returns the page
// it replaced.
func (m *Mapping) Select(page uint8) uint8 {
	m.irq.Disable()
	previous := m.regs.Page()
	m.regs.SetPage(page)
	return previous
}

// Restore maps previous back into the window and enables interrupts again.
func (m *Mapping) Restore(previous uint8) {
	m.regs.SetPage(previous)
	m.irq.Enable()
}
