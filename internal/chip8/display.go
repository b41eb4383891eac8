package chip8

// draw XOR-composites a sprite onto the display buffer at (V[x], V[y]).
// The sprite is 8 pixels wide and n pixels tall, read from memory starting
// at the index register, one byte per row, most significant bit first.
// Rows and columns that would overflow the buffer are clipped, not wrapped.
//
// The flag register reports a collision when the composited region no
// longer matches the sprite bits, which is the case exactly when one of the
// covered pixels was already lit before the draw. This intentionally
// differs from the common "lit pixel turned off" rule.
func (m *Machine) draw(x, y, n byte) {
	originX := int(m.V[x])
	originY := int(m.V[y])

	m.V[0xF] = 0
	for row := 0; row < int(n); row++ {
		py := originY + row
		if py >= DisplayHeight {
			break
		}
		bits := m.readMem(m.I + uint16(row))

		for col := 0; col < 8; col++ {
			px := originX + col
			if px >= DisplayWidth {
				break
			}
			bit := bits&(0x80>>col) != 0
			next := m.Display[py][px] != bit // XOR composite
			if next != bit {
				m.V[0xF] = 1
			}
			m.Display[py][px] = next
		}
	}
}
