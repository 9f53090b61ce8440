package types

import (
	"fmt"
)

// Glyph упаковывает символ и его 24-битный RGB цвет в 32 бита:
//
//	[0:8]  - символ (байт CP437/ASCII)
//	[8:32] - цвет 0xRRGGBB
//
// Ядро только хранит глифы на сущностях и тайлах, распаковывают их клиенты.
type Glyph uint32

const (
	bitsChar  = 8
	bitsColor = 24

	shiftColor = bitsChar

	maskChar  = (1 << bitsChar) - 1
	maskColor = (1 << bitsColor) - 1
)

// MakeGlyph собирает глиф из цвета и символа. Старшие биты colorRGB отбрасываются.
//
//	glyph := MakeGlyph(0xFFA500, 'A') // 0xFFA50041
func MakeGlyph(colorRGB uint32, char byte) Glyph {
	return Glyph((colorRGB&maskColor)<<shiftColor | (uint32(char) & maskChar))
}

// Color возвращает цвет в виде 0xRRGGBB.
func (g Glyph) Color() uint32 {
	return uint32(g>>shiftColor) & maskColor
}

func (g Glyph) Char() byte {
	return byte(g & maskChar)
}

// RGB раскладывает цвет на каналы (в таком виде его ждут терминальные библиотеки).
func (g Glyph) RGB() (r, gr, b int32) {
	c := g.Color()
	return int32(c >> 16 & 0xFF), int32(c >> 8 & 0xFF), int32(c & 0xFF)
}

// String форматирует как "Glyph{char='A', color=#FFA500}". Непечатные символы
// выводятся hex-экранированием.
func (g Glyph) String() string {
	char := g.Char()
	charStr := string([]byte{char})
	if char < 32 || char > 126 {
		charStr = fmt.Sprintf("\\x%02X", char)
	}
	return fmt.Sprintf("Glyph{char='%s', color=%s}", charStr, g.HexColor())
}

func (g Glyph) HexColor() string {
	return fmt.Sprintf("#%06X", g.Color())
}
