//go:build tinygo

package display

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"machine"
	"tinygo.org/x/drivers/ssd1306"
)

var onColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// OLEDDisplay drives an SSD1306 panel over I2C.
type OLEDDisplay struct {
	dev ssd1306.Device
}

// NewOLEDDisplay configures the I2C bus and the SSD1306 controller.
func NewOLEDDisplay() (*OLEDDisplay, error) {
	if err := machine.I2C0.Configure(machine.I2CConfig{}); err != nil {
		return nil, err
	}

	dev := ssd1306.NewI2C(machine.I2C0)
	dev.Configure(ssd1306.Config{
		Width:    WidthPx,
		Height:   HeightPx,
		Address:  I2CAddress,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	dev.ClearDisplay()

	return &OLEDDisplay{dev: dev}, nil
}

// WriteLines clears the panel and draws the three lines top to bottom
// using a fixed-width bitmap font.
func (o *OLEDDisplay) WriteLines(line1, line2, line3 string) error {
	o.dev.ClearBuffer()

	sink := &pixelSink{dev: &o.dev}
	drawLine(sink, line1, 0)
	drawLine(sink, line2, LineHeightPx)
	drawLine(sink, line3, LineHeightPx*2)

	return o.dev.Display()
}

func drawLine(dst *pixelSink, text string, y int) {
	d := font.Drawer{
		Dst:  dst,
		Src:  &oneColorImage{onColor},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(0, y+basicfont.Face7x13.Height),
	}
	d.DrawString(text)
}

// Close clears the panel on shutdown.
func (o *OLEDDisplay) Close() error {
	o.dev.ClearDisplay()
	return nil
}

// pixelSink adapts ssd1306.Device's SetPixel to the draw.Image
// interface font.Drawer requires.
type pixelSink struct {
	dev *ssd1306.Device
}

func (p *pixelSink) ColorModel() color.Model      { return color.RGBAModel }
func (p *pixelSink) Bounds() image.Rectangle      { return image.Rect(0, 0, WidthPx, HeightPx) }
func (p *pixelSink) At(x, y int) color.Color      { return color.RGBA{} }
func (p *pixelSink) Set(x, y int, c color.Color) {
	r, g, b, a := c.RGBA()
	if a == 0 && r == 0 && g == 0 && b == 0 {
		return
	}
	p.dev.SetPixel(int16(x), int16(y), onColor)
}

// oneColorImage is a 1-bit image.Image stand-in that always returns
// the same color, used as the font.Drawer source.
type oneColorImage struct {
	c color.RGBA
}

func (o *oneColorImage) ColorModel() color.Model { return color.RGBAModel }
func (o *oneColorImage) Bounds() image.Rectangle { return image.Rect(-1e9, -1e9, 1e9, 1e9) }
func (o *oneColorImage) At(x, y int) color.Color { return o.c }
