package led

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

// Strip pushes frames to any periph display.Drawer: a WS2812 chain behind
// nrzled, or the ANSI terminal preview from periph's screen device.
type Strip struct {
	mu     sync.Mutex
	drawer display.Drawer
	closer func() error
	img    *image.NRGBA
	count  int
}

// NewStrip wraps an already opened drawer of count pixels.
func NewStrip(d display.Drawer, count int) *Strip {
	return &Strip{
		drawer: d,
		img:    image.NewNRGBA(image.Rect(0, 0, count, 1)),
		count:  count,
	}
}

// NewSPI opens the named SPI port ("" picks the first one) and drives a
// WS2812 chain of count LEDs over it.
func NewSPI(dev string, count int, speedHz int) (*Strip, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if speedHz <= 0 {
		speedHz = 2400000
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	port, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", dev, err)
	}
	d, err := NewNRZ(port, count, speedHz)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	s := NewStrip(d, count)
	s.closer = port.Close
	return s, nil
}

// NewNRZ builds the nrzled device on an open port.
func NewNRZ(port spi.Port, count int, speedHz int) (*nrzled.Dev, error) {
	d, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      physic.Frequency(speedHz) * physic.Hertz,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return d, nil
}

// NewConsole renders frames as a row of colored cells in the terminal.
func NewConsole(count int) *Strip {
	return NewStrip(screen.New(count), count)
}

func (s *Strip) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drawer == nil {
		return fmt.Errorf("strip closed")
	}
	if len(rgb) != s.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), s.count)
	}
	for i := 0; i < s.count; i++ {
		s.img.SetNRGBA(i, 0, color.NRGBA{R: rgb[i*3], G: rgb[i*3+1], B: rgb[i*3+2], A: 255})
	}
	return s.drawer.Draw(s.drawer.Bounds(), s.img, image.Point{})
}

func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawer == nil {
		return nil
	}
	err := s.drawer.Halt()
	s.drawer = nil
	if s.closer != nil {
		if cerr := s.closer(); err == nil {
			err = cerr
		}
	}
	return err
}

func (s *Strip) String() string {
	if s.drawer == nil {
		return "strip{closed}"
	}
	return s.drawer.String()
}
