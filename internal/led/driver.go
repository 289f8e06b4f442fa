package led

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame to hardware. len(rgb) must be 3*N. The
	// slice is not retained.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// Sim discards frames and keeps a little bookkeeping for tests and the
// headless tools.
type Sim struct {
	Frames int
	Lit    int // non-black pixels in the last frame
}

func NewSim() *Sim { return &Sim{} }

func (s *Sim) Write(rgb []byte) error {
	s.Frames++
	s.Lit = 0
	for i := 0; i+2 < len(rgb); i += 3 {
		if rgb[i]|rgb[i+1]|rgb[i+2] != 0 {
			s.Lit++
		}
	}
	return nil
}

func (s *Sim) Close() error { return nil }
