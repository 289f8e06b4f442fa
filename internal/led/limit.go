package led

import "math"

// Power describes the electrical limits applied to a frame before it goes
// out on the wire.
type Power struct {
	WhiteCap  float64 // max (r+g+b)/(3*255) per LED, 0 or >= 1 disables
	BudgetMA  float64 // global current budget, 0 disables
	ChannelMA float64 // mA per channel at full scale; WS2812 ~= 20
}

// Limit applies the per-LED white cap and then scales the whole frame so
// the estimated current stays within the budget. It returns the estimated
// current in mA after limiting.
func Limit(rgb []byte, p Power) float64 {
	applyWhiteCap(rgb, p.WhiteCap)

	chanMA := p.ChannelMA
	if chanMA <= 0 {
		chanMA = 20
	}
	total := estimateCurrent(rgb, chanMA)
	if p.BudgetMA <= 0 || total <= p.BudgetMA {
		return total
	}
	scale := p.BudgetMA / total
	for i := range rgb {
		rgb[i] = byte(math.Floor(float64(rgb[i]) * scale))
	}
	return estimateCurrent(rgb, chanMA)
}

// estimateCurrent returns estimated mA for the frame.
func estimateCurrent(rgb []byte, chanMA float64) float64 {
	var sum float64
	for _, c := range rgb {
		sum += float64(c)
	}
	return sum / 255.0 * chanMA
}

// applyWhiteCap clamps per-LED RGB so r+g+b <= whiteCap*3*255
func applyWhiteCap(rgb []byte, whiteCap float64) {
	if whiteCap <= 0 || whiteCap >= 1 {
		return
	}
	limit := whiteCap * 3.0 * 255.0
	for i := 0; i+2 < len(rgb); i += 3 {
		s := float64(rgb[i]) + float64(rgb[i+1]) + float64(rgb[i+2])
		if s > limit && s > 0 {
			scale := limit / s
			rgb[i] = byte(math.Floor(float64(rgb[i]) * scale))
			rgb[i+1] = byte(math.Floor(float64(rgb[i+1]) * scale))
			rgb[i+2] = byte(math.Floor(float64(rgb[i+2]) * scale))
		}
	}
}
