package filter

const (
	softRadius     = 1
	softBrightness = 1.1
	softContrast   = 0.9
)

// soften runs a separable box blur followed by brightness and contrast
// adjustments. Channels are accumulated in float to keep a single rounding
// step at the end.
func soften(pix []byte, width, height int) []byte {
	n := width * height
	horizontal := make([]float64, n*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum [3]float64
			count := 0
			for dx := -softRadius; dx <= softRadius; dx++ {
				sx := x + dx
				if sx < 0 || sx >= width {
					continue
				}
				idx := (y*width + sx) * 4
				sum[0] += float64(pix[idx])
				sum[1] += float64(pix[idx+1])
				sum[2] += float64(pix[idx+2])
				count++
			}
			dst := (y*width + x) * 3
			for c := 0; c < 3; c++ {
				horizontal[dst+c] = sum[c] / float64(count)
			}
		}
	}

	out := make([]byte, len(pix))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum [3]float64
			count := 0
			for dy := -softRadius; dy <= softRadius; dy++ {
				sy := y + dy
				if sy < 0 || sy >= height {
					continue
				}
				src := (sy*width + x) * 3
				sum[0] += horizontal[src]
				sum[1] += horizontal[src+1]
				sum[2] += horizontal[src+2]
				count++
			}
			idx := (y*width + x) * 4
			for c := 0; c < 3; c++ {
				v := sum[c] / float64(count) * softBrightness
				out[idx+c] = clamp((v-128)*softContrast + 128)
			}
			out[idx+3] = pix[idx+3]
		}
	}
	return out
}
