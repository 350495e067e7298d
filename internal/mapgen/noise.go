package mapgen

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Temperature jitter sampling.
const (
	noiseChannels  = 4
	noiseScale     = 0.03
	noiseOctaves   = 3
	noisePersist   = 0.5
	positionFactor = 0.1
)

// temperatureNoise provides four independent normalized noise channels.
// One channel is picked per run to perturb temperatures.
type temperatureNoise struct {
	channels [noiseChannels]opensimplex.Noise
}

func newTemperatureNoise(seed int64) *temperatureNoise {
	n := &temperatureNoise{}
	for i := range n.channels {
		n.channels[i] = opensimplex.NewNormalized(seed + int64(i))
	}
	return n
}

// sample returns a value in [0, 1) for a map-plane position.
func (n *temperatureNoise) sample(channel int, px, pz float64) float64 {
	return octaveNoise(n.channels[channel], px*positionFactor, pz*positionFactor,
		noiseOctaves, noiseScale, noisePersist)
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
