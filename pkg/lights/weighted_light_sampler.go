package lights

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/raytrace-testing/pkg/core"
)

// ErrInvalidWeights is returned when light weights cannot form a distribution
var ErrInvalidWeights = errors.New("invalid light weights")

// WeightedLightSampler picks lights with fixed probabilities, independent of the shading point.
// Weights follow the order of the scene's Lights.
type WeightedLightSampler struct {
	lights  []Light
	weights []float64
}

// NewWeightedLightSampler normalizes weights to sum to one. All-zero weights fall back to uniform.
func NewWeightedLightSampler(lights []Light, weights []float64) (*WeightedLightSampler, error) {
	if len(lights) != len(weights) {
		return nil, fmt.Errorf("%w: %d lights but %d weights", ErrInvalidWeights, len(lights), len(weights))
	}

	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: weight %d is negative (%g)", ErrInvalidWeights, i, w)
		}
		total += w
	}

	normalized := make([]float64, len(weights))
	for i, w := range weights {
		if total == 0 {
			normalized[i] = 1 / float64(len(weights))
		} else {
			normalized[i] = w / total
		}
	}
	return &WeightedLightSampler{lights: lights, weights: normalized}, nil
}

// SampleLight implements LightSampler using the cumulative weights
func (s *WeightedLightSampler) SampleLight(point core.Vec3, normal core.Vec3, u float64) (Light, float64, int) {
	if len(s.lights) == 0 {
		return nil, 0, -1
	}

	var cumulative float64
	for i, w := range s.weights {
		cumulative += w
		if u < cumulative {
			return s.lights[i], w, i
		}
	}
	// Rounding can leave the last bucket short of 1
	last := len(s.lights) - 1
	return s.lights[last], s.weights[last], last
}

// GetLightProbability implements LightSampler
func (s *WeightedLightSampler) GetLightProbability(lightIndex int, point core.Vec3, normal core.Vec3) float64 {
	if lightIndex < 0 || lightIndex >= len(s.weights) {
		return 0
	}
	return s.weights[lightIndex]
}

// GetLightCount implements LightSampler
func (s *WeightedLightSampler) GetLightCount() int {
	return len(s.lights)
}

func (s *WeightedLightSampler) String() string {
	if len(s.lights) == 0 {
		return "WeightedLightSampler{no lights}"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "WeightedLightSampler{%d lights:", len(s.lights))
	for i, light := range s.lights {
		fmt.Fprintf(&b, " [%d] %s %.1f%%", i, light.Type(), s.weights[i]*100)
	}
	b.WriteString("}")
	return b.String()
}
