package usecases

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/voltpath/voltpath/internal/core/domain"
)

// stationThemes is the vocabulary for synthetic station names.
var stationThemes = []string{"Highway", "City", "Express", "Green"}

// Synthesizer fabricates placeholder stations along a route when the real
// inventory is too sparse. Placement is fully deterministic (evenly spaced
// polyline indices); only the descriptive attributes come from the seeded
// random source, so tests can pin both by fixing seed and clock.
//
// This is a demo-grade filler generator, not a simulation engine.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSynthesizer creates a Synthesizer with the given seed and time
// source. A nil now defaults to time.Now.
func NewSynthesizer(seed int64, now func() time.Time) *Synthesizer {
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{rng: rand.New(rand.NewSource(seed)), now: now}
}

// Synthesize places n synthetic stations at evenly spaced indices along
// path: step = len(path)/(n+1), indices step, 2*step, ... Every station
// sits exactly on a path vertex. Returns nil when n <= 0 or the path is
// empty.
func (s *Synthesizer) Synthesize(path []domain.GeoPoint, n int) []domain.Station {
	if n <= 0 || len(path) == 0 {
		return nil
	}

	step := len(path) / (n + 1)
	if step < 1 {
		step = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nowMs := s.now().UnixMilli()
	stations := make([]domain.Station, 0, n)
	for i := 1; i <= n; i++ {
		idx := i * step
		if idx >= len(path) {
			break
		}
		theme := stationThemes[s.rng.Intn(len(stationThemes))]
		stations = append(stations, domain.Station{
			ID:   fmt.Sprintf("sim_%d_%d", nowMs, i),
			Name: fmt.Sprintf("EV Station - %s Point %d", theme, s.rng.Intn(100)),
			Location: domain.StationLocation{
				Lat:     path[idx].Lat,
				Lng:     path[idx].Lng,
				Address: "Highway Route Stop (Simulated)",
			},
			CostPerKwh:     float64(15 + s.rng.Intn(10)),
			AvailableSlots: 2 + s.rng.Intn(5),
			IsSynthetic:    true,
		})
	}
	return stations
}
