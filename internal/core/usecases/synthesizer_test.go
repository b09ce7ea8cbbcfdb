package usecases_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/voltpath/voltpath/internal/core/usecases"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestSynthesize_CountAndPlacement(t *testing.T) {
	path := delhiJaipurPath(50)
	synth := usecases.NewSynthesizer(42, fixedClock)

	for n := 1; n <= 4; n++ {
		got := synth.Synthesize(path, n)
		if len(got) != n {
			t.Fatalf("n=%d: expected %d stations, got %d", n, n, len(got))
		}
		step := len(path) / (n + 1)
		for i, st := range got {
			want := path[(i+1)*step]
			if st.Location.Lat != want.Lat || st.Location.Lng != want.Lng {
				t.Errorf("n=%d station %d: location %+v not at path index %d", n, i, st.Location, (i+1)*step)
			}
		}
	}
}

func TestSynthesize_EveryStationOnPath(t *testing.T) {
	path := delhiJaipurPath(17)
	synth := usecases.NewSynthesizer(7, fixedClock)

	onPath := make(map[[2]float64]bool, len(path))
	for _, p := range path {
		onPath[[2]float64{p.Lat, p.Lng}] = true
	}

	for _, st := range synth.Synthesize(path, 3) {
		if !onPath[[2]float64{st.Location.Lat, st.Location.Lng}] {
			t.Errorf("station %s not on a path vertex: %+v", st.ID, st.Location)
		}
	}
}

func TestSynthesize_Attributes(t *testing.T) {
	path := delhiJaipurPath(50)
	synth := usecases.NewSynthesizer(1, fixedClock)

	stations := synth.Synthesize(path, 2)
	wantPrefix := fmt.Sprintf("sim_%d_", fixedClock().UnixMilli())
	for i, st := range stations {
		if !st.IsSynthetic {
			t.Errorf("station %d: IsSynthetic not set", i)
		}
		if !strings.HasPrefix(st.ID, wantPrefix) {
			t.Errorf("station %d: id %q missing clock prefix %q", i, st.ID, wantPrefix)
		}
		if !strings.HasPrefix(st.Name, "EV Station - ") {
			t.Errorf("station %d: unexpected name %q", i, st.Name)
		}
		if st.CostPerKwh < 15 || st.CostPerKwh > 24 {
			t.Errorf("station %d: cost %f out of range", i, st.CostPerKwh)
		}
		if st.AvailableSlots < 2 || st.AvailableSlots > 6 {
			t.Errorf("station %d: slots %d out of range", i, st.AvailableSlots)
		}
		if st.Location.Address != "Highway Route Stop (Simulated)" {
			t.Errorf("station %d: unexpected address %q", i, st.Location.Address)
		}
	}
	if stations[0].ID == stations[1].ID {
		t.Errorf("ids not unique within request: %s", stations[0].ID)
	}
}

func TestSynthesize_SeedDeterminism(t *testing.T) {
	path := delhiJaipurPath(30)

	a := usecases.NewSynthesizer(99, fixedClock).Synthesize(path, 3)
	b := usecases.NewSynthesizer(99, fixedClock).Synthesize(path, 3)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same-seed runs differ: %+v vs %+v", a, b)
	}
}

func TestSynthesize_DegenerateInputs(t *testing.T) {
	synth := usecases.NewSynthesizer(0, fixedClock)
	if got := synth.Synthesize(nil, 2); got != nil {
		t.Errorf("expected nil for empty path, got %+v", got)
	}
	if got := synth.Synthesize(delhiJaipurPath(10), 0); got != nil {
		t.Errorf("expected nil for n=0, got %+v", got)
	}
}
