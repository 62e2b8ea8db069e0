package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

// parseDensity accepts a preset name or a plain number.
func parseDensity(s string) (float64, error) {
	if d, ok := physics.DensityPreset(strings.ToLower(s)); ok {
		return d, nil
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid density %q: want low, normal, high or a non-negative number", s)
	}
	return d, nil
}

// parseSchedule reads "tick:density" pairs separated by commas.
func parseSchedule(s string) ([]sim.DensityChange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []sim.DensityChange
	for _, part := range strings.Split(s, ",") {
		tickStr, densStr, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid schedule entry %q: want tick:density", part)
		}
		t, err := strconv.Atoi(tickStr)
		if err != nil || t < 1 {
			return nil, fmt.Errorf("invalid schedule tick %q", tickStr)
		}
		d, err := parseDensity(densStr)
		if err != nil {
			return nil, err
		}
		out = append(out, sim.DensityChange{Tick: t, Density: d})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out, nil
}

// paramRange is one "name:lo:hi:n" flag value.
type paramRange struct {
	Name   string
	Lo, Hi float64
	N      int
}

func parseRange(s string) (paramRange, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 4 {
		return paramRange{}, fmt.Errorf("invalid range %q: want name:lo:hi:n", s)
	}
	lo, errLo := strconv.ParseFloat(parts[1], 64)
	hi, errHi := strconv.ParseFloat(parts[2], 64)
	n, errN := strconv.Atoi(parts[3])
	if errLo != nil || errHi != nil || errN != nil || n < 1 {
		return paramRange{}, fmt.Errorf("invalid range %q: want name:lo:hi:n with n >= 1", s)
	}
	return paramRange{Name: parts[0], Lo: lo, Hi: hi, N: n}, nil
}
