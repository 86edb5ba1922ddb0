package indicators

import (
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// VolumeProfile distributes traded volume over equal-width close-price bins.
type VolumeProfile struct {
	Edges    []float64 // len(bins)+1 edges, last edge equals the highest close
	BinWidth float64
	Volumes  []float64
	Filled   []bool // a bin is filled when at least one close landed in it
}

// NewVolumeProfile bins each kline's volume by its close. A close belongs to
// bin i when Edges[i] <= close < Edges[i+1], so the highest close lands in no bin.
func NewVolumeProfile(klines []*domain.Kline, bins int) (*VolumeProfile, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("volume profile needs a positive bin count, got %d", bins)
	}
	if len(klines) == 0 {
		return nil, fmt.Errorf("volume profile needs klines: %w", ErrInsufficientData)
	}

	lo, hi := klines[0].Close, klines[0].Close
	for _, k := range klines[1:] {
		if k.Close < lo {
			lo = k.Close
		}
		if k.Close > hi {
			hi = k.Close
		}
	}

	step := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	for i := 0; i < bins; i++ {
		edges[i] = lo + float64(i)*step
	}
	edges[bins] = hi

	vp := &VolumeProfile{
		Edges:    edges,
		BinWidth: edges[1] - edges[0],
		Volumes:  make([]float64, bins),
		Filled:   make([]bool, bins),
	}
	for _, k := range klines {
		for i := 0; i < bins; i++ {
			if edges[i] <= k.Close && k.Close < edges[i+1] {
				vp.Volumes[i] += k.Volume
				vp.Filled[i] = true
				break
			}
		}
	}
	return vp, nil
}

// StrongZones returns the lower edge of every filled bin whose volume is at
// least ratio times the largest bin volume.
func (vp *VolumeProfile) StrongZones(ratio float64) []float64 {
	maxVol, found := 0.0, false
	for i, v := range vp.Volumes {
		if !vp.Filled[i] {
			continue
		}
		if !found || v > maxVol {
			maxVol = v
		}
		found = true
	}
	if !found {
		return nil
	}

	var zones []float64
	for i, v := range vp.Volumes {
		if vp.Filled[i] && v >= maxVol*ratio {
			zones = append(zones, vp.Edges[i])
		}
	}
	return zones
}

// InZone reports whether price lies inside [level, level+BinWidth] for any zone.
func (vp *VolumeProfile) InZone(price float64, zones []float64) bool {
	for _, level := range zones {
		if level <= price && price <= level+vp.BinWidth {
			return true
		}
	}
	return false
}
