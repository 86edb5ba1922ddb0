package evaluators

import (
	"context"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/strategy/indicators"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

// VolumeProfile treats high-volume price bins as support for longs and as
// resistance for shorts.
type VolumeProfile struct {
	bins  int
	ratio float64
}

// NewVolumeProfile creates the volume profile zone evaluator.
func NewVolumeProfile(t Thresholds) *VolumeProfile {
	return &VolumeProfile{bins: t.VolumeBins, ratio: t.StrongZoneRatio}
}

func (e *VolumeProfile) Name() string { return NameVolumeProfile }

func (e *VolumeProfile) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "Volume", func() (domain.VerdictRecord, error) {
		klines, err := requireKlines(ctx, snap, 1)
		if err != nil {
			return domain.VerdictRecord{}, err
		}
		vp, err := indicators.NewVolumeProfile(klines, e.bins)
		if err != nil {
			return domain.VerdictRecord{}, err
		}

		zones := vp.StrongZones(e.ratio)
		price := domain.LastClose(klines)
		inZone := vp.InZone(price, zones)
		explanation := fmt.Sprintf("Strong Zones: %d | Current Price: %s", len(zones), utils.FormatPrice(price))

		if dir == domain.Long {
			if inZone {
				return verdict(true, explanation+" (Near support)")
			}
			return verdict(false, explanation+" (No strong support)")
		}
		if !inZone {
			return verdict(true, explanation+" (No strong resistance)")
		}
		return verdict(false, explanation+" (Near resistance)")
	})
}
