package dosing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/lsi"
)

func TestRecommendBalanced(t *testing.T) {
	result := lsi.Calculate(7.4, 78, 300, 100, 1000)
	require.Equal(t, lsi.Balanced, result.Status())

	recs := Recommend(result, 7.4, 100, 300, 15000, DefaultCostLookup())
	require.Len(t, recs, 1)
	require.Equal(t, None, recs[0].ChemicalType)
	require.Equal(t, 0, recs[0].Priority)
	require.Zero(t, recs[0].QuantityOz)
	require.Equal(t, "—", recs[0].QuantityLabel)
	require.Equal(t, "Water is balanced. No chemical adjustment needed.", recs[0].Instruction)
	require.Equal(t, "none-0", recs[0].ID())
}

func TestRecommendCorrosive(t *testing.T) {
	result := lsi.Calculate(6.8, 78, 200, 80, 1000)
	require.Equal(t, lsi.Corrosive, result.Status())

	recs := Recommend(result, 6.8, 80, 200, 10000, DefaultCostLookup())
	require.NotEmpty(t, recs)
	require.Equal(t, 1, recs[0].Priority)
	require.Equal(t, Base, recs[0].ChemicalType)
	// (7.4 - 6.8) / 0.2 * 6 = 18 oz; float error on the pH delta must not round up to 19.
	require.Equal(t, 18.0, recs[0].QuantityOz)
	require.Equal(t, "1 lb 2 oz", recs[0].QuantityLabel)
	require.Contains(t, recs[0].Instruction, "to raise pH from 6.8 to 7.4")
}

func TestRecommendCorrosiveAllSteps(t *testing.T) {
	result := lsi.Result{LSIValue: -1.2}
	recs := Recommend(result, 7.0, 60, 150, 20000, DefaultCostLookup())

	require.Len(t, recs, 3)
	require.Equal(t, []string{"base-1", "alkalinity-2", "calcium-3"}, ids(recs))

	require.Equal(t, "Sodium Bicarbonate (Baking Soda)", recs[1].ChemicalName)
	require.Equal(t, 96.0, recs[1].QuantityOz) // 2 increments * 24 * 2
	require.Equal(t, "6 lbs", recs[1].QuantityLabel)
	require.Equal(t, "Add 6 lbs of Sodium Bicarbonate to raise alkalinity from 60 to 80 ppm", recs[1].Instruction)

	require.Equal(t, 200.0, recs[2].QuantityOz) // 5 increments * 20 * 2
	require.Equal(t, "1.6 gal", recs[2].QuantityLabel)
	require.Equal(t, "Add 1.6 gal of Calcium Chloride to raise hardness from 150 to 200 ppm", recs[2].Instruction)
}

func TestRecommendScaleForming(t *testing.T) {
	result := lsi.Calculate(8.2, 78, 500, 150, 1000)
	require.Equal(t, lsi.ScaleForming, result.Status())

	recs := Recommend(result, 8.2, 150, 500, 10000, DefaultCostLookup())
	require.Equal(t, 1, recs[0].Priority)
	require.Equal(t, Acid, recs[0].ChemicalType)
	require.Contains(t, recs[0].Instruction, "to lower pH from 8.2 to 7.6")

	// TA correction waits for pH to come down first.
	require.Equal(t, []string{"acid-1", "dilution-2"}, ids(recs))
	require.Zero(t, recs[1].QuantityOz)
	require.Zero(t, recs[1].EstimatedCost())
	require.Equal(t, "Calcium at 500 ppm is too high for chemical correction. Recommend partial drain and fresh water refill to dilute below 400 ppm.", recs[1].Instruction)
}

func TestRecommendScaleFormingAlkalinityAtHalfRate(t *testing.T) {
	result := lsi.Result{LSIValue: 0.8}
	recs := Recommend(result, 7.5, 160, 300, 10000, DefaultCostLookup())

	require.Len(t, recs, 1)
	require.Equal(t, Acid, recs[0].ChemicalType)
	require.Equal(t, 52.0, recs[0].QuantityOz) // 4 increments * 26 * 0.5
	require.Equal(t, "Add 3 lbs 4 oz of Muriatic Acid to lower alkalinity from 160 to 120 ppm, then aerate to restore pH", recs[0].Instruction)
}

func TestRecommendFallbackNudge(t *testing.T) {
	cases := []struct {
		name        string
		lsiValue    float64
		ph, ta, ch  float64
		wantType    ChemicalType
		wantOz      float64
		wantMessage string
	}{
		{
			name:     "corrosive with readings in range",
			lsiValue: -0.5, ph: 7.5, ta: 100, ch: 250,
			wantType: Base, wantOz: 5,
			wantMessage: "Add 5 oz of Soda Ash to nudge pH up slightly. Retest in 4 hours.",
		},
		{
			name:     "scale forming with readings in range",
			lsiValue: 0.5, ph: 7.5, ta: 100, ch: 350,
			wantType: Acid, wantOz: 12,
			wantMessage: "Add 12 oz of Muriatic Acid to nudge pH down slightly. Retest in 4 hours.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs := Recommend(lsi.Result{LSIValue: tc.lsiValue}, tc.ph, tc.ta, tc.ch, 15000, DefaultCostLookup())
			require.Len(t, recs, 1)
			require.Equal(t, tc.wantType, recs[0].ChemicalType)
			require.Equal(t, 1, recs[0].Priority)
			require.Equal(t, tc.wantOz, recs[0].QuantityOz)
			require.Equal(t, tc.wantMessage, recs[0].Instruction)
		})
	}
}

func TestRecommendZeroVolume(t *testing.T) {
	for _, volume := range []float64{0, -20000} {
		recs := Recommend(lsi.Result{LSIValue: -1}, 7.0, 60, 150, volume, DefaultCostLookup())
		require.Len(t, recs, 3)
		require.Equal(t, []string{"base-1", "alkalinity-2", "calcium-3"}, ids(recs))
		for _, rec := range recs {
			require.Zero(t, rec.QuantityOz)
			require.Zero(t, rec.EstimatedCost())
			require.Equal(t, "—", rec.QuantityLabel)
		}
		require.Zero(t, TotalEstimatedCost(recs))
	}
}

func TestRecommendScaleFormingNegativeVolume(t *testing.T) {
	recs := Recommend(lsi.Result{LSIValue: 0.8}, 8.2, 160, 250, -15000, DefaultCostLookup())
	require.NotEmpty(t, recs)
	for _, rec := range recs {
		require.GreaterOrEqual(t, rec.QuantityOz, 0.0)
		require.GreaterOrEqual(t, rec.EstimatedCost(), 0.0)
	}
}

func TestRecommendDropsFloatNoiseBeforeCeiling(t *testing.T) {
	// 0.6 / 0.2 * 26 lands a hair under 78 and 7.4 - 6.8 a hair over 0.6.
	recs := Recommend(lsi.Result{LSIValue: 0.8}, 8.2, 100, 250, 10000, DefaultCostLookup())
	require.Equal(t, 78.0, recs[0].QuantityOz)

	recs = Recommend(lsi.Result{LSIValue: -0.8}, 6.8, 100, 250, 20000, DefaultCostLookup())
	require.Equal(t, 36.0, recs[0].QuantityOz)
}

func TestRecommendEstimatedCost(t *testing.T) {
	costs := NewCostLookup([]InventoryItem{{Name: "House Acid", ChemicalType: Acid, CostPerOz: 0.061}})
	scenarios := [][]Recommendation{
		Recommend(lsi.Result{LSIValue: -1}, 6.9, 50, 120, 18000, costs),
		Recommend(lsi.Result{LSIValue: 1}, 8.1, 200, 600, 18000, costs),
		Recommend(lsi.Result{LSIValue: 0.6}, 7.2, 180, 300, 18000, costs),
	}
	for _, recs := range scenarios {
		var sum float64
		for _, rec := range recs {
			require.InDelta(t, rec.QuantityOz*rec.CostPerOz, rec.EstimatedCost(), 0.001)
			require.Equal(t, rec.QuantityOz, float64(int(rec.QuantityOz)))
			sum += rec.EstimatedCost()
		}
		require.InDelta(t, sum, TotalEstimatedCost(recs), 1e-9)
	}
	require.Equal(t, 0.061, scenarios[1][0].CostPerOz)
}

func TestRecommendIdentityStable(t *testing.T) {
	corrosive := lsi.Calculate(6.8, 78, 200, 80, 1000)
	first := Recommend(corrosive, 6.8, 80, 200, 15000, DefaultCostLookup())
	second := Recommend(corrosive, 6.8, 80, 200, 15000, DefaultCostLookup())
	require.Equal(t, ids(first), ids(second))

	scaling := lsi.Calculate(8.2, 78, 500, 150, 1000)
	other := Recommend(scaling, 8.2, 150, 500, 15000, DefaultCostLookup())
	require.NotEqual(t, first[0].ID(), other[0].ID())
}

func TestRecommendSortedByPriority(t *testing.T) {
	recs := Recommend(lsi.Result{LSIValue: -2}, 6.0, 10, 10, 30000, DefaultCostLookup())
	for i := 1; i < len(recs); i++ {
		require.Less(t, recs[i-1].Priority, recs[i].Priority)
	}
}

func TestRecommendationJSON(t *testing.T) {
	rec := Recommendation{ChemicalName: "Soda Ash (Sodium Carbonate)", ChemicalType: Base, QuantityOz: 10, QuantityLabel: "10 oz", Priority: 1, CostPerOz: 0.09}
	payload, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Equal(t, "base-1", decoded["id"])
	require.InDelta(t, 0.9, decoded["estimatedCost"], 1e-9)

	var back Recommendation
	require.NoError(t, json.Unmarshal(payload, &back))
	require.Equal(t, rec, back)
}

func ids(recs []Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.ID())
	}
	return out
}
