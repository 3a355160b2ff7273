package render

import (
	"fmt"
	"math"
)

// axisTick is a backend-neutral tick.
type axisTick struct {
	Value float64
	Label string
	Minor bool
}

// niceTicks returns ticks covering [min,max] with a step of 1, 2, 2.5 or 5
// times a power of ten, aiming for about n ticks. The first and last tick
// enclose the data.
func niceTicks(min, max float64, n int) []axisTick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span/step) + 1
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var ticks []axisTick
	for i := 0; ; i++ {
		v := round9(start + float64(i)*bestStep)
		if v > end+bestStep/2 {
			break
		}
		ticks = append(ticks, axisTick{Value: v, Label: formatTick(v, bestStep)})
	}
	return ticks
}

// recallTicks pads the recall extent by 5% on each side (matching the usual
// autoscale margin) before picking nice ticks.
func recallTicks(min, max float64) []axisTick {
	span := max - min
	if span <= 0 {
		span = math.Max(math.Abs(min)*0.1, 0.1)
	}
	return niceTicks(min-span*0.05, max+span*0.05, 6)
}

// decadeTicks returns labeled ticks at every power of ten enclosing
// [min,max] plus unlabeled minor ticks at 2..9 times each decade.
func decadeTicks(min, max float64) []axisTick {
	if !(min > 0) || !(max > 0) {
		return nil
	}
	lo := math.Floor(math.Log10(min))
	hi := math.Ceil(math.Log10(max))
	if hi <= lo {
		hi = lo + 1
	}
	var ticks []axisTick
	for e := lo; e <= hi; e++ {
		v := math.Pow(10, e)
		ticks = append(ticks, axisTick{Value: v, Label: formatDecade(int(e))})
		if e == hi {
			break
		}
		for m := 2; m <= 9; m++ {
			ticks = append(ticks, axisTick{Value: v * float64(m), Minor: true})
		}
	}
	return ticks
}

func majorTicks(ticks []axisTick) []axisTick {
	out := make([]axisTick, 0, len(ticks))
	for _, t := range ticks {
		if !t.Minor {
			out = append(out, t)
		}
	}
	return out
}

func formatTick(v, step float64) string {
	if v == 0 {
		return "0"
	}
	decimals := 0
	if step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
		// 2.5 * 10^k needs one more digit
		if s := step * math.Pow(10, float64(decimals)); math.Abs(s-math.Round(s)) > 1e-9 {
			decimals++
		}
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

// formatDecade labels 10^e: plain digits for 10^-2..10^5, exponent form otherwise.
func formatDecade(e int) string {
	if e >= -2 && e <= 5 {
		return formatTick(math.Pow(10, float64(e)), math.Pow(10, float64(e)))
	}
	return fmt.Sprintf("1e%d", e)
}

func round9(v float64) float64 { return math.Round(v*1e9) / 1e9 }
