package dataprocessing

import (
	"math"
	"sort"

	"noshowcli/pkg/contracts/domain"
)

// AgeHistogram counts ages into fixed-width buckets covering [minAge, maxAge].
// Buckets are [minAge, minAge+binWidth-1], ...; the last bucket is cut at
// maxAge so it always includes it. Ages outside the range are not counted.
func AgeHistogram(name string, records []domain.Appointment, binWidth, minAge, maxAge int) domain.Histogram {
	if binWidth < 1 {
		binWidth = 1
	}

	h := domain.Histogram{Name: name, BinWidth: binWidth}
	if maxAge < minAge {
		return h
	}

	for lo := minAge; lo <= maxAge; lo += binWidth {
		hi := lo + binWidth - 1
		if hi > maxAge {
			hi = maxAge
		}
		h.Buckets = append(h.Buckets, domain.Bucket{Lower: lo, Upper: hi})
	}

	for _, rec := range records {
		if rec.Age < minAge || rec.Age > maxAge {
			continue
		}
		h.Buckets[(rec.Age-minAge)/binWidth].Count++
		h.Total++
	}

	return h
}

// AgeValueCounts returns how many records have each age, ascending by age
func AgeValueCounts(records []domain.Appointment) []domain.ValueCount {
	counts := make(map[int]int)
	for _, rec := range records {
		counts[rec.Age]++
	}

	out := make([]domain.ValueCount, 0, len(counts))
	for age, n := range counts {
		out = append(out, domain.ValueCount{Value: age, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// DescribeAges computes count, mean, sample standard deviation, quartiles
// and box plot whiskers of the ages. Quartiles interpolate linearly between
// closest ranks; whiskers reach the most extreme ages within 1.5 IQR of
// the quartiles.
func DescribeAges(name string, records []domain.Appointment) domain.AgeStats {
	stats := domain.AgeStats{Name: name, Count: len(records)}
	if len(records) == 0 {
		return stats
	}

	ages := make([]float64, len(records))
	var sum float64
	for i, rec := range records {
		ages[i] = float64(rec.Age)
		sum += ages[i]
	}
	sort.Float64s(ages)

	n := float64(len(ages))
	stats.Defined = true
	stats.Mean = sum / n

	if len(ages) > 1 {
		var sq float64
		for _, a := range ages {
			d := a - stats.Mean
			sq += d * d
		}
		stats.StdDev = math.Sqrt(sq / (n - 1))
	}

	stats.Min = ages[0]
	stats.Max = ages[len(ages)-1]
	stats.Q1 = quantile(ages, 0.25)
	stats.Median = quantile(ages, 0.5)
	stats.Q3 = quantile(ages, 0.75)

	iqr := stats.Q3 - stats.Q1
	lowFence := stats.Q1 - 1.5*iqr
	highFence := stats.Q3 + 1.5*iqr

	stats.LowerWhisker = stats.Max
	stats.UpperWhisker = stats.Min
	for _, a := range ages {
		if a < lowFence || a > highFence {
			stats.Outliers++
			continue
		}
		if a < stats.LowerWhisker {
			stats.LowerWhisker = a
		}
		if a > stats.UpperWhisker {
			stats.UpperWhisker = a
		}
	}

	return stats
}

// quantile returns the p-quantile of sorted values by linear interpolation
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
