package sosi

// KvalitetSummary aggregates the KVALITET blocks of a feature list
type KvalitetSummary struct {
	TotalFeatures        int
	FeaturesWithKvalitet int
	// MethodCounts counts MÅLEMETODE by its source text
	MethodCounts map[string]int
	// VisibilityCounts counts SYNBARHET by its source text
	VisibilityCounts map[string]int
	// AccuracyCount is the number of numeric NØYAKTIGHET values seen
	AccuracyCount int
	MinAccuracy   float64
	AvgAccuracy   float64
	MaxAccuracy   float64
}

// SummarizeKvalitet counts measurement methods and visibility codes and
// reports min, mean and max NØYAKTIGHET. Accuracy statistics are zero when no
// feature has a numeric NØYAKTIGHET.
func SummarizeKvalitet(features []*Feature) KvalitetSummary {
	s := KvalitetSummary{
		TotalFeatures:    len(features),
		MethodCounts:     make(map[string]int),
		VisibilityCounts: make(map[string]int),
	}

	var sum float64
	for _, f := range features {
		if f.Kvalitet == nil {
			continue
		}
		s.FeaturesWithKvalitet++

		if v, ok := f.Kvalitet.Get("MÅLEMETODE"); ok && !v.IsAbsent() {
			s.MethodCounts[v.Text()]++
		}
		if v, ok := f.Kvalitet.Get("SYNBARHET"); ok && !v.IsAbsent() {
			s.VisibilityCounts[v.Text()]++
		}
		v, ok := f.Kvalitet.Get("NØYAKTIGHET")
		if !ok {
			continue
		}
		acc, ok := v.AsNumber()
		if !ok {
			continue
		}
		if s.AccuracyCount == 0 || acc < s.MinAccuracy {
			s.MinAccuracy = acc
		}
		if s.AccuracyCount == 0 || acc > s.MaxAccuracy {
			s.MaxAccuracy = acc
		}
		sum += acc
		s.AccuracyCount++
	}
	if s.AccuracyCount > 0 {
		s.AvgAccuracy = sum / float64(s.AccuracyCount)
	}
	return s
}
