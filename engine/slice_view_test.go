package engine

// Record is an ad-hoc row for tests: string dimensions and numeric measures
// keyed by name.
type Record struct {
	Dimensions map[string]string
	Measures   map[string]float64
}

// SliceView serves []Record through RecordView so engine tests can build
// tables without declaring a domain type and adapter.
type SliceView struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

func NewSliceView(records []Record) RecordView {
	v := &SliceView{records: records}
	dimSeen := make(map[string]bool)
	mesSeen := make(map[string]bool)
	for _, r := range records {
		for k := range r.Dimensions {
			if !dimSeen[k] {
				dimSeen[k] = true
				v.dimKeys = append(v.dimKeys, k)
			}
		}
		for k := range r.Measures {
			if !mesSeen[k] {
				mesSeen[k] = true
				v.mesKeys = append(v.mesKeys, k)
			}
		}
	}
	sortStrings(v.dimKeys)
	sortStrings(v.mesKeys)
	return v
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.records) {
		return 0
	}
	return v.records[i].Measures[key]
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }
