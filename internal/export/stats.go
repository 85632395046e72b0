package export

import (
	"sort"
	"strconv"

	"supplierhub/models"
)

// Stats summarises the catalog. Averages only count factories that carry the
// field.
type Stats struct {
	Total           int      `json:"total"`
	WithEmail       int      `json:"withEmail"`
	WithWebsite     int      `json:"withWebsite"`
	WithCoordinates int      `json:"withCoordinates"`
	AvgMOQ          float64  `json:"avgMoq"`
	AvgLeadTime     float64  `json:"avgLeadTime"`
	AvgCapacity     float64  `json:"avgCapacity"`
	BySegment       []Bucket `json:"bySegment"`
	ByCity          []Bucket `json:"byCity"`
	ByProvince      []Bucket `json:"byProvince"`
}

type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

func ComputeStats(factories []models.Factory) Stats {
	s := Stats{Total: len(factories)}

	var moq, lead, capacity mean
	segments := map[string]int{}
	cities := map[string]int{}
	provinces := map[string]int{}

	for i := range factories {
		f := &factories[i]
		if f.Email != nil && *f.Email != "" {
			s.WithEmail++
		}
		if f.Website != nil && *f.Website != "" {
			s.WithWebsite++
		}
		if f.HasCoordinates() {
			s.WithCoordinates++
		}
		moq.add(f.MOQ)
		lead.add(f.LeadTimeDays)
		capacity.add(f.MonthlyCapacity)

		segments[orUnknown(f.Segment)]++
		cities[orUnknown(f.City)]++
		provinces[orUnknown(f.Province)]++
	}

	s.AvgMOQ = moq.value()
	s.AvgLeadTime = lead.value()
	s.AvgCapacity = capacity.value()
	s.BySegment = buckets(segments)
	s.ByCity = buckets(cities)
	s.ByProvince = buckets(provinces)
	return s
}

// StatsTable lays the stats out as one two-column table with blank rows
// between sections.
func StatsTable(s Stats) [][]string {
	rows := [][]string{
		{"Metric", "Value"},
		{"Total Factories", strconv.Itoa(s.Total)},
		{"With Email", strconv.Itoa(s.WithEmail)},
		{"With Website", strconv.Itoa(s.WithWebsite)},
		{"With Coordinates", strconv.Itoa(s.WithCoordinates)},
		{"Average MOQ", formatAvg(s.AvgMOQ)},
		{"Average Lead Time (days)", formatAvg(s.AvgLeadTime)},
		{"Average Monthly Capacity", formatAvg(s.AvgCapacity)},
	}
	rows = appendSection(rows, "Segment", s.BySegment)
	rows = appendSection(rows, "City", s.ByCity)
	rows = appendSection(rows, "Province", s.ByProvince)
	return rows
}

func appendSection(rows [][]string, title string, b []Bucket) [][]string {
	rows = append(rows, []string{"", ""}, []string{title, "Count"})
	for _, it := range b {
		rows = append(rows, []string{it.Key, strconv.Itoa(it.Count)})
	}
	return rows
}

type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v *int) {
	if v == nil {
		return
	}
	m.sum += float64(*v)
	m.count++
}

func (m *mean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

func buckets(m map[string]int) []Bucket {
	out := make([]Bucket, 0, len(m))
	for k, v := range m {
		out = append(out, Bucket{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func formatAvg(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
