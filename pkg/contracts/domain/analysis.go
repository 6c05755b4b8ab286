package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Ratio is a proportion in [0,1] that may be undefined when its
// denominator is zero. Callers must check Defined before using Value.
type Ratio struct {
	Value   float64
	Defined bool
}

// NewRatio returns num/den, or an undefined ratio when den is zero.
func NewRatio(num, den int) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{Value: float64(num) / float64(den), Defined: true}
}

// String formats the ratio with four decimals or "undefined".
func (r Ratio) String() string {
	if !r.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", r.Value)
}

// Percent formats the ratio as a percentage or "undefined".
func (r Ratio) Percent() string {
	if !r.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.2f%%", r.Value*100)
}

// MarshalJSON encodes an undefined ratio as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON decodes null into an undefined ratio.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio{Value: v, Defined: true}
	return nil
}

// GroupSummary holds attendance counts for one category value.
type GroupSummary struct {
	Group       string `json:"group"`
	Attended    int    `json:"attended"`
	NotAttended int    `json:"not_attended"`
	Total       int    `json:"total"`
	NoShowRatio Ratio  `json:"no_show_ratio"`
}

// Bucket is one fixed-width histogram bin covering [Lower, Upper].
type Bucket struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
	Count int `json:"count"`
}

// Label renders the bucket bounds, e.g. "20-24".
func (b Bucket) Label() string {
	if b.Lower == b.Upper {
		return fmt.Sprintf("%d", b.Lower)
	}
	return fmt.Sprintf("%d-%d", b.Lower, b.Upper)
}

// Histogram is a bucketed distribution of an integer attribute.
type Histogram struct {
	Name     string   `json:"name"`
	BinWidth int      `json:"bin_width"`
	Total    int      `json:"total"`
	Buckets  []Bucket `json:"buckets"`
}

// AgeStats are descriptive statistics of ages, in the shape of a box plot.
type AgeStats struct {
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	Defined      bool    `json:"defined"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Q1           float64 `json:"q1"`
	Median       float64 `json:"median"`
	Q3           float64 `json:"q3"`
	Max          float64 `json:"max"`
	LowerWhisker float64 `json:"lower_whisker"`
	UpperWhisker float64 `json:"upper_whisker"`
	Outliers     int     `json:"outliers"`
}

// ValueCount is the frequency of one attribute value.
type ValueCount struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// VariablesAnswer names the variables of the study (research question 1).
type VariablesAnswer struct {
	Dependent   string   `json:"dependent"`
	Independent []string `json:"independent"`
}

// GenderAnswer compares no-shows between genders (research question 2).
type GenderAnswer struct {
	Groups []GroupSummary `json:"groups"`
}

// AgeAnswer describes age distributions by attendance (research question 3).
type AgeAnswer struct {
	Stats      []AgeStats  `json:"stats"`
	Histograms []Histogram `json:"histograms"`
}

// WeekdayAnswer compares no-shows per weekday (research question 4).
type WeekdayAnswer struct {
	Groups []GroupSummary `json:"groups"`
	// HighestNoShow is the weekday with the highest defined ratio, or ""
	// when no weekday has appointments.
	HighestNoShow string `json:"highest_no_show"`
}

// CleaningAudit reports what the cleaning stage removed.
type CleaningAudit struct {
	InputRows   int                   `json:"input_rows"`
	OutputRows  int                   `json:"output_rows"`
	RemovedRows int                   `json:"removed_rows"`
	RemovedBy   map[RemovalReason]int `json:"removed_by"`
	Removals    []Removal             `json:"removals"`
	AgeMin      int                   `json:"age_min"`
	AgeMax      int                   `json:"age_max"`
}

// Analysis is the complete result handed to the reporting layer.
type Analysis struct {
	RunID          string          `json:"run_id"`
	Source         string          `json:"source"`
	GeneratedAt    time.Time       `json:"generated_at"`
	Profile        DataProfile     `json:"profile"`
	Cleaning       CleaningAudit   `json:"cleaning"`
	Overall        GroupSummary    `json:"overall"`
	AgeValueCounts []ValueCount    `json:"age_value_counts"`
	Variables      VariablesAnswer `json:"variables"`
	Gender         GenderAnswer    `json:"gender"`
	Age            AgeAnswer       `json:"age"`
	Weekday        WeekdayAnswer   `json:"weekday"`
}
