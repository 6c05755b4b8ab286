package dataprocessing

import (
	"sort"

	"noshowcli/pkg/contracts/domain"
)

// OverallGroup labels the summary over all records
const OverallGroup = "All"

// Partition splits records into those who attended and those who did not.
// The input is left untouched.
func Partition(records []domain.Appointment) (attended, notAttended []domain.Appointment) {
	for _, rec := range records {
		if rec.NoShow {
			notAttended = append(notAttended, rec)
		} else {
			attended = append(attended, rec)
		}
	}
	return attended, notAttended
}

// GroupKey identifies one cell of a group-by-attendance count table
type GroupKey struct {
	Group  string
	NoShow bool
}

// GroupCounts holds record counts keyed by category value and no-show flag.
// Known groups are always present, even with zero records.
type GroupCounts struct {
	Attribute string
	known     []string
	counts    map[GroupKey]int
}

func newGroupCounts(attribute string, known []string) *GroupCounts {
	return &GroupCounts{
		Attribute: attribute,
		known:     known,
		counts:    make(map[GroupKey]int),
	}
}

// CountBy counts records per keyOf(record) and attendance
func CountBy(records []domain.Appointment, attribute string, known []string, keyOf func(domain.Appointment) string) *GroupCounts {
	gc := newGroupCounts(attribute, known)
	for _, rec := range records {
		gc.counts[GroupKey{Group: keyOf(rec), NoShow: rec.NoShow}]++
	}
	return gc
}

// CountByGender counts records per (gender, no_show)
func CountByGender(records []domain.Appointment) *GroupCounts {
	known := make([]string, len(domain.Genders))
	for i, g := range domain.Genders {
		known[i] = string(g)
	}
	return CountBy(records, domain.ColumnGender, known, func(a domain.Appointment) string {
		return string(a.Gender)
	})
}

// CountByWeekday counts records per (weekday, no_show), Monday first
func CountByWeekday(records []domain.Appointment) *GroupCounts {
	known := make([]string, len(domain.Weekdays))
	for i, d := range domain.Weekdays {
		known[i] = d.String()
	}
	return CountBy(records, domain.ColumnWeekday, known, func(a domain.Appointment) string {
		return a.Weekday.String()
	})
}

// Count returns the number of records in group with the given no-show flag
func (g *GroupCounts) Count(group string, noShow bool) int {
	return g.counts[GroupKey{Group: group, NoShow: noShow}]
}

// Attended returns the number of attended appointments in group
func (g *GroupCounts) Attended(group string) int {
	return g.Count(group, false)
}

// NotAttended returns the number of missed appointments in group
func (g *GroupCounts) NotAttended(group string) int {
	return g.Count(group, true)
}

// Total returns attended plus not attended for group
func (g *GroupCounts) Total(group string) int {
	return g.Attended(group) + g.NotAttended(group)
}

// Ratio returns not_attended / total for group, undefined when empty
func (g *GroupCounts) Ratio(group string) domain.Ratio {
	return domain.NewRatio(g.NotAttended(group), g.Total(group))
}

// Groups lists the known groups in order followed by any other observed
// values sorted by name.
func (g *GroupCounts) Groups() []string {
	groups := append([]string(nil), g.known...)
	seen := make(map[string]bool, len(g.known))
	for _, k := range g.known {
		seen[k] = true
	}

	var extra []string
	for key := range g.counts {
		if !seen[key.Group] {
			seen[key.Group] = true
			extra = append(extra, key.Group)
		}
	}
	sort.Strings(extra)

	return append(groups, extra...)
}

// Summaries returns one summary per group in Groups order
func (g *GroupCounts) Summaries() []domain.GroupSummary {
	groups := g.Groups()
	out := make([]domain.GroupSummary, 0, len(groups))
	for _, group := range groups {
		out = append(out, g.Summary(group))
	}
	return out
}

// Summary returns the attendance summary of one group
func (g *GroupCounts) Summary(group string) domain.GroupSummary {
	return domain.GroupSummary{
		Group:       group,
		Attended:    g.Attended(group),
		NotAttended: g.NotAttended(group),
		Total:       g.Total(group),
		NoShowRatio: g.Ratio(group),
	}
}

// OverallSummary summarizes attendance over every record
func OverallSummary(records []domain.Appointment) domain.GroupSummary {
	gc := CountBy(records, "", []string{OverallGroup}, func(domain.Appointment) string {
		return OverallGroup
	})
	return gc.Summary(OverallGroup)
}

// HighestRatio returns the group with the highest defined no-show ratio,
// or "" when no group has records. Ties go to the earlier group.
func HighestRatio(summaries []domain.GroupSummary) string {
	best := ""
	bestValue := -1.0
	for _, s := range summaries {
		if s.NoShowRatio.Defined && s.NoShowRatio.Value > bestValue {
			best = s.Group
			bestValue = s.NoShowRatio.Value
		}
	}
	return best
}
