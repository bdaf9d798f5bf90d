package models

import (
	"cmp"
	"slices"
)

// UnboundedYear disables one side of a year range.
const UnboundedYear = -1

// Reported is one row of a yearly report.
type Reported interface {
	ReportYear() int
}

// Dimensioned rows carry a secondary grouping value next to the year.
type Dimensioned interface {
	Reported
	ReportDimension() string
}

// RowOrder compares two rows of the same report.
type RowOrder func(a, b Reported) int

// ByYear orders rows by ascending year only.
func ByYear(a, b Reported) int {
	return cmp.Compare(a.ReportYear(), b.ReportYear())
}

// ByYearThenDimension orders rows by ascending year, then by ascending
// dimension. Rows without a dimension compare as the empty string.
func ByYearThenDimension(a, b Reported) int {
	if c := ByYear(a, b); c != 0 {
		return c
	}
	return cmp.Compare(dimensionOf(a), dimensionOf(b))
}

func dimensionOf(r Reported) string {
	if d, ok := r.(Dimensioned); ok {
		return d.ReportDimension()
	}
	return ""
}

// YearlyReport is the envelope returned for every report type.
type YearlyReport struct {
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Reported    []Reported `json:"reportedList"`

	order RowOrder
}

// NewYearlyReport builds a report whose rows sort with order.
func NewYearlyReport(reportType, description string, order RowOrder, rows []Reported) *YearlyReport {
	if order == nil {
		order = ByYear
	}
	if rows == nil {
		rows = []Reported{}
	}
	return &YearlyReport{
		Type:        reportType,
		Description: description,
		Reported:    rows,
		order:       order,
	}
}

// FilterByYear keeps rows with yearFrom <= year <= yearTo. Either bound set
// to UnboundedYear is ignored.
func (r *YearlyReport) FilterByYear(yearFrom, yearTo int) {
	if yearFrom == UnboundedYear && yearTo == UnboundedYear {
		return
	}

	kept := r.Reported[:0]
	for _, row := range r.Reported {
		year := row.ReportYear()
		if yearFrom != UnboundedYear && year < yearFrom {
			continue
		}
		if yearTo != UnboundedYear && year > yearTo {
			continue
		}
		kept = append(kept, row)
	}
	r.Reported = kept
}

// Sort orders the rows. Rows that compare equal keep their relative order.
func (r *YearlyReport) Sort() {
	order := r.order
	if order == nil {
		order = ByYear
	}
	slices.SortStableFunc(r.Reported, order)
}

// Pregnancy is the share of positive ultrasounds in a year.
type Pregnancy struct {
	Year       int     `json:"year"`
	Percentage float64 `json:"percentage"`
}

func (p Pregnancy) ReportYear() int { return p.Year }

// Disease counts the infections of one disease in a year.
type Disease struct {
	Year       int    `json:"year"`
	Infections int    `json:"infections"`
	Name       string `json:"name"`
}

func (d Disease) ReportYear() int         { return d.Year }
func (d Disease) ReportDimension() string { return d.Name }

// Weight is the average weight of a category in a year.
type Weight struct {
	Year     int    `json:"year"`
	Weight   int64  `json:"weight"`
	Category string `json:"category"`
}

func (w Weight) ReportYear() int         { return w.Year }
func (w Weight) ReportDimension() string { return w.Category }

// BatchWeight is the average weight of the members of a batch in a year.
type BatchWeight struct {
	Year      int    `json:"year"`
	Weight    int64  `json:"weight"`
	BatchName string `json:"batchName"`
}

func (b BatchWeight) ReportYear() int         { return b.Year }
func (b BatchWeight) ReportDimension() string { return b.BatchName }

// FoodConsumption is the food eaten by a category in a year.
type FoodConsumption struct {
	Year      int    `json:"year"`
	FoodEaten int64  `json:"foodEaten"`
	Category  string `json:"category"`
}

func (f FoodConsumption) ReportYear() int         { return f.Year }
func (f FoodConsumption) ReportDimension() string { return f.Category }

// LiveCost relates feeding spending to live weight in a year. Cost is -1
// when no weight was recorded.
type LiveCost struct {
	Year       int     `json:"year"`
	LiveWeight int64   `json:"liveWeight"`
	Spending   int64   `json:"spending"`
	Cost       float64 `json:"cost"`
}

func (l LiveCost) ReportYear() int { return l.Year }

// Live counts the usable animals of a category tagged in a year.
type Live struct {
	Year     int    `json:"year"`
	Count    int    `json:"count"`
	Category string `json:"category"`
}

func (l Live) ReportYear() int         { return l.Year }
func (l Live) ReportDimension() string { return l.Category }

// Income compares sales against spending in a year.
type Income struct {
	Year     int   `json:"year"`
	Earnings int64 `json:"earnings"`
	Spending int64 `json:"spending"`
}

func (i Income) ReportYear() int { return i.Year }
