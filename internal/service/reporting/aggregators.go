package reporting

import (
	"strings"
	"time"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

// unusableStatuses are bovine states excluded from the live census.
var unusableStatuses = map[string]struct{}{
	"muerto":  {},
	"vendido": {},
}

// groupKey identifies one (dimension, year) group.
type groupKey struct {
	dimension string
	year      int
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Records without a date have no year and are left out of every report.

func pregnancyRows(ultrasounds []models.Ultrasound, loc *time.Location) []models.Reported {
	type tally struct{ positives, total int64 }
	byYear := make(map[int]*tally)

	for _, u := range ultrasounds {
		if !u.HasResult() || u.ExecutionDate.IsZero() {
			continue
		}
		year := u.ExecutionYear(loc)
		t, ok := byYear[year]
		if !ok {
			t = &tally{}
			byYear[year] = t
		}
		t.total++
		if u.IsPositive() {
			t.positives++
		}
	}

	rows := make([]models.Reported, 0, len(byYear))
	for year, t := range byYear {
		rows = append(rows, models.Pregnancy{Year: year, Percentage: percentage(t.positives, t.total)})
	}
	return rows
}

func diseaseRows(illnesses []models.Illness, loc *time.Location) []models.Reported {
	counts := make(map[groupKey]int)
	for _, illness := range illnesses {
		if illness.StartingDate.IsZero() {
			continue
		}
		counts[groupKey{dimension: illness.DiseaseName, year: illness.StartingYear(loc)}]++
	}

	rows := make([]models.Reported, 0, len(counts))
	for key, count := range counts {
		rows = append(rows, models.Disease{Year: key.year, Infections: count, Name: key.dimension})
	}
	return rows
}

// weightRows averages weighings per lower-cased category and year. Weighings
// without a category are ignored; a missing weight counts as zero.
func weightRows(weighings []models.Weighing, loc *time.Location) []models.Reported {
	groups := make(map[groupKey]*runningAverage)
	for _, w := range weighings {
		if blank(w.Category) || w.ExecutionDate.IsZero() {
			continue
		}
		key := groupKey{dimension: strings.ToLower(w.Category), year: w.ExecutionYear(loc)}
		avg, ok := groups[key]
		if !ok {
			avg = &runningAverage{}
			groups[key] = avg
		}
		avg.add(w.WeightSafely())
	}

	rows := make([]models.Reported, 0, len(groups))
	for key, avg := range groups {
		rows = append(rows, models.Weight{Year: key.year, Weight: avg.mean(), Category: key.dimension})
	}
	return rows
}

// batchMembers is a batch with its resolved bovines.
type batchMembers struct {
	name    string
	bovines []models.Bovine
}

// batchWeightRows averages the weighings of every member of each batch per
// year. A missing weight counts as zero.
func batchWeightRows(batches []batchMembers, weighingsByTag map[string][]models.Weighing, loc *time.Location) []models.Reported {
	groups := make(map[groupKey]*runningAverage)
	for _, batch := range batches {
		for _, bovine := range batch.bovines {
			for _, w := range weighingsByTag[bovine.Tag] {
				if w.ExecutionDate.IsZero() {
					continue
				}
				key := groupKey{dimension: batch.name, year: w.ExecutionYear(loc)}
				avg, ok := groups[key]
				if !ok {
					avg = &runningAverage{}
					groups[key] = avg
				}
				avg.add(w.WeightSafely())
			}
		}
	}

	rows := make([]models.Reported, 0, len(groups))
	for key, avg := range groups {
		rows = append(rows, models.BatchWeight{Year: key.year, Weight: avg.mean(), BatchName: key.dimension})
	}
	return rows
}

// foodConsumptionRows sums food per bovine category and year. Feedings whose
// bovine is unknown or has no category are skipped and counted.
func foodConsumptionRows(feedings []models.Feeding, bovines map[string]models.Bovine, loc *time.Location) ([]models.Reported, int) {
	totals := make(map[groupKey]int64)
	skipped := 0
	for _, f := range feedings {
		if f.ExecutionDate.IsZero() {
			continue
		}
		bovine, ok := bovines[f.BovineTag]
		if !ok || blank(bovine.Category) {
			skipped++
			continue
		}
		totals[groupKey{dimension: bovine.Category, year: f.ExecutionYear(loc)}] += f.AmountSafely()
	}

	rows := make([]models.Reported, 0, len(totals))
	for key, total := range totals {
		rows = append(rows, models.FoodConsumption{Year: key.year, FoodEaten: total, Category: key.dimension})
	}
	return rows, skipped
}

// liveCostRows relates feeding spending to weighed kilograms per year. Only
// years with weighings are reported; when all of them lack a weight the cost
// is noWeightCost.
func liveCostRows(weighings []models.Weighing, feedings []models.Feeding, prices map[string]int64, loc *time.Location) []models.Reported {
	weightByYear := make(map[int]int64)
	spendingByYear := make(map[int]int64)

	for _, w := range weighings {
		if w.ExecutionDate.IsZero() {
			continue
		}
		weightByYear[w.ExecutionYear(loc)] += w.WeightSafely()
	}
	for _, f := range feedings {
		if f.ExecutionDate.IsZero() {
			continue
		}
		spendingByYear[f.ExecutionYear(loc)] += f.AmountSafely() * prices[f.Food]
	}

	rows := make([]models.Reported, 0, len(weightByYear))
	for year, weight := range weightByYear {
		spending := spendingByYear[year]
		cost := float64(noWeightCost)
		if weight != 0 {
			cost = ratio(spending, weight, 3)
		}
		rows = append(rows, models.LiveCost{Year: year, LiveWeight: weight, Spending: spending, Cost: cost})
	}
	return rows
}

// liveRows counts usable bovines per category and tagging year.
func liveRows(bovines []models.Bovine, loc *time.Location) []models.Reported {
	counts := make(map[groupKey]int)
	for _, b := range bovines {
		if _, unusable := unusableStatuses[strings.ToLower(b.Status)]; unusable {
			continue
		}
		if blank(b.Category) || b.TaggingDate.IsZero() {
			continue
		}
		counts[groupKey{dimension: b.Category, year: b.TaggingYear(loc)}]++
	}

	rows := make([]models.Reported, 0, len(counts))
	for key, count := range counts {
		rows = append(rows, models.Live{Year: key.year, Count: count, Category: key.dimension})
	}
	return rows
}

// incomeRows emits one row per year with bovine sales. Years that only have
// spending are not reported.
func incomeRows(supplyOps []models.SupplyOperation, bovineOps []models.BovineOperation, prices map[string]int64, loc *time.Location) []models.Reported {
	spendingByYear := make(map[int]int64)
	earningsByYear := make(map[int]int64)

	for _, op := range supplyOps {
		if !op.IsBuy() || op.TransactionDate.IsZero() {
			continue
		}
		spendingByYear[op.TransactionYear(loc)] += op.Amount * prices[op.SupplyName]
	}

	for _, op := range bovineOps {
		if op.TransactionDate.IsZero() {
			continue
		}
		year := op.TransactionYear(loc)
		switch {
		case op.IsBuy():
			spendingByYear[year] += op.Amount
		case op.IsSell():
			earningsByYear[year] += op.Amount
		}
	}

	rows := make([]models.Reported, 0, len(earningsByYear))
	for year, earnings := range earningsByYear {
		rows = append(rows, models.Income{Year: year, Earnings: earnings, Spending: spendingByYear[year]})
	}
	return rows
}
