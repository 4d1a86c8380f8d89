package analytics

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/records"
)

// Cities below this loan count are noise in the leaderboards and are
// excluded, matching the live dashboard's behavior.
const cityMinLoans = 20

// Service computes aggregate views over the current portfolio snapshot.
// Every method is a pure function of (snapshot, criteria): no side effects,
// identical output for identical input, safe to call concurrently with an
// in-flight sync because the snapshot reference is immutable.
type Service struct {
	snapshots *records.SnapshotStore
	log       zerolog.Logger
}

// NewService creates a new analytics service
func NewService(snapshots *records.SnapshotStore, log zerolog.Logger) *Service {
	return &Service{
		snapshots: snapshots,
		log:       log.With().Str("service", "analytics").Logger(),
	}
}

// matched returns the subset of the current snapshot satisfying the criteria
func (s *Service) matched(c Criteria) []domain.LoanRecord {
	snap := s.snapshots.Load()
	out := make([]domain.LoanRecord, 0, len(snap.Records))
	for _, rec := range snap.Records {
		if c.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Aggregate computes the full dashboard result for one filter selection
func (s *Service) Aggregate(c Criteria) AggregateResult {
	recs := s.matched(c)
	return AggregateResult{
		KPIs:            computeKPIs(recs),
		DPDDistribution: computeDistribution(recs),
		StateRepayments: computeStateRepayments(recs),
		TimeSeries:      computeTimeSeries(recs),
	}
}

// KPIs computes only the KPI totals for one filter selection
func (s *Service) KPIs(c Criteria) KPITotals {
	return computeKPIs(s.matched(c))
}

// Distribution computes only the DPD bucket distribution
func (s *Service) Distribution(c Criteria) []BucketStat {
	return computeDistribution(s.matched(c))
}

// StateRepayments computes only the per-state repayment sums
func (s *Service) StateRepayments(c Criteria) []StateRepayment {
	return computeStateRepayments(s.matched(c))
}

// TimeSeries computes only the daily rollup
func (s *Service) TimeSeries(c Criteria) []TimePoint {
	return computeTimeSeries(s.matched(c))
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func computeKPIs(recs []domain.LoanRecord) KPITotals {
	kpis := KPITotals{TotalApplications: len(recs)}
	if len(recs) == 0 {
		return kpis
	}

	// Monetary sums accumulate in decimal; float64 addition drifts past the
	// 2-decimal precision the API promises once portfolios get large.
	var sanction, disbursed, repayment, actual, penalty, collected, pending decimal.Decimal
	tickets := make([]float64, 0, len(recs))
	dpds := make([]float64, 0, len(recs))

	for _, rec := range recs {
		sanction = sanction.Add(decimal.NewFromFloat(rec.SanctionAmount))
		disbursed = disbursed.Add(decimal.NewFromFloat(rec.DisbursedAmount))
		repayment = repayment.Add(decimal.NewFromFloat(rec.RepaymentAmount))
		actual = actual.Add(decimal.NewFromFloat(rec.ActualRepaymentAmount))
		penalty = penalty.Add(decimal.NewFromFloat(rec.PenaltyAmount))
		collected = collected.Add(decimal.NewFromFloat(rec.CollectedAmount))
		pending = pending.Add(decimal.NewFromFloat(rec.PendingAmount))

		tickets = append(tickets, rec.SanctionAmount)
		dpds = append(dpds, float64(rec.DPD))
	}

	kpis.SanctionAmount = sanction.Round(2).InexactFloat64()
	kpis.DisbursedAmount = disbursed.Round(2).InexactFloat64()
	kpis.RepaymentAmount = repayment.Round(2).InexactFloat64()
	kpis.ActualRepaymentAmount = actual.Round(2).InexactFloat64()
	kpis.PenaltyAmount = penalty.Round(2).InexactFloat64()
	kpis.CollectedAmount = collected.Round(2).InexactFloat64()
	kpis.PendingAmount = pending.Round(2).InexactFloat64()

	kpis.CollectionRate = collectionRate(kpis.CollectedAmount, kpis.RepaymentAmount)
	kpis.PendingRate = 1 - kpis.CollectionRate

	kpis.AvgTicketSize = round2(stat.Mean(tickets, nil))
	kpis.AvgDPD = round2(stat.Mean(dpds, nil))

	return kpis
}

// collectionRate is collected/due clamped into [0,1]. A portfolio with
// nothing due has a defined rate of 0, not an error; overcollection
// (penalties) saturates at 1 so the pending complement stays in range.
func collectionRate(collected, due float64) float64 {
	if due <= 0 {
		return 0
	}
	rate := collected / due
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}

func computeDistribution(recs []domain.LoanRecord) []BucketStat {
	counts := make(map[domain.DPDBucket]int, len(domain.AllBuckets))
	for _, rec := range recs {
		counts[rec.Bucket()]++
	}

	// Every bucket appears, zero-count ones included; percentages are left
	// unrounded so the four of them sum to 100 within float error
	out := make([]BucketStat, 0, len(domain.AllBuckets))
	for _, bucket := range domain.AllBuckets {
		entry := BucketStat{Bucket: bucket, Count: counts[bucket]}
		if len(recs) > 0 {
			entry.Percentage = float64(entry.Count) / float64(len(recs)) * 100
		}
		out = append(out, entry)
	}
	return out
}

func computeStateRepayments(recs []domain.LoanRecord) []StateRepayment {
	sums := make(map[string]decimal.Decimal)
	for _, rec := range recs {
		sums[rec.State] = sums[rec.State].Add(decimal.NewFromFloat(rec.RepaymentAmount))
	}

	out := make([]StateRepayment, 0, len(sums))
	for state, sum := range sums {
		out = append(out, StateRepayment{State: state, Amount: sum.Round(2).InexactFloat64()})
	}

	// Descending by amount, ties broken by state name for stable output
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].State < out[j].State
	})

	return out
}

func computeTimeSeries(recs []domain.LoanRecord) []TimePoint {
	type daySums struct {
		repayment decimal.Decimal
		collected decimal.Decimal
	}

	days := make(map[string]*daySums)
	for _, rec := range recs {
		key := rec.ApplicationDate.Format(dateFormat)
		sums, ok := days[key]
		if !ok {
			sums = &daySums{}
			days[key] = sums
		}
		sums.repayment = sums.repayment.Add(decimal.NewFromFloat(rec.RepaymentAmount))
		sums.collected = sums.collected.Add(decimal.NewFromFloat(rec.CollectedAmount))
	}

	keys := make([]string, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Only populated days appear; gaps are the renderer's concern
	out := make([]TimePoint, 0, len(keys))
	for _, key := range keys {
		sums := days[key]
		repayment := sums.repayment.Round(2).InexactFloat64()
		collected := sums.collected.Round(2).InexactFloat64()
		out = append(out, TimePoint{
			Date:            key,
			RepaymentAmount: repayment,
			CollectedAmount: collected,
			CollectionRate:  collectionRate(collected, repayment),
		})
	}

	return out
}

// cityAgg accumulates one normalized city's figures
type cityAgg struct {
	collected decimal.Decimal
	repayment decimal.Decimal
	count     int
}

func (s *Service) cityStats(c Criteria) []CityStat {
	groups := make(map[string]*cityAgg)
	for _, rec := range s.matched(c) {
		key := NormalizeCityName(rec.City)
		if key == "" {
			continue
		}
		agg, ok := groups[key]
		if !ok {
			agg = &cityAgg{}
			groups[key] = agg
		}
		agg.collected = agg.collected.Add(decimal.NewFromFloat(rec.CollectedAmount))
		agg.repayment = agg.repayment.Add(decimal.NewFromFloat(rec.RepaymentAmount))
		agg.count++
	}

	out := make([]CityStat, 0, len(groups))
	for city, agg := range groups {
		repayment := agg.repayment.Round(2).InexactFloat64()
		if agg.count < cityMinLoans || repayment <= 0 {
			continue
		}
		collected := agg.collected.Round(2).InexactFloat64()
		out = append(out, CityStat{
			City:                 city,
			CollectedAmount:      collected,
			RepaymentAmount:      repayment,
			UncollectedAmount:    round2(repayment - collected),
			CollectionPercentage: collected / repayment * 100,
			TotalApplications:    agg.count,
		})
	}

	return out
}

// TopCities returns the best-collecting cities by collection percentage
func (s *Service) TopCities(c Criteria, limit int) []CityStat {
	stats := s.cityStats(c)
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].CollectionPercentage != stats[j].CollectionPercentage {
			return stats[i].CollectionPercentage > stats[j].CollectionPercentage
		}
		return stats[i].City < stats[j].City
	})
	return truncCities(stats, limit)
}

// BottomCities returns the worst-collecting cities by collection percentage
func (s *Service) BottomCities(c Criteria, limit int) []CityStat {
	stats := s.cityStats(c)
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].CollectionPercentage != stats[j].CollectionPercentage {
			return stats[i].CollectionPercentage < stats[j].CollectionPercentage
		}
		return stats[i].City < stats[j].City
	})
	return truncCities(stats, limit)
}

func truncCities(stats []CityStat, limit int) []CityStat {
	if limit <= 0 {
		limit = 10
	}
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// Options returns the distinct filter values present in the snapshot
func (s *Service) Options() FilterOptions {
	snap := s.snapshots.Load()

	states := make(map[string]struct{})
	cities := make(map[string]struct{})
	for _, rec := range snap.Records {
		if rec.State != "" {
			states[rec.State] = struct{}{}
		}
		if rec.City != "" {
			cities[rec.City] = struct{}{}
		}
	}

	return FilterOptions{
		States:   sortedKeys(states),
		Cities:   sortedKeys(cities),
		Statuses: []domain.LoanStatus{domain.StatusActive, domain.StatusClosed},
		Buckets:  domain.AllBuckets,
	}
}

// CitiesForState returns the distinct cities within one state, sorted
func (s *Service) CitiesForState(state string) []string {
	snap := s.snapshots.Load()

	cities := make(map[string]struct{})
	for _, rec := range snap.Records {
		if rec.City != "" && strings.EqualFold(rec.State, state) {
			cities[rec.City] = struct{}{}
		}
	}

	return sortedKeys(cities)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NormalizeCityName collapses spelling variants of the same city: trimmed,
// inner whitespace squeezed, title-cased per word.
func NormalizeCityName(raw string) string {
	fields := strings.Fields(strings.ToLower(raw))
	for i, f := range fields {
		r, size := utf8.DecodeRuneInString(f)
		fields[i] = string(unicode.ToUpper(r)) + f[size:]
	}
	return strings.Join(fields, " ")
}
