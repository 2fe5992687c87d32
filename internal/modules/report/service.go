package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotelpms/internal/domain"
	"hotelpms/internal/repository"
)

const (
	dateLayout   = "2006-01-02"
	maxTrendDays = 366
)

// Service aggregates ledger entries by calendar day in the reporting
// timezone. It never writes.
type Service struct {
	payments *repository.PaymentRepository
	users    *repository.UserRepository
	cal      *now.Config
	clock    func() time.Time
}

func NewService(db *gorm.DB, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		payments: repository.NewPaymentRepository(db),
		users:    repository.NewUserRepository(db),
		cal:      &now.Config{TimeLocation: loc, WeekStartDay: time.Monday},
		clock:    time.Now,
	}
}

func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

func (s *Service) Summary(ctx context.Context, q RangeQuery) (*Summary, error) {
	from, to, err := s.parseRange(q, 0)
	if err != nil {
		return nil, err
	}
	entries, err := s.payments.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load ledger entries: %w", err)
	}

	var total Totals
	for _, e := range entries {
		total.add(e)
	}
	byUser, err := s.byUser(ctx, entries)
	if err != nil {
		return nil, err
	}
	return &Summary{
		From:             from.Format(dateLayout),
		To:               to.Add(-time.Nanosecond).Format(dateLayout),
		TotalCollection:  total.Collection,
		TotalRefunds:     total.Refunds,
		NetCollection:    total.Collection.Sub(total.Refunds),
		TransactionCount: total.Count,
		ByMode:           byMode(entries),
		ByUser:           byUser,
	}, nil
}

func (s *Service) DailyTransactions(ctx context.Context, q DailyQuery) (*Daily, error) {
	day, err := s.day(q.Date)
	if err != nil {
		return nil, err
	}
	start := s.cal.With(day).BeginningOfDay()
	end := start.AddDate(0, 0, 1)

	entries, err := s.payments.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load ledger entries: %w", err)
	}
	out := &Daily{
		Date:         start.Format(dateLayout),
		Transactions: entries,
		Totals:       zeroTotals(),
		ByMode:       byMode(entries),
	}
	for _, e := range entries {
		out.Totals.add(e)
	}
	return out, nil
}

// PaymentTrends returns one bucket per calendar day in [from, to], including
// days without entries. Without a range it covers the last seven days.
func (s *Service) PaymentTrends(ctx context.Context, q RangeQuery) ([]TrendBucket, error) {
	from, to, err := s.parseRange(q, 6)
	if err != nil {
		return nil, err
	}
	entries, err := s.payments.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load ledger entries: %w", err)
	}

	var buckets []TrendBucket
	index := make(map[string]int)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		index[key] = len(buckets)
		buckets = append(buckets, TrendBucket{Date: key, Totals: zeroTotals()})
	}
	for _, e := range entries {
		key := s.cal.With(e.CreatedAt.In(s.cal.TimeLocation)).BeginningOfDay().Format(dateLayout)
		if i, ok := index[key]; ok {
			buckets[i].add(e)
		}
	}
	return buckets, nil
}

// parseRange resolves an inclusive day range into [start, end) instants.
// Missing bounds default to today and today minus defaultSpan days.
func (s *Service) parseRange(q RangeQuery, defaultSpan int) (time.Time, time.Time, error) {
	to, err := s.day(q.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	var from time.Time
	if q.From == "" {
		from = to.AddDate(0, 0, -defaultSpan)
	} else if from, err = s.day(q.From); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, domain.Invalid("to must not be before from")
	}

	start := s.cal.With(from).BeginningOfDay()
	end := s.cal.With(to).BeginningOfDay().AddDate(0, 0, 1)
	if end.Sub(start) > maxTrendDays*domain.Day {
		return time.Time{}, time.Time{}, domain.Invalid("date range must not exceed %d days", maxTrendDays)
	}
	return start, end, nil
}

// day parses YYYY-MM-DD in the reporting timezone; empty means today.
func (s *Service) day(raw string) (time.Time, error) {
	if raw == "" {
		return s.cal.With(s.clock().In(s.cal.TimeLocation)).BeginningOfDay(), nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	y, m, dd := d.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, s.cal.TimeLocation), nil
}

func (s *Service) byUser(ctx context.Context, entries []domain.PaymentTransaction) ([]UserTotal, error) {
	totals := make(map[int64]*UserTotal)
	for _, e := range entries {
		t, ok := totals[e.UserID]
		if !ok {
			t = &UserTotal{UserID: e.UserID, Totals: zeroTotals()}
			totals[e.UserID] = t
		}
		t.add(e)
	}
	if len(totals) == 0 {
		return []UserTotal{}, nil
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}
	for _, u := range users {
		if t, ok := totals[u.ID]; ok {
			t.UserName = u.Name
		}
	}

	out := make([]UserTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// byMode lists every payment mode, zero rows included, in a stable order.
func byMode(entries []domain.PaymentTransaction) []ModeTotal {
	out := make([]ModeTotal, len(domain.PaymentModes))
	index := make(map[domain.PaymentMode]int, len(domain.PaymentModes))
	for i, m := range domain.PaymentModes {
		out[i] = ModeTotal{Mode: m, Totals: zeroTotals()}
		index[m] = i
	}
	for _, e := range entries {
		i, ok := index[e.PaymentMode]
		if !ok {
			out = append(out, ModeTotal{Mode: e.PaymentMode, Totals: zeroTotals()})
			i = len(out) - 1
			index[e.PaymentMode] = i
		}
		out[i].add(e)
	}
	return out
}

func zeroTotals() Totals {
	return Totals{Collection: decimal.Zero, Refunds: decimal.Zero, Net: decimal.Zero}
}
