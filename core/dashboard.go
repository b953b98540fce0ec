package core

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/huangsam/hirefunnel/core/agg"
	"github.com/huangsam/hirefunnel/core/algo"
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// mondayLabelLayout formats the Monday shown in the dashboard header.
const mondayLabelLayout = "January 02, 2006"

// errNoData marks sections left empty because nothing is stored.
var errNoData = errors.New("no interview records in the store; run hirefunnel ingest first")

// dashboardBuilder computes dashboard sections over one loaded dataset.
type dashboardBuilder struct {
	cfg  *contract.Config
	ds   *agg.Dataset
	memo *agg.Memo
	fp   string
	win  agg.Window
	d    *schema.Dashboard
}

// BuildDashboard loads the dataset once and computes the requested sections.
// With no sections, every section plus the week and recruiter cards is built.
func BuildDashboard(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, sections ...schema.Section) (*schema.Dashboard, error) {
	full := len(sections) == 0
	if full {
		sections = schema.AllSections
	}
	for _, s := range sections {
		if _, ok := schema.ValidSections[s]; !ok {
			return nil, &contract.ValidationError{Reason: fmt.Sprintf("unknown section %q", s)}
		}
	}

	now := nowFrom(ctx)
	all, total := loadDataset(ctx, cfg, mgr)
	ds := FilterPeriod(all, cfg.Period, now)

	b := &dashboardBuilder{
		cfg:  cfg,
		ds:   ds,
		memo: newMemo(ctx, cfg, mgr),
		fp:   ds.Fingerprint(),
		win:  ds.Window(cfg.Weeks),
		d: &schema.Dashboard{
			GeneratedAt:  now,
			Weeks:        cfg.Weeks,
			Period:       cfg.Period,
			TotalRecords: total,
		},
	}
	b.d.WeekKeys = b.win.Weeks()
	b.d.LatestWeek = b.win.Latest()
	if latest := ds.LatestTimestamp(); !latest.IsZero() {
		b.d.WeekOf = agg.MondayOf(latest).Format(mondayLabelLayout)
	}

	for _, s := range sections {
		b.section(s)
	}
	if full {
		b.cards()
		b.d.PeriodComparison = ComparePeriods(all, cfg.Period, now)
	}
	return b.d, nil
}

// loadDataset reads every stored event. Read failures are logged and
// degrade to an empty dataset.
func loadDataset(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*agg.Dataset, int) {
	rules := agg.RulesFromConfig(cfg)
	var store contract.EventStore
	if mgr != nil {
		store = mgr.GetEventStore()
	}
	if store == nil {
		contract.LogWarn("Event store unavailable", errors.New("store not initialized"))
		return agg.NewDataset(nil, rules), 0
	}

	events, err := store.LoadEvents(ctx)
	if err != nil {
		contract.LogWarn("Failed to load events", err)
		return agg.NewDataset(nil, rules), 0
	}
	return agg.NewDataset(events, rules), len(events)
}

// newMemo wraps the configured cache store, unless caching is off.
func newMemo(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) *agg.Memo {
	if mgr == nil || shouldSkipCache(ctx) || cfg.CacheBackend == schema.NoneBackend {
		return nil
	}
	cache := mgr.GetCacheStore()
	if cache == nil {
		return nil
	}
	return agg.NewMemo(cache, cfg.CacheTTL)
}

// section computes one section in isolation. Errors and panics mark the
// section unavailable without affecting the others.
func (b *dashboardBuilder) section(s schema.Section) {
	status := schema.SectionStatus{Section: s, Available: true}
	defer func() {
		if r := recover(); r != nil {
			status = schema.SectionStatus{Section: s, Reason: fmt.Sprintf("internal error: %v", r)}
		}
		b.d.Sections = append(b.d.Sections, status)
	}()

	if b.ds.Len() == 0 {
		status = schema.SectionStatus{Section: s, Reason: errNoData.Error()}
		return
	}
	if err := b.compute(s); err != nil {
		status = schema.SectionStatus{Section: s, Reason: err.Error()}
	}
}

// compute fills the dashboard field of one section.
func (b *dashboardBuilder) compute(s schema.Section) error {
	var err error
	switch s {
	case schema.ScreensSection:
		b.d.Screens, err = b.screens(b.win)
	case schema.OnsitesSection:
		b.d.Onsites, err = b.onsites(b.win)
	case schema.ConversionSection:
		b.d.Conversion, err = b.conversion(b.win)
	case schema.OnsitesByRecruiterSection:
		var conv []schema.ConversionMetric
		if conv, err = b.conversion(b.win); err == nil {
			b.d.OnsitesByRecruiter = agg.OnsitesByRecruiterFrom(conv)
		}
	case schema.SourcesSection:
		b.d.Sources, err = memoize(b, "sources", b.win, func() ([]schema.SourceBreakdown, error) {
			return agg.SourceBreakdownIn(b.ds, b.win), nil
		})
	case schema.TimeToHireSection:
		b.d.TimeToHire, err = memoize(b, "time-to-hire", b.win, func() ([]schema.TimeToHire, error) {
			return agg.TimeToHireIn(b.ds, b.win), nil
		})
	case schema.QualitySection:
		b.d.Quality, err = memoize(b, "quality", b.win, func() ([]schema.QualityMetric, error) {
			return agg.QualityMetricIn(b.ds, b.win), nil
		})
	case schema.DetailSection:
		var screens []schema.ScreenMetric
		var conv []schema.ConversionMetric
		if screens, err = b.screens(b.win); err != nil {
			return err
		}
		if conv, err = b.conversion(b.win); err != nil {
			return err
		}
		b.d.Detail = agg.DetailedMetrics(screens, conv)
	case schema.LastWeekSection:
		b.d.LastWeek, err = memoize(b, "last-week", b.ds.Window(1), func() ([]schema.RecruiterPerformance, error) {
			return agg.LastWeekPerformance(b.ds), nil
		})
	default:
		return fmt.Errorf("unknown section %q", s)
	}
	return err
}

func (b *dashboardBuilder) screens(win agg.Window) ([]schema.ScreenMetric, error) {
	return memoize(b, "screens", win, func() ([]schema.ScreenMetric, error) {
		return agg.ScreenMetricsIn(b.ds, win), nil
	})
}

func (b *dashboardBuilder) conversion(win agg.Window) ([]schema.ConversionMetric, error) {
	return memoize(b, "conversion", win, func() ([]schema.ConversionMetric, error) {
		return agg.ConversionMetricsIn(b.ds, win), nil
	})
}

func (b *dashboardBuilder) onsites(win agg.Window) ([]schema.OnsiteVolume, error) {
	return memoize(b, "onsites", win, func() ([]schema.OnsiteVolume, error) {
		return agg.OnsiteVolumeMetricsIn(b.ds, win), nil
	})
}

// memoize keys a computation by the dataset fingerprint, the function name
// and the window weeks.
func memoize[T any](b *dashboardBuilder, fn string, win agg.Window, compute func() (T, error)) (T, error) {
	return agg.Memoize(b.memo, b.fp, fn, []string{win.String()}, compute)
}

// cards builds the week summary and recruiter cards for the latest week
// against the week before it.
func (b *dashboardBuilder) cards() {
	status := schema.SectionStatus{Section: schema.SummarySection, Available: true}
	defer func() {
		if r := recover(); r != nil {
			status = schema.SectionStatus{Section: schema.SummarySection, Reason: fmt.Sprintf("internal error: %v", r)}
		}
		b.d.Sections = append(b.d.Sections, status)
	}()

	if b.ds.Len() == 0 {
		status = schema.SectionStatus{Section: schema.SummarySection, Reason: errNoData.Error()}
		return
	}
	cur, err := b.weekStats(b.ds.Window(1))
	if err != nil {
		status = schema.SectionStatus{Section: schema.SummarySection, Reason: err.Error()}
		return
	}
	prev, err := b.weekStats(b.ds.PreviousWindow(1))
	if err != nil {
		status = schema.SectionStatus{Section: schema.SummarySection, Reason: err.Error()}
		return
	}

	b.d.StarRecruiter = algo.StarRecruiter(cur.screens)
	b.d.Summary = summaryCards(cur, prev)
	b.d.Recruiters = recruiterCards(cur, prev, b.d.StarRecruiter, b.cfg.UseEmojis)
}

// weekStats holds the rows the cards are derived from.
type weekStats struct {
	screens    []schema.ScreenMetric
	onsites    []schema.OnsiteVolume
	conversion []schema.ConversionMetric
}

func (b *dashboardBuilder) weekStats(win agg.Window) (weekStats, error) {
	var ws weekStats
	var err error
	if ws.screens, err = b.screens(win); err != nil {
		return ws, err
	}
	if ws.onsites, err = b.onsites(win); err != nil {
		return ws, err
	}
	ws.conversion, err = b.conversion(win)
	return ws, err
}

func (ws weekStats) totalScreens() float64 {
	total := 0
	for _, r := range ws.screens {
		total += r.TotalScreens
	}
	return float64(total)
}

func (ws weekStats) averagePassRate() float64 {
	rates := make([]float64, len(ws.screens))
	for i, r := range ws.screens {
		rates[i] = r.PassRate
	}
	return mean(rates)
}

func (ws weekStats) totalOnsites() float64 {
	total := 0
	for _, r := range ws.onsites {
		total += r.Candidates
	}
	return float64(total)
}

func (ws weekStats) averageConversion() float64 {
	rates := make([]float64, len(ws.conversion))
	for i, r := range ws.conversion {
		rates[i] = r.Conversion
	}
	return mean(rates)
}

// mean returns the average rounded to one decimal, or 0 for no values.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return contract.RoundTo(sum/float64(len(values)), 1)
}

func summaryCards(cur, prev weekStats) []schema.SummaryCard {
	card := func(label string, value, previous float64, percent bool) schema.SummaryCard {
		return schema.SummaryCard{
			Label:    label,
			Value:    value,
			Previous: previous,
			Delta:    contract.RoundTo(algo.WeekOverWeekDelta(value, previous), 1),
			Percent:  percent,
		}
	}
	return []schema.SummaryCard{
		card("Total Screens", cur.totalScreens(), prev.totalScreens(), false),
		card("Average Pass Rate", cur.averagePassRate(), prev.averagePassRate(), true),
		card("Total Onsites", cur.totalOnsites(), prev.totalOnsites(), false),
		card("Average Conversion", cur.averageConversion(), prev.averageConversion(), true),
	}
}

// recruiterTotals is one recruiter's numbers for a single week.
type recruiterTotals struct {
	screens, onsites     int
	passRate, conversion float64
}

func totalsByRecruiter(ws weekStats) map[string]recruiterTotals {
	out := make(map[string]recruiterTotals)
	for _, r := range ws.screens {
		t := out[r.Recruiter]
		t.screens += r.TotalScreens
		t.passRate = r.PassRate
		out[r.Recruiter] = t
	}
	for _, r := range ws.conversion {
		t, ok := out[r.Recruiter]
		if !ok && r.Onsites == 0 {
			continue
		}
		t.onsites += r.Onsites
		t.conversion = r.Conversion
		out[r.Recruiter] = t
	}
	return out
}

// recruiterCards builds one card per recruiter who screened in the latest week.
func recruiterCards(cur, prev weekStats, star *string, useEmoji bool) []schema.RecruiterCard {
	now := totalsByRecruiter(cur)
	before := totalsByRecruiter(prev)

	names := make([]string, 0, len(cur.screens))
	for _, r := range cur.screens {
		if !slices.Contains(names, r.Recruiter) {
			names = append(names, r.Recruiter)
		}
	}

	cards := make([]schema.RecruiterCard, 0, len(names))
	for _, name := range names {
		c, p := now[name], before[name]
		cards = append(cards, schema.RecruiterCard{
			Recruiter:       name,
			Emoji:           algo.RecruiterEmoji(name, star, useEmoji),
			Star:            star != nil && *star == name,
			Screens:         c.screens,
			ScreensDelta:    algo.WeekOverWeekDelta(c.screens, p.screens),
			PassRate:        c.passRate,
			PassRateDelta:   contract.RoundTo(algo.WeekOverWeekDelta(c.passRate, p.passRate), 1),
			Onsites:         c.onsites,
			OnsitesDelta:    algo.WeekOverWeekDelta(c.onsites, p.onsites),
			Conversion:      c.conversion,
			ConversionDelta: contract.RoundTo(algo.WeekOverWeekDelta(c.conversion, p.conversion), 1),
		})
	}
	return algo.RankRecruiters(cards)
}
