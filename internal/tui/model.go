package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oilscope/oilscope/internal/appupdate"
	"github.com/oilscope/oilscope/internal/charts"
	"github.com/oilscope/oilscope/internal/core"
	"github.com/oilscope/oilscope/internal/version"
)

// Slot IDs are stable layout positions; the registry keys chart lifecycles
// on them across refreshes and window changes.
const (
	slotSparkline  = "tank-level"
	slotPriceTrend = "price-trend"
	slotUsageHDD   = "usage-hdd"
	slotScatter    = "usage-scatter"
	slotYoY        = "season-overlay"
)

type refreshDoneMsg struct {
	seq       uint64
	snapshots map[core.FeedID]core.FeedSnapshot
}

type tickMsg time.Time

type updateCheckMsg appupdate.Result

// layoutState is shared with the registry's attached predicate; visibility
// changes on resize while installed handles stay registered.
type layoutState struct {
	visible map[string]bool
}

type Model struct {
	engine   *core.Engine
	registry *charts.Registry
	layout   *layoutState

	window       core.TimeWindow
	refreshEvery time.Duration

	width, height int
	ready         bool
	refreshing    bool
	lastRefresh   time.Time
	seq           uint64
	snapshots     map[core.FeedID]core.FeedSnapshot
	update        *appupdate.Result
}

func NewModel(engine *core.Engine, refreshEvery time.Duration) Model {
	layout := &layoutState{visible: make(map[string]bool)}
	registry := charts.NewRegistry(func(slotID string) bool {
		return layout.visible[slotID]
	})

	return Model{
		engine:       engine,
		registry:     registry,
		layout:       layout,
		window:       core.TimeWindow90d,
		refreshEvery: refreshEvery,
		snapshots:    make(map[core.FeedID]core.FeedSnapshot),
	}
}

// Registry exposes the chart registry for teardown and tests.
func (m Model) Registry() *charts.Registry { return m.registry }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.tickCmd(), checkUpdateCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.applyLayout()
		if len(m.snapshots) > 0 {
			// Reuse the last accepted seq: a resize rebuild must not outrank
			// an in-flight refresh that carries newer data.
			m.rebuildCharts(m.seq, m.snapshots)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.registry.RemoveAll()
			return m, tea.Quit
		case "w":
			m.window = core.NextTimeWindow(m.window)
			m.refreshing = true
			return m, m.refreshCmd()
		case "r":
			if !m.refreshing {
				m.refreshing = true
				return m, m.refreshCmd()
			}
		}
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{m.tickCmd()}
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, m.refreshCmd())
		}
		return m, tea.Batch(cmds...)

	case refreshDoneMsg:
		m.refreshing = false
		if msg.seq >= m.seq {
			m.seq = msg.seq
			m.lastRefresh = time.Now()
			m.snapshots = msg.snapshots
		}
		if m.ready {
			// A stale resolve still attempts its installs; the registry
			// rejects them slot by slot.
			m.rebuildCharts(msg.seq, msg.snapshots)
		}
		return m, nil

	case updateCheckMsg:
		result := appupdate.Result(msg)
		if result.UpdateAvailable {
			m.update = &result
		}
		return m, nil
	}

	return m, nil
}

// refreshCmd issues the install sequence number at load start, on the update
// goroutine, and carries it through to the resolve. A refresh that started
// earlier but resolves later then holds the lower seq and loses at install
// time, regardless of completion order.
func (m Model) refreshCmd() tea.Cmd {
	engine, window := m.engine, m.window
	seq := m.registry.NextSeq()
	return func() tea.Msg {
		engine.RefreshAll(context.Background(), window)
		return refreshDoneMsg{seq: seq, snapshots: engine.Snapshots()}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func checkUpdateCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := appupdate.Check(context.Background(), appupdate.CheckOptions{
			CurrentVersion: version.Version,
		})
		if err != nil {
			return updateCheckMsg(appupdate.Result{})
		}
		return updateCheckMsg(result)
	}
}

func (m *Model) applyLayout() {
	m.layout.visible[slotSparkline] = m.height >= 18
	m.layout.visible[slotPriceTrend] = true
	m.layout.visible[slotUsageHDD] = true
	bottomVisible := m.height >= 30 && m.width >= 80
	m.layout.visible[slotScatter] = bottomVisible
	m.layout.visible[slotYoY] = bottomVisible

	w, h := m.chartSize(slotPriceTrend)
	m.registry.ResizeAll(w, h)
}

// rebuildCharts turns one refresh's snapshots into chart widgets under the
// sequence number issued when that refresh started. One seq covers the whole
// pass; an older pass that resolves later carries a lower seq and loses at
// install time instead of clobbering fresher widgets.
func (m *Model) rebuildCharts(seq uint64, snaps map[core.FeedID]core.FeedSnapshot) {
	if snap, ok := snaps[core.FeedPrices]; ok && snap.Status == core.StatusOK {
		desc := charts.PriceTrend(pricePoints(snap.Data.Prices, m.window))
		m.install(slotPriceTrend, seq, desc)
	}

	var hdd []core.TimePoint
	if snap, ok := snaps[core.FeedWeather]; ok && snap.Status == core.StatusOK {
		hdd = core.HDDSeries(snap.Data.Temps)
	}

	var correlation *float64
	if snap, ok := snaps[core.FeedSummary]; ok && snap.Data.Summary != nil {
		correlation = snap.Data.Summary.HDDCorrelation
	}

	if snap, ok := snaps[core.FeedTank]; ok && snap.Status == core.StatusOK {
		readings := snap.Data.Readings
		m.install(slotSparkline, seq, charts.LevelSparkline(readings))

		usage := usagePoints(core.DeriveTankMetrics(readings))
		daily := core.Aggregate(usage, core.GranularityDaily)
		monthly := core.Aggregate(usage, core.GranularityMonthly)

		m.install(slotUsageHDD, seq, charts.UsageVsDemand(daily, hdd))
		m.install(slotScatter, seq, charts.CorrelationScatter(daily, hdd, correlation))
		m.install(slotYoY, seq, charts.YearOverYear(monthly))
	}
}

func (m *Model) install(slotID string, seq uint64, desc charts.ChartDescriptor) {
	w, h := m.chartSize(slotID)
	m.registry.Install(slotID, seq, BuildWidget(desc, w, h))
}

func (m Model) chartSize(slotID string) (int, int) {
	halfW := (m.width-1)/2 - 4
	if halfW < 20 {
		halfW = 20
	}
	rowH := (m.height - 5) / 3
	if rowH < 6 {
		rowH = 6
	}

	if slotID == slotSparkline {
		fullW := m.width - 4
		if fullW < 20 {
			fullW = 20
		}
		return fullW, 3
	}
	return halfW, rowH - 2
}

// usagePoints keeps only clean consumption intervals: fills, anomalies, the
// unstable post-fill window and jitter all drop out before aggregation.
func usagePoints(records []core.DerivedRecord) []core.TimePoint {
	var out []core.TimePoint
	for _, r := range records {
		if r.UsedGallons == nil || r.Negligible || r.Classification != core.ClassNormal {
			continue
		}
		out = append(out, core.TimePoint{Date: r.Timestamp, Value: r.UsedGallons})
	}
	return out
}

// pricePoints forward-fills each vendor series and, on the wide windows,
// compresses it to a mean price per bucket so the trend reads at a glance.
func pricePoints(series []core.VendorSeries, window core.TimeWindow) []core.VendorSeries {
	filled := forwardFilled(series)
	g, compress := priceGranularity(window)
	if !compress {
		return filled
	}

	out := make([]core.VendorSeries, 0, len(filled))
	for _, s := range filled {
		buckets := core.AggregateMean(s.Points, g)
		points := make([]core.TimePoint, 0, len(buckets))
		for _, b := range buckets {
			points = append(points, core.TimePoint{Date: b.PeriodStart, Value: core.Float(b.Usage)})
		}
		out = append(out, core.VendorSeries{Vendor: s.Vendor, Points: points})
	}
	return out
}

func priceGranularity(window core.TimeWindow) (core.Granularity, bool) {
	switch window {
	case core.TimeWindow90d:
		return core.GranularityWeekly, true
	case core.TimeWindow1y:
		return core.GranularityMonthly, true
	default:
		return core.GranularityDaily, false
	}
}

// forwardFilled closes sampling gaps per vendor so trend lines stay
// continuous across days a vendor did not publish.
func forwardFilled(series []core.VendorSeries) []core.VendorSeries {
	out := make([]core.VendorSeries, 0, len(series))
	for _, s := range series {
		if len(s.Points) < 2 {
			out = append(out, s)
			continue
		}
		from := core.Day(s.Points[0].Date)
		to := core.Day(s.Points[len(s.Points)-1].Date)
		out = append(out, core.VendorSeries{
			Vendor: s.Vendor,
			Points: core.ForwardFill(s.Points, from, to),
		})
	}
	return out
}

func (m Model) View() string {
	if !m.ready {
		return dimStyle.Render("Loading…")
	}

	header := m.headerView()
	footer := m.footerView()
	gridH := m.height - 2 - 1

	rows := []PanelRow{
		{Panels: []Panel{{
			Title:   "Tank Level",
			Content: m.sparklinePanel(),
			Span:    2,
			Color:   colorTeal,
		}}, Weight: 1},
		{Panels: []Panel{
			{Title: m.slotTitle(slotPriceTrend, "Vendor Prices"), Content: m.pricePanel(), Color: colorSapphire},
			{Title: m.slotTitle(slotUsageHDD, "Usage vs Heating Demand"), Content: m.widgetView(slotUsageHDD), Color: colorPeach},
		}, Weight: 2},
	}
	if m.layout.visible[slotScatter] {
		rows = append(rows, PanelRow{Panels: []Panel{
			{Title: m.slotTitle(slotScatter, "Usage vs HDD"), Content: m.widgetView(slotScatter), Color: colorGreen},
			{Title: m.slotTitle(slotYoY, "Usage by Season"), Content: m.widgetView(slotYoY), Color: colorYellow},
		}, Weight: 2})
	}

	return header + "\n" + RenderFixedGrid(rows, m.width, gridH) + "\n" + footer
}

func (m Model) headerView() string {
	left := headerBrandStyle.Render("⛽ oilscope") + "  " +
		labelStyle.Render("window: ") + valueStyle.Render(m.window.Label())

	right := ""
	switch {
	case m.refreshing:
		right = dimStyle.Render("refreshing…")
	case !m.lastRefresh.IsZero():
		right = dimStyle.Render("updated " + m.lastRefresh.Format("15:04:05"))
	}
	if m.update != nil {
		right += "  " + headerStyle.Render("update available: "+m.update.LatestVersion)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n" + m.summaryView()
}

func (m Model) summaryView() string {
	var parts []string

	if snap, ok := m.snapshots[core.FeedSummary]; ok && snap.Data.Summary != nil {
		s := snap.Data.Summary
		if s.CurrentGallons != nil {
			parts = append(parts, labelStyle.Render("tank ")+valueStyle.Render(fmt.Sprintf("%.1f gal", *s.CurrentGallons)))
		}
		if s.AvgDailyUsage != nil {
			parts = append(parts, labelStyle.Render("avg/day ")+valueStyle.Render(fmt.Sprintf("%.1f gal", *s.AvgDailyUsage)))
		}
		if s.PredictedEmpty != "" {
			parts = append(parts, labelStyle.Render("empty ~")+valueStyle.Render(s.PredictedEmpty))
		}
		if s.PricePrediction != "" {
			parts = append(parts, labelStyle.Render("prices ")+valueStyle.Render(s.PricePrediction))
		}
	} else if est := m.localDaysToEmpty(); est != nil {
		parts = append(parts, labelStyle.Render("empty ~")+valueStyle.Render(fmt.Sprintf("%.0f days (local est)", *est)))
	}

	if k := m.kFactor(); k != nil {
		parts = append(parts, labelStyle.Render("k ")+valueStyle.Render(fmt.Sprintf("%.2f gal/HDD", *k)))
	}
	if o := m.lastDelivery(); o != nil {
		parts = append(parts, labelStyle.Render("last delivery ")+valueStyle.Render(fmt.Sprintf(
			"%s, %.0f gal @ %s",
			charts.FormatDateLabel(o.Date), o.Gallons, charts.FormatValue(charts.FormatCurrency, o.PricePerGallon))))
	}

	if len(parts) == 0 {
		if snap, ok := m.snapshots[core.FeedSummary]; ok && snap.Status == core.StatusError {
			return errorStyle.Render("summary unavailable: " + snap.Message)
		}
		return dimStyle.Render("waiting for data…")
	}
	return strings.Join(parts, dimStyle.Render("  │  "))
}

// localDaysToEmpty estimates runway from the tank feed when the backend
// summary is unavailable: mean burn rate over clean intervals, applied to the
// latest level.
func (m Model) localDaysToEmpty() *float64 {
	snap, ok := m.snapshots[core.FeedTank]
	if !ok || snap.Status != core.StatusOK || len(snap.Data.Readings) == 0 {
		return nil
	}

	var sum float64
	var n int
	for _, r := range core.DeriveTankMetrics(snap.Data.Readings) {
		if r.BurnRateGalPerHour == nil || r.Negligible || r.Classification != core.ClassNormal {
			continue
		}
		sum += *r.BurnRateGalPerHour
		n++
	}
	if n == 0 {
		return nil
	}
	rate := sum / float64(n)
	latest := snap.Data.Readings[len(snap.Data.Readings)-1].Gallons
	return core.DaysToEmpty(latest, &rate)
}

// kFactor reports gallons burned per heating degree day over the window,
// when both the tank and weather feeds have data to support the ratio.
func (m Model) kFactor() *float64 {
	tank, ok := m.snapshots[core.FeedTank]
	if !ok || tank.Status != core.StatusOK {
		return nil
	}
	weather, ok := m.snapshots[core.FeedWeather]
	if !ok || weather.Status != core.StatusOK {
		return nil
	}

	var totalGallons float64
	for _, p := range usagePoints(core.DeriveTankMetrics(tank.Data.Readings)) {
		totalGallons += *p.Value
	}
	var totalHDD float64
	for _, p := range core.HDDSeries(weather.Data.Temps) {
		if p.Value != nil {
			totalHDD += *p.Value
		}
	}
	if totalGallons <= 0 || totalHDD <= 0 {
		return nil
	}
	k := core.KFactor(totalGallons, totalHDD)
	return &k
}

// lastDelivery picks the most recent oil order for the header readout.
func (m Model) lastDelivery() *core.OilOrder {
	snap, ok := m.snapshots[core.FeedOrders]
	if !ok || snap.Status != core.StatusOK || len(snap.Data.Orders) == 0 {
		return nil
	}
	last := snap.Data.Orders[0]
	for _, o := range snap.Data.Orders[1:] {
		if o.Date.After(last.Date) {
			last = o
		}
	}
	return &last
}

func (m Model) pricePanel() string {
	body := m.widgetView(slotPriceTrend)
	if readout := m.priceReadout(); readout != "" {
		return readout + "\n" + body
	}
	return body
}

// priceReadout shows each vendor's latest quote; with two or more vendors
// every quote is also positioned within the cross-vendor spread.
func (m Model) priceReadout() string {
	snap, ok := m.snapshots[core.FeedPrices]
	if !ok || snap.Status != core.StatusOK {
		return ""
	}

	type quote struct {
		vendor string
		value  float64
	}
	var quotes []quote
	for _, s := range snap.Data.Prices {
		for i := len(s.Points) - 1; i >= 0; i-- {
			if s.Points[i].Value != nil {
				quotes = append(quotes, quote{vendor: s.Vendor, value: *s.Points[i].Value})
				break
			}
		}
	}
	if len(quotes) == 0 {
		return ""
	}

	low, high := quotes[0].value, quotes[0].value
	for _, q := range quotes[1:] {
		if q.value < low {
			low = q.value
		}
		if q.value > high {
			high = q.value
		}
	}

	tooltip := charts.TooltipSpec{Format: charts.FormatCurrency, SpreadPositioned: len(quotes) >= 2}
	parts := make([]string, 0, len(quotes))
	for _, q := range quotes {
		s := valueStyle.Render(tooltip.FormatTooltip(q.vendor, q.value))
		if tooltip.SpreadPositioned {
			s += dimStyle.Render(fmt.Sprintf(" (%.0f%% of spread)", charts.SpreadPosition(low, high, q.value)))
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, dimStyle.Render("  "))
}

func (m Model) sparklinePanel() string {
	if !m.layout.visible[slotSparkline] {
		return dimStyle.Render("terminal too short for the level strip")
	}
	return m.widgetView(slotSparkline)
}

func (m Model) widgetView(slotID string) string {
	handle := m.registry.Handle(slotID)
	if handle == nil {
		if snap, ok := m.feedFor(slotID); ok && snap.Status == core.StatusError {
			return errorStyle.Render(snap.Message)
		}
		return dimStyle.Render("loading…")
	}
	w, ok := handle.(Widget)
	if !ok {
		return ""
	}
	return w.View()
}

func (m Model) slotTitle(slotID, fallback string) string {
	if handle, ok := m.registry.Handle(slotID).(Widget); ok {
		if t := handle.Title(); t != "" {
			return t
		}
	}
	return fallback
}

func (m Model) feedFor(slotID string) (core.FeedSnapshot, bool) {
	var feed core.FeedID
	switch slotID {
	case slotPriceTrend:
		feed = core.FeedPrices
	case slotUsageHDD, slotScatter, slotYoY, slotSparkline:
		feed = core.FeedTank
	default:
		return core.FeedSnapshot{}, false
	}
	snap, ok := m.snapshots[feed]
	return snap, ok
}

func (m Model) footerView() string {
	keys := []struct{ key, desc string }{
		{"w", "window"},
		{"r", "refresh"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, helpKeyStyle.Render(k.key)+helpStyle.Render(" "+k.desc))
	}
	return helpStyle.Render(" ") + strings.Join(parts, helpStyle.Render("  ·  "))
}
