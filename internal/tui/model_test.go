package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oilscope/oilscope/internal/core"
)

func testSnapshots() map[core.FeedID]core.FeedSnapshot {
	readings := []core.TankReading{
		{Timestamp: day(2024, time.January, 1), Gallons: 200},
		{Timestamp: day(2024, time.January, 2), Gallons: 192},
		{Timestamp: day(2024, time.January, 3), Gallons: 185},
	}
	prices := []core.VendorSeries{{
		Vendor: "Acme Oil",
		Points: []core.TimePoint{
			{Date: day(2024, time.January, 1), Value: core.Float(3.45)},
			{Date: day(2024, time.January, 3), Value: core.Float(3.49)},
		},
	}}
	temps := []core.TemperatureDay{
		{Date: day(2024, time.January, 1), High: core.Float(40), Low: core.Float(20)},
		{Date: day(2024, time.January, 2), High: core.Float(35), Low: core.Float(15)},
	}

	return map[core.FeedID]core.FeedSnapshot{
		core.FeedTank:    {Feed: core.FeedTank, Status: core.StatusOK, Data: core.FeedData{Readings: readings}},
		core.FeedPrices:  {Feed: core.FeedPrices, Status: core.StatusOK, Data: core.FeedData{Prices: prices}},
		core.FeedWeather: {Feed: core.FeedWeather, Status: core.StatusOK, Data: core.FeedData{Temps: temps}},
		core.FeedSummary: {Feed: core.FeedSummary, Status: core.StatusOK, Data: core.FeedData{
			Summary: &core.DashboardSummary{CurrentGallons: core.Float(185), PricePrediction: "falling"},
		}},
	}
}

func sizedModel(t *testing.T, w, h int) Model {
	t.Helper()
	m := NewModel(core.NewEngine(), time.Minute)
	next, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return next.(Model)
}

func TestRefreshInstallsWidgets(t *testing.T) {
	m := sizedModel(t, 120, 40)

	next, _ := m.Update(refreshDoneMsg{snapshots: testSnapshots()})
	m = next.(Model)

	for _, slot := range []string{slotSparkline, slotPriceTrend, slotUsageHDD, slotScatter, slotYoY} {
		if m.registry.Handle(slot) == nil {
			t.Errorf("slot %s not installed after refresh", slot)
		}
	}
}

func TestRefreshSkipsErrorFeeds(t *testing.T) {
	m := sizedModel(t, 120, 40)

	snaps := testSnapshots()
	snaps[core.FeedPrices] = core.FeedSnapshot{
		Feed:    core.FeedPrices,
		Status:  core.StatusError,
		Message: "connection refused",
	}
	next, _ := m.Update(refreshDoneMsg{snapshots: snaps})
	m = next.(Model)

	if m.registry.Handle(slotPriceTrend) != nil {
		t.Error("error feed should not install a widget")
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Error("error message should surface in the slot")
	}
}

func TestQuitTearsDownRegistry(t *testing.T) {
	m := sizedModel(t, 120, 40)
	next, _ := m.Update(refreshDoneMsg{snapshots: testSnapshots()})
	m = next.(Model)
	if m.registry.Len() == 0 {
		t.Fatal("expected installed widgets")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(Model)
	if m.registry.Len() != 0 {
		t.Error("quit should dispose every installed widget")
	}
	if cmd == nil {
		t.Error("quit should return tea.Quit")
	}
}

func TestWindowKeyCyclesAndRefreshes(t *testing.T) {
	m := sizedModel(t, 120, 40)
	before := m.window

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = next.(Model)
	if m.window == before {
		t.Error("window did not cycle")
	}
	if cmd == nil {
		t.Error("window change should trigger a refresh")
	}
}

func TestRefreshSeqIssuedAtLoadStart(t *testing.T) {
	m := sizedModel(t, 120, 40)

	// Two loads started back to back: the one started first must carry the
	// lower sequence number even if it resolves last.
	first := m.refreshCmd()
	second := m.refreshCmd()

	secondMsg := second().(refreshDoneMsg)
	firstMsg := first().(refreshDoneMsg)
	if firstMsg.seq >= secondMsg.seq {
		t.Fatalf("first load got seq %d, second got %d; want strictly increasing by start order",
			firstMsg.seq, secondMsg.seq)
	}
}

func TestStaleRefreshLosesToFresh(t *testing.T) {
	m := sizedModel(t, 120, 40)

	staleSeq := m.registry.NextSeq()
	freshSeq := m.registry.NextSeq()

	next, _ := m.Update(refreshDoneMsg{seq: freshSeq, snapshots: testSnapshots()})
	m = next.(Model)
	freshHandle := m.registry.Handle(slotSparkline)
	if freshHandle == nil {
		t.Fatal("fresh refresh should install the sparkline")
	}

	stale := testSnapshots()
	stale[core.FeedSummary] = core.FeedSnapshot{
		Feed:   core.FeedSummary,
		Status: core.StatusOK,
		Data: core.FeedData{
			Summary: &core.DashboardSummary{PricePrediction: "rising"},
		},
	}
	next, _ = m.Update(refreshDoneMsg{seq: staleSeq, snapshots: stale})
	m = next.(Model)

	if m.registry.Handle(slotSparkline) != freshHandle {
		t.Error("stale refresh replaced the fresh sparkline widget")
	}
	view := m.View()
	if strings.Contains(view, "rising") {
		t.Error("stale summary text rendered after fresher data arrived")
	}
	if !strings.Contains(view, "falling") {
		t.Error("fresh summary text missing after stale resolve")
	}
}

func TestSummaryShowsLastDelivery(t *testing.T) {
	m := sizedModel(t, 120, 40)

	snaps := testSnapshots()
	snaps[core.FeedOrders] = core.FeedSnapshot{
		Feed:   core.FeedOrders,
		Status: core.StatusOK,
		Data: core.FeedData{Orders: []core.OilOrder{
			{Date: day(2023, time.November, 10), Gallons: 150, PricePerGallon: 3.20, Vendor: "Acme Oil"},
			{Date: day(2024, time.January, 2), Gallons: 180, PricePerGallon: 3.459, Vendor: "Acme Oil"},
		}},
	}
	next, _ := m.Update(refreshDoneMsg{snapshots: snaps})
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "last delivery") {
		t.Fatal("delivery readout missing from header")
	}
	if !strings.Contains(view, "Jan 2, 180 gal @ $3.459") {
		t.Errorf("most recent order not rendered, view header: %q", m.summaryView())
	}
}

func TestSummaryLocalEstimateWhenSummaryDown(t *testing.T) {
	m := sizedModel(t, 120, 40)

	snaps := testSnapshots()
	snaps[core.FeedSummary] = core.FeedSnapshot{
		Feed:    core.FeedSummary,
		Status:  core.StatusError,
		Message: "boom",
	}
	next, _ := m.Update(refreshDoneMsg{snapshots: snaps})
	m = next.(Model)

	if !strings.Contains(m.View(), "(local est)") {
		t.Error("local days-to-empty estimate should replace the missing summary")
	}

	// Without tank data there is nothing to estimate from; the error shows.
	next, _ = sizedModel(t, 120, 40).Update(refreshDoneMsg{snapshots: map[core.FeedID]core.FeedSnapshot{
		core.FeedSummary: {Feed: core.FeedSummary, Status: core.StatusError, Message: "boom"},
	}})
	m = next.(Model)
	if !strings.Contains(m.View(), "summary unavailable: boom") {
		t.Error("summary error should surface when no local estimate exists")
	}
}

func TestSummaryShowsKFactor(t *testing.T) {
	m := sizedModel(t, 120, 40)
	next, _ := m.Update(refreshDoneMsg{snapshots: testSnapshots()})
	m = next.(Model)

	// 15 gal over 75 HDD.
	if !strings.Contains(m.View(), "0.20 gal/HDD") {
		t.Errorf("k-factor missing from header: %q", m.summaryView())
	}
}

func TestPriceReadoutSpreadPosition(t *testing.T) {
	m := sizedModel(t, 120, 40)

	snaps := testSnapshots()
	snaps[core.FeedPrices] = core.FeedSnapshot{
		Feed:   core.FeedPrices,
		Status: core.StatusOK,
		Data: core.FeedData{Prices: []core.VendorSeries{
			{Vendor: "Acme Oil", Points: []core.TimePoint{{Date: day(2024, time.January, 3), Value: core.Float(3.00)}}},
			{Vendor: "Budget Fuel", Points: []core.TimePoint{{Date: day(2024, time.January, 3), Value: core.Float(3.50)}}},
		}},
	}
	next, _ := m.Update(refreshDoneMsg{snapshots: snaps})
	m = next.(Model)

	readout := m.priceReadout()
	for _, want := range []string{"Acme Oil: $3.000", "(0% of spread)", "Budget Fuel: $3.500", "(100% of spread)"} {
		if !strings.Contains(readout, want) {
			t.Errorf("readout %q missing %q", readout, want)
		}
	}
}

func TestPriceReadoutSingleVendorSkipsSpread(t *testing.T) {
	m := sizedModel(t, 120, 40)
	next, _ := m.Update(refreshDoneMsg{snapshots: testSnapshots()})
	m = next.(Model)

	readout := m.priceReadout()
	if !strings.Contains(readout, "Acme Oil: $3.490") {
		t.Errorf("latest quote missing from readout %q", readout)
	}
	if strings.Contains(readout, "spread") {
		t.Error("spread position should not render for a single vendor")
	}
}

func TestPricePointsCompressWideWindows(t *testing.T) {
	series := []core.VendorSeries{{
		Vendor: "Acme Oil",
		Points: []core.TimePoint{
			{Date: day(2024, time.January, 1), Value: core.Float(3.00)},
			{Date: day(2024, time.January, 15), Value: core.Float(3.50)},
		},
	}}

	yearly := pricePoints(series, core.TimeWindow1y)
	if len(yearly) != 1 || len(yearly[0].Points) != 1 {
		t.Fatalf("1y window should mean-bucket to one monthly point, got %+v", yearly)
	}
	p := yearly[0].Points[0]
	if !p.Date.Equal(day(2024, time.January, 1)) {
		t.Errorf("monthly bucket keyed on %v, want first of month", p.Date)
	}
	if p.Value == nil || *p.Value <= 3.00 || *p.Value >= 3.50 {
		t.Errorf("bucket mean should fall inside the observed range, got %v", p.Value)
	}

	weekly := pricePoints(series, core.TimeWindow7d)
	if len(weekly) != 1 || len(weekly[0].Points) != 15 {
		t.Fatalf("7d window should keep the forward-filled daily series, got %d points",
			len(weekly[0].Points))
	}
}

func TestViewBeforeFirstSize(t *testing.T) {
	m := NewModel(core.NewEngine(), time.Minute)
	if !strings.Contains(m.View(), "Loading") {
		t.Error("unsized model should show loading placeholder")
	}
}

func TestViewRendersSummary(t *testing.T) {
	m := sizedModel(t, 120, 40)
	next, _ := m.Update(refreshDoneMsg{snapshots: testSnapshots()})
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "185.0 gal") {
		t.Error("summary gallons missing from header")
	}
	if !strings.Contains(view, "falling") {
		t.Error("price prediction missing from header")
	}
}

func TestShortTerminalHidesBottomRow(t *testing.T) {
	m := sizedModel(t, 120, 24)
	next, _ := m.Update(refreshDoneMsg{snapshots: testSnapshots()})
	m = next.(Model)

	if m.layout.visible[slotScatter] {
		t.Error("scatter slot should be detached on a short terminal")
	}
	// Detached surfaces keep their handles; only resize skips them.
	if m.registry.Handle(slotScatter) == nil {
		t.Error("detached slot should still hold its handle")
	}
}

func TestUsagePointsFiltering(t *testing.T) {
	records := core.DeriveTankMetrics([]core.TankReading{
		{Timestamp: day(2024, time.January, 1), Gallons: 200},
		{Timestamp: day(2024, time.January, 2), Gallons: 192},
		{Timestamp: day(2024, time.January, 3), Gallons: 250, IsFillEvent: true},
		{Timestamp: day(2024, time.January, 4), Gallons: 243},
	})

	pts := usagePoints(records)
	if len(pts) != 2 {
		t.Fatalf("got %d usage points, want 2 (first reading and fill excluded)", len(pts))
	}
	for _, p := range pts {
		if p.Value == nil || *p.Value <= 0 {
			t.Errorf("unexpected usage point %+v", p)
		}
	}
}
