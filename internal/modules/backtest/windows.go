package backtest

import "time"

// TimeWindow is a named broadcast slot. Windows are classified on the kickoff
// converted to the US eastern broadcast zone, so UTC fixtures land in the
// right slot on both sides of a DST change.
type TimeWindow string

const (
	WindowThursdayNight TimeWindow = "Thursday Night"
	WindowSundayEarly   TimeWindow = "Sunday Early"
	WindowSundayLate    TimeWindow = "Sunday Late"
	WindowSundayNight   TimeWindow = "Sunday Night"
	WindowMondayNight   TimeWindow = "Monday Night"

	// WindowNone marks a kickoff outside every named slot (international
	// games, Saturday week-18 games). Such games are excluded from
	// window-based aggregation but still count toward unwindowed totals.
	WindowNone TimeWindow = ""
)

// AllWindows lists the named broadcast slots in schedule order.
var AllWindows = []TimeWindow{
	WindowThursdayNight,
	WindowSundayEarly,
	WindowSundayLate,
	WindowSundayNight,
	WindowMondayNight,
}

var broadcastZone *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// No tzdata available; EST keeps classification usable year-round
		// even if it shifts one hour during DST.
		loc = time.FixedZone("EST", -5*60*60)
	}
	broadcastZone = loc
}

// ClassifyWindow maps a kickoff timestamp onto its broadcast slot.
func ClassifyWindow(kickoff time.Time) TimeWindow {
	local := kickoff.In(broadcastZone)
	hour := local.Hour()

	switch local.Weekday() {
	case time.Thursday:
		if hour >= 19 {
			return WindowThursdayNight
		}
	case time.Sunday:
		switch {
		case hour < 15:
			return WindowSundayEarly
		case hour < 19:
			return WindowSundayLate
		default:
			return WindowSundayNight
		}
	case time.Monday:
		if hour >= 19 {
			return WindowMondayNight
		}
	}
	return WindowNone
}
