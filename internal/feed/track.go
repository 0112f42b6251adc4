package feed

import (
	"strings"
	"time"

	"navtap/internal/geo"
	"navtap/internal/link16"
	"navtap/internal/nmea"
)

// Event is one decoded message, ready for a sink.
type Event struct {
	At   time.Time `json:"at"`
	Kind string    `json:"kind"`
	Fix  *Fix      `json:"fix,omitempty"`
	Text string    `json:"text,omitempty"`
}

// Fix is the current position with derived Cartesian coordinates and the
// straight-line distance from the first fix of this run.
type Fix struct {
	TimeUTC   string   `json:"time_utc,omitempty"`
	LatDeg    float64  `json:"lat_deg"`
	LonDeg    float64  `json:"lon_deg"`
	AltitudeM float64  `json:"altitude_m,omitempty"`
	SpeedKt   float64  `json:"speed_kt,omitempty"`
	CourseDeg float64  `json:"course_deg,omitempty"`
	ECEF      geo.ECEF `json:"ecef"`
	DistanceM float64  `json:"distance_m"`
}

// Sink receives every decoded event. Publish must be safe to call from
// the feed goroutine and should not block for long.
type Sink interface {
	Publish(ev Event) error
}

// Snapshot is the most recent state of the feed for status reporting.
type Snapshot struct {
	Running    bool    `json:"running"`
	Protocol   string  `json:"protocol,omitempty"`
	Source     string  `json:"source,omitempty"`
	Messages   uint64  `json:"messages"`
	Rejected   uint64  `json:"rejected,omitempty"`
	LastKind   string  `json:"last_kind,omitempty"`
	LastUTC    string  `json:"last_utc,omitempty"`
	Satellites int     `json:"satellites,omitempty"`
	InView     int     `json:"in_view,omitempty"`
	HDOP       float64 `json:"hdop,omitempty"`
	Fix        *Fix    `json:"fix,omitempty"`
	LastError  string  `json:"last_error,omitempty"`
}

// track folds decoded messages into the running fix state.
type track struct {
	messages   uint64
	rejected   uint64
	lastKind   string
	lastUTC    string
	sats       int
	inView     int
	hdop       float64
	fix        Fix
	haveFix    bool
	origin     geo.ECEF
	haveOrigin bool
}

func (st *track) applyNMEA(now time.Time, msg nmea.Message) Event {
	st.messages++
	st.lastKind = strings.ToLower(msg.Code())
	ev := Event{At: now, Kind: st.lastKind}

	switch m := msg.(type) {
	case nmea.RMC:
		if m.Status == "A" {
			st.setPosition(m.LatDeg, m.LonDeg, st.fix.AltitudeM)
			st.fix.TimeUTC = m.TimeUTC
			st.fix.SpeedKt = m.SpeedKt
			st.fix.CourseDeg = m.CourseDeg
			st.lastUTC = m.TimeUTC
			ev.Fix = st.fixCopy()
		}
	case nmea.GGA:
		st.sats = m.Satellites
		st.hdop = m.HDOP
		if m.FixQuality > 0 {
			st.setPosition(m.LatDeg, m.LonDeg, m.AltitudeM)
			st.fix.TimeUTC = m.TimeUTC
			st.lastUTC = m.TimeUTC
			ev.Fix = st.fixCopy()
		}
	case nmea.GLL:
		if m.Status == "A" {
			st.setPosition(m.LatDeg, m.LonDeg, st.fix.AltitudeM)
			st.fix.TimeUTC = m.TimeUTC
			st.lastUTC = m.TimeUTC
			ev.Fix = st.fixCopy()
		}
	case nmea.VTG:
		if st.haveFix {
			st.fix.SpeedKt = m.SpeedKt
			st.fix.CourseDeg = m.CourseTrueDeg
			ev.Fix = st.fixCopy()
		}
	case nmea.GSA:
		if m.HDOP > 0 {
			st.hdop = m.HDOP
		}
		if n := len(m.SatIDs); n > 0 {
			st.sats = n
		}
	case nmea.GSV:
		st.inView = m.InView
	}
	return ev
}

const feetToMeters = 0.3048

func (st *track) applyLink16(now time.Time, datagram []byte) (Event, error) {
	msg, err := link16.Decode(datagram)
	if err != nil {
		st.rejected++
		return Event{}, err
	}

	st.messages++
	ev := Event{At: now, Text: msg.String()}

	switch m := msg.(type) {
	case link16.J12Position:
		st.lastKind = "j12"
		st.setPosition(m.LatDeg(), m.LonDeg(), float64(m.AltFeet)*feetToMeters)
		st.fix.SpeedKt = m.SpeedKt()
		st.fix.CourseDeg = float64(m.HeadingDeg)
		ev.Fix = st.fixCopy()
	case link16.J3Identity:
		st.lastKind = "j3"
	default:
		st.lastKind = "j"
	}
	ev.Kind = st.lastKind
	return ev, nil
}

func (st *track) setPosition(latDeg, lonDeg, altM float64) {
	ecef := geo.ToECEF(geo.LLH{LatDeg: latDeg, LonDeg: lonDeg, HeightM: altM}, geo.WGS84)
	if !st.haveOrigin {
		st.origin = ecef
		st.haveOrigin = true
	}
	st.fix.LatDeg = latDeg
	st.fix.LonDeg = lonDeg
	st.fix.AltitudeM = altM
	st.fix.ECEF = ecef
	st.fix.DistanceM = ecef.DistanceTo(st.origin)
	st.haveFix = true
}

func (st *track) fixCopy() *Fix {
	f := st.fix
	return &f
}

func (st *track) snapshot(base Snapshot) Snapshot {
	base.Messages = st.messages
	base.Rejected = st.rejected
	base.LastKind = st.lastKind
	base.LastUTC = st.lastUTC
	base.Satellites = st.sats
	base.InView = st.inView
	base.HDOP = st.hdop
	if st.haveFix {
		base.Fix = st.fixCopy()
	}
	return base
}
