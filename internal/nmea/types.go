package nmea

// Message is one decoded NMEA sentence. The concrete types form a closed
// set; callers type-switch to reach the fields.
type Message interface {
	// Talker returns the talker ID the sentence arrived with ("GP", "GN", ...).
	Talker() string
	// Code returns the three-letter sentence code ("RMC", "GGA", ...).
	Code() string
}

type header struct {
	talker string
	code   string
}

func (h header) Talker() string { return h.talker }
func (h header) Code() string   { return h.code }

// RMC: recommended minimum position, velocity and time.
type RMC struct {
	header
	TimeUTC   string  // hhmmss[.sss]
	Status    string  // "A" active, "V" void
	LatDeg    float64 // signed decimal degrees, south negative
	LonDeg    float64 // signed decimal degrees, west negative
	SpeedKt   float64
	CourseDeg float64 // degrees true
	Date      string  // ddmmyy
	MagVarDeg float64 // magnetic variation, west negative
}

// GGA: fix data.
type GGA struct {
	header
	TimeUTC    string
	LatDeg     float64
	LonDeg     float64
	FixQuality int // 0=invalid, 1=GPS, 2=DGPS, ...
	Satellites int
	HDOP       float64
	AltitudeM  float64
	AltUnit    string // "M"
	GeoidSepM  float64
	GeoidUnit  string
}

// GLL: geographic position.
type GLL struct {
	header
	LatDeg  float64
	LonDeg  float64
	TimeUTC string
	Status  string // "A" valid, "V" void
}

// VTG: track made good and ground speed.
type VTG struct {
	header
	CourseTrueDeg float64
	CourseMagDeg  float64
	SpeedKt       float64
	SpeedKmh      float64
}

// GSA: active satellites and dilution of precision.
type GSA struct {
	header
	Mode    string // "M" manual, "A" automatic
	FixType int    // 1=no fix, 2=2D, 3=3D
	SatIDs  []int  // IDs of satellites used; unused slots are skipped
	PDOP    float64
	HDOP    float64
	VDOP    float64
}

// GSV: satellites in view. One GSV sentence carries up to four satellites;
// Total and MsgNum tie the group together.
type GSV struct {
	header
	Total      int
	MsgNum     int
	InView     int
	Satellites []GSVSatellite
}

// GSVSatellite is one satellite entry within a GSV sentence.
type GSVSatellite struct {
	PRN        int
	ElevDeg    int
	AzimuthDeg int
	SNR        int // dB, 0 when the satellite is not being tracked
}
