package nmea

import (
	"fmt"
	"strconv"
	"strings"
)

// Decode turns a validated sentence into a typed message. Unknown codes are
// an error; the read loop treats them like any other undecodable sentence.
func Decode(s Sentence) (Message, error) {
	switch s.Code {
	case "RMC":
		return decodeRMC(s)
	case "GGA":
		return decodeGGA(s)
	case "GLL":
		return decodeGLL(s)
	case "VTG":
		return decodeVTG(s)
	case "GSA":
		return decodeGSA(s)
	case "GSV":
		return decodeGSV(s)
	default:
		return nil, fmt.Errorf("nmea: unsupported sentence %q", s.Fields[0])
	}
}

func hdr(s Sentence) header {
	return header{talker: s.Talker, code: s.Code}
}

// RMC: Recommended Minimum Specific GNSS Data
// Fields (NMEA 0183 v2.3):
//
//	0: talker+type
//	1: time (hhmmss.sss)
//	2: status (A=active, V=void)
//	3: latitude (ddmm.mmmm)
//	4: N/S
//	5: longitude (dddmm.mmmm)
//	6: E/W
//	7: speed over ground (knots)
//	8: course over ground (deg true)
//	9: date (ddmmyy)
//	10: magnetic variation (deg)
//	11: variation direction (E/W)
func decodeRMC(s Sentence) (Message, error) {
	f := s.Fields
	if len(f) < 10 {
		return nil, fmt.Errorf("nmea: RMC wants >= 10 fields, got %d", len(f))
	}
	m := RMC{
		header:  hdr(s),
		TimeUTC: strings.TrimSpace(f[1]),
		Status:  strings.TrimSpace(f[2]),
		Date:    strings.TrimSpace(f[9]),
	}
	var err error
	if m.LatDeg, err = parseLatLon(f[3], f[4]); err != nil {
		return nil, err
	}
	if m.LonDeg, err = parseLatLon(f[5], f[6]); err != nil {
		return nil, err
	}
	if m.SpeedKt, err = optFloat(f[7]); err != nil {
		return nil, err
	}
	if m.CourseDeg, err = optFloat(f[8]); err != nil {
		return nil, err
	}
	if len(f) >= 12 {
		if m.MagVarDeg, err = optFloat(f[10]); err != nil {
			return nil, err
		}
		if strings.TrimSpace(strings.ToUpper(f[11])) == "W" {
			m.MagVarDeg = -m.MagVarDeg
		}
	}
	return m, nil
}

// GGA: Global Positioning System Fix Data
// Fields:
//
//	0: talker+type
//	1: time (hhmmss.sss)
//	2: latitude (ddmm.mmmm)
//	3: N/S
//	4: longitude (dddmm.mmmm)
//	5: E/W
//	6: fix quality (0=invalid)
//	7: satellites in use
//	8: HDOP
//	9: antenna altitude
//	10: altitude units (M)
//	11: geoidal separation
//	12: separation units (M)
func decodeGGA(s Sentence) (Message, error) {
	f := s.Fields
	if len(f) < 11 {
		return nil, fmt.Errorf("nmea: GGA wants >= 11 fields, got %d", len(f))
	}
	m := GGA{
		header:  hdr(s),
		TimeUTC: strings.TrimSpace(f[1]),
		AltUnit: strings.TrimSpace(strings.ToUpper(f[10])),
	}
	var err error
	if m.LatDeg, err = parseLatLon(f[2], f[3]); err != nil {
		return nil, err
	}
	if m.LonDeg, err = parseLatLon(f[4], f[5]); err != nil {
		return nil, err
	}
	if m.FixQuality, err = optInt(f[6]); err != nil {
		return nil, err
	}
	if m.Satellites, err = optInt(f[7]); err != nil {
		return nil, err
	}
	if m.HDOP, err = optFloat(f[8]); err != nil {
		return nil, err
	}
	if m.AltitudeM, err = optFloat(f[9]); err != nil {
		return nil, err
	}
	if len(f) >= 13 {
		if m.GeoidSepM, err = optFloat(f[11]); err != nil {
			return nil, err
		}
		m.GeoidUnit = strings.TrimSpace(strings.ToUpper(f[12]))
	}
	return m, nil
}

// GLL: Geographic Position, Latitude/Longitude
// Fields:
//
//	0: talker+type
//	1: latitude (ddmm.mmmm)
//	2: N/S
//	3: longitude (dddmm.mmmm)
//	4: E/W
//	5: time (hhmmss.sss)
//	6: status (A=valid, V=void)
func decodeGLL(s Sentence) (Message, error) {
	f := s.Fields
	if len(f) < 7 {
		return nil, fmt.Errorf("nmea: GLL wants >= 7 fields, got %d", len(f))
	}
	m := GLL{
		header:  hdr(s),
		TimeUTC: strings.TrimSpace(f[5]),
		Status:  strings.TrimSpace(f[6]),
	}
	var err error
	if m.LatDeg, err = parseLatLon(f[1], f[2]); err != nil {
		return nil, err
	}
	if m.LonDeg, err = parseLatLon(f[3], f[4]); err != nil {
		return nil, err
	}
	return m, nil
}

// VTG: Track Made Good and Ground Speed
// Fields:
//
//	0: talker+type
//	1: track (deg true)
//	2: T
//	3: track (deg magnetic)
//	4: M
//	5: speed (knots)
//	6: N
//	7: speed (km/h)
//	8: K
func decodeVTG(s Sentence) (Message, error) {
	f := s.Fields
	if len(f) < 9 {
		return nil, fmt.Errorf("nmea: VTG wants >= 9 fields, got %d", len(f))
	}
	m := VTG{header: hdr(s)}
	var err error
	if m.CourseTrueDeg, err = optFloat(f[1]); err != nil {
		return nil, err
	}
	if m.CourseMagDeg, err = optFloat(f[3]); err != nil {
		return nil, err
	}
	if m.SpeedKt, err = optFloat(f[5]); err != nil {
		return nil, err
	}
	if m.SpeedKmh, err = optFloat(f[7]); err != nil {
		return nil, err
	}
	return m, nil
}

// GSA: GNSS DOP and Active Satellites
// Fields:
//
//	0: talker+type
//	1: selection mode (M=manual, A=automatic)
//	2: fix type (1=none, 2=2D, 3=3D)
//	3..14: IDs of satellites used (empty when the slot is unused)
//	15: PDOP
//	16: HDOP
//	17: VDOP
func decodeGSA(s Sentence) (Message, error) {
	f := s.Fields
	if len(f) < 18 {
		return nil, fmt.Errorf("nmea: GSA wants >= 18 fields, got %d", len(f))
	}
	m := GSA{
		header: hdr(s),
		Mode:   strings.TrimSpace(strings.ToUpper(f[1])),
	}
	var err error
	if m.FixType, err = optInt(f[2]); err != nil {
		return nil, err
	}
	for _, sf := range f[3:15] {
		sf = strings.TrimSpace(sf)
		if sf == "" {
			// Unused slot, not satellite zero.
			continue
		}
		id, err := strconv.Atoi(sf)
		if err != nil {
			return nil, fmt.Errorf("nmea: bad satellite id %q", sf)
		}
		m.SatIDs = append(m.SatIDs, id)
	}
	if m.PDOP, err = optFloat(f[15]); err != nil {
		return nil, err
	}
	if m.HDOP, err = optFloat(f[16]); err != nil {
		return nil, err
	}
	if m.VDOP, err = optFloat(f[17]); err != nil {
		return nil, err
	}
	return m, nil
}

// GSV: GNSS Satellites in View
// Fields:
//
//	0: talker+type
//	1: total GSV messages in this group
//	2: message number (1-based)
//	3: satellites in view
//	4+: repeating groups of PRN, elevation (deg), azimuth (deg), SNR (dB)
//
// The SNR field is empty when the satellite is not being tracked.
func decodeGSV(s Sentence) (Message, error) {
	f := s.Fields
	if len(f) < 4 {
		return nil, fmt.Errorf("nmea: GSV wants >= 4 fields, got %d", len(f))
	}
	m := GSV{header: hdr(s)}
	var err error
	if m.Total, err = optInt(f[1]); err != nil {
		return nil, err
	}
	if m.MsgNum, err = optInt(f[2]); err != nil {
		return nil, err
	}
	if m.InView, err = optInt(f[3]); err != nil {
		return nil, err
	}
	for i := 4; i+3 < len(f); i += 4 {
		if strings.TrimSpace(f[i]) == "" {
			continue
		}
		var sat GSVSatellite
		if sat.PRN, err = optInt(f[i]); err != nil {
			return nil, err
		}
		if sat.ElevDeg, err = optInt(f[i+1]); err != nil {
			return nil, err
		}
		if sat.AzimuthDeg, err = optInt(f[i+2]); err != nil {
			return nil, err
		}
		if sat.SNR, err = optInt(f[i+3]); err != nil {
			return nil, err
		}
		m.Satellites = append(m.Satellites, sat)
	}
	return m, nil
}

// optFloat parses a numeric field. An empty field means "not available" and
// decodes to zero; a non-empty field that fails to parse is an error.
func optFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("nmea: bad number %q", s)
	}
	return v, nil
}

func optInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("nmea: bad number %q", s)
	}
	return v, nil
}

// parseLatLon converts NMEA ddmm.mmmm / dddmm.mmmm plus hemisphere to signed
// decimal degrees (south and west negative). An empty value is "not
// available" and decodes to zero; a value without a valid hemisphere letter
// fails the sentence.
func parseLatLon(v, hemi string) (float64, error) {
	v = strings.TrimSpace(v)
	hemi = strings.TrimSpace(strings.ToUpper(hemi))
	if v == "" {
		return 0, nil
	}
	if hemi != "N" && hemi != "S" && hemi != "E" && hemi != "W" {
		return 0, fmt.Errorf("nmea: missing hemisphere for %q", v)
	}

	// The last two digits of the integer part are whole minutes.
	dot := strings.IndexByte(v, '.')
	intPart := v
	if dot != -1 {
		intPart = v[:dot]
	}
	if len(intPart) < 3 {
		return 0, fmt.Errorf("nmea: bad coordinate %q", v)
	}
	deg, err := strconv.Atoi(intPart[:len(intPart)-2])
	if err != nil {
		return 0, fmt.Errorf("nmea: bad coordinate %q", v)
	}
	mins, err := strconv.ParseFloat(v[len(intPart)-2:], 64)
	if err != nil {
		return 0, fmt.Errorf("nmea: bad coordinate %q", v)
	}

	dec := float64(deg) + mins/60.0
	if hemi == "S" || hemi == "W" {
		dec = -dec
	}
	return dec, nil
}
