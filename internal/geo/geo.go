// Package geo converts between geodetic and Earth-centered Cartesian
// coordinates and shifts points between datums with the Helmert
// 7-parameter transform. Angles in degrees, distances in meters.
package geo

import "math"

// Ellipsoid is a reference ellipsoid given by semi-major axis and flattening.
type Ellipsoid struct {
	A float64 // semi-major axis in meters
	F float64 // flattening
}

var (
	WGS84      = Ellipsoid{A: 6378137.0, F: 1 / 298.257223563}
	GRS80      = Ellipsoid{A: 6378137.0, F: 1 / 298.257222101}
	Airy1830   = Ellipsoid{A: 6377563.396, F: 1 / 299.3249646}
	Intl1924   = Ellipsoid{A: 6378388.0, F: 1 / 297.0}
	Bessel1841 = Ellipsoid{A: 6377397.155, F: 1 / 299.1528128}
	Clarke1866 = Ellipsoid{A: 6378206.4, F: 1 / 294.9786982}
)

// Helmert holds the 7 parameters of a similarity transform between ECEF
// frames: translation in meters, rotation in arc seconds, scale in ppm.
type Helmert struct {
	TxM, TyM, TzM    float64
	RxAS, RyAS, RzAS float64
	ScalePPM         float64
}

// Apply transforms pt with the small-angle rotation approximation, which
// is standard for the sub-arcsecond rotations of published datum shifts.
func (h Helmert) Apply(pt ECEF) ECEF {
	rx := degToRad(h.RxAS / 3600)
	ry := degToRad(h.RyAS / 3600)
	rz := degToRad(h.RzAS / 3600)
	scale := 1 + h.ScalePPM*1e-6

	return ECEF{
		X: h.TxM + scale*(pt.X-rz*pt.Y+ry*pt.Z),
		Y: h.TyM + scale*(rz*pt.X+pt.Y-rx*pt.Z),
		Z: h.TzM + scale*(-ry*pt.X+rx*pt.Y+pt.Z),
	}
}

// Datum pairs a reference ellipsoid with the Helmert shift into WGS84.
type Datum struct {
	Ellipsoid Ellipsoid
	ToWGS84   Helmert
}

var (
	OSGB36 = Datum{
		Ellipsoid: Airy1830,
		ToWGS84:   Helmert{TxM: 375.0, TyM: -111.0, TzM: 431.0, ScalePPM: -100.0},
	}
	NAD27 = Datum{
		Ellipsoid: Clarke1866,
		ToWGS84:   Helmert{TxM: -8.0, TyM: 160.0, TzM: 176.0},
	}
	NAD83 = Datum{
		Ellipsoid: GRS80,
		ToWGS84:   Helmert{TxM: 1.004, TyM: -1.910, TzM: -0.515, RxAS: 0.0267, RyAS: 0.00034, RzAS: 0.011},
	}
	ED50 = Datum{
		Ellipsoid: Intl1924,
		ToWGS84:   Helmert{TxM: 89.5, TyM: 93.8, TzM: 123.1, RzAS: 0.156, ScalePPM: -1.2},
	}
	Tokyo = Datum{
		Ellipsoid: Bessel1841,
		ToWGS84:   Helmert{TxM: -148.0, TyM: 507.0, TzM: 685.0},
	}
	WGS84Datum = Datum{Ellipsoid: WGS84}
)

// LLH is a geodetic position: latitude and longitude in degrees, height
// above the ellipsoid in meters.
type LLH struct {
	LatDeg  float64
	LonDeg  float64
	HeightM float64
}

// ECEF is an Earth-centered, Earth-fixed Cartesian position in meters.
type ECEF struct {
	X, Y, Z float64
}

func (e ECEF) Sub(o ECEF) ECEF {
	return ECEF{X: e.X - o.X, Y: e.Y - o.Y, Z: e.Z - o.Z}
}

func (e ECEF) Add(o ECEF) ECEF {
	return ECEF{X: e.X + o.X, Y: e.Y + o.Y, Z: e.Z + o.Z}
}

// DistanceTo returns the straight-line distance to o in meters. Over short
// ranges this tracks ground distance closely.
func (e ECEF) DistanceTo(o ECEF) float64 {
	d := e.Sub(o)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// ToECEF converts a geodetic position to Cartesian on the given ellipsoid.
func ToECEF(p LLH, ell Ellipsoid) ECEF {
	e2 := 2*ell.F - ell.F*ell.F
	lat := degToRad(p.LatDeg)
	lon := degToRad(p.LonDeg)

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	n := ell.A / math.Sqrt(1-e2*sinLat*sinLat)

	return ECEF{
		X: (n + p.HeightM) * cosLat * cosLon,
		Y: (n + p.HeightM) * cosLat * sinLon,
		Z: (n*(1-e2) + p.HeightM) * sinLat,
	}
}

// ToLLH converts a Cartesian position back to geodetic coordinates by
// fixed-point iteration on the latitude, converging to 1e-12 rad.
func ToLLH(e ECEF, ell Ellipsoid) LLH {
	e2 := 2*ell.F - ell.F*ell.F
	lon := math.Atan2(e.Y, e.X)
	p := math.Sqrt(e.X*e.X + e.Y*e.Y)

	lat := math.Atan2(e.Z, p*(1-ell.F))
	var heightM float64
	for {
		sinLat := math.Sin(lat)
		n := ell.A / math.Sqrt(1-e2*sinLat*sinLat)
		heightM = p/math.Cos(lat) - n
		next := math.Atan2(e.Z, p*(1-e2*n/(n+heightM)))
		converged := math.Abs(next-lat) < 1e-12
		lat = next
		if converged {
			break
		}
	}

	return LLH{LatDeg: radToDeg(lat), LonDeg: radToDeg(lon), HeightM: heightM}
}

// ShiftToWGS84 moves a position from the given datum into WGS84.
func ShiftToWGS84(p LLH, d Datum) LLH {
	c := ToECEF(p, d.Ellipsoid)
	return ToLLH(d.ToWGS84.Apply(c), WGS84)
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }
