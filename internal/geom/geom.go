// Package geom provides spherical-Earth geometry for an underground
// detector: slant overburden, curved-atmosphere zenith correction and
// atmospheric path lengths.
package geom

import "math"

const (
	// REarth is the Earth radius in meters used for chord geometry.
	REarth = 6356752.0

	// DefaultDepth and DefaultElevation describe a detector 1950 m
	// below a surface at 2400 m above sea level.
	DefaultDepth     = 1950.0
	DefaultElevation = 2400.0
)

// Overburden returns the slant column length in meters from the surface
// to a detector at depth (m) below a surface at elevation (m), for a
// zenith cosine measured in the detector frame.
//
// From the law of cosines, with r the surface radius and z = r - depth:
//
//	l^2 = z^2 cos^2(theta) + depth (2r - depth)
func Overburden(cosTheta, depth, elevation float64) float64 {
	r := REarth + elevation
	z := r - depth
	return math.Sqrt(z*z*cosTheta*cosTheta+depth*(2*r-depth)) - z*cosTheta
}

// Geometry fixes the detector depth and surface elevation so the
// per-configuration quantities can be queried without repeating them.
type Geometry struct {
	Depth     float64 // m below surface
	Elevation float64 // m above sea level
}

// New returns a Geometry for a detector at depth meters below a surface
// at elevation meters.
func New(depth, elevation float64) *Geometry {
	return &Geometry{Depth: depth, Elevation: elevation}
}

// Overburden returns the slant overburden in meters for cosTheta in the
// detector frame.
func (g *Geometry) Overburden(cosTheta float64) float64 {
	return Overburden(cosTheta, g.Depth, g.Elevation)
}

// OverburdenToCosTheta inverts Overburden: the detector-frame zenith
// cosine for which the slant overburden is l meters.
func (g *Geometry) OverburdenToCosTheta(l float64) float64 {
	r := REarth + g.Elevation
	d := g.Depth
	z := r - d
	return (2*d*r - d*d - l*l) / (2 * l * z)
}

// CosThetaEff returns the zenith cosine relative to the normal at the
// Earth surface for a ray with detector-frame cosine cosTheta. Near
// vertical incidence the correction is small and monotonic.
func (g *Geometry) CosThetaEff(cosTheta float64) float64 {
	r := REarth + g.Elevation
	z := r - g.Depth
	s := 1 - (z/r)*(z/r)*(1-cosTheta*cosTheta)
	return math.Sqrt(s)
}

// PathLength returns the distance in cm traveled through the atmosphere
// from the surface to altitude h (cm above the surface) along a ray at
// zenith angle theta (radians), on a spherical Earth.
func PathLength(hCm, thetaRad float64) float64 {
	r := REarth * 100 // cm
	cos := math.Cos(thetaRad)
	sin := math.Sin(thetaRad)
	rt := r + hCm
	return math.Sqrt(rt*rt-r*r*sin*sin) - r*cos
}
