// Package units defines natural-unit conversion constants (GeV = 1).
// Conversion values follow SQuIDS conventions.
package units

const (
	GeV = 1.0
	TeV = 1e3 * GeV
	PeV = 1e6 * GeV

	// Length: km expressed in GeV^-1.
	Km = 5.0677309374099995
	M  = Km * 1e-3
	Cm = Km * 1e-5

	// gram in GeV.
	Gr = 5.62e+23

	// second in GeV^-1.
	Sec = 1523000.0

	// Avogadro number and mean molar mass of air (g/mol).
	Na     = 6.0221415e+23
	MolAir = 28.97

	// Differential flux normalizations. Primary flux models report
	// (m^2 s sr GeV)^-1; accumulated fluxes are kept in
	// (cm^2 s sr GeV)^-1, so only the ratio enters results.
	Phim2  = 1e-4
	Phicm2 = 1.0
)
