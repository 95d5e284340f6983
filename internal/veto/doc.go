// Package veto computes the atmospheric self-veto passing fraction:
// the probability that a neutrino of given energy and zenith angle
// reaches a deep detector without an accompanying muon from the same
// parent decay chain.
//
// The pipeline combines decay kinematics distributions per
// mother -> daughter channel, cascade-solver fluxes extracted and
// rescaled at each atmospheric depth step, and a muon-survival
// weighting, through nested numerical integration over companion
// energy, slant depth and (in full mode) primary cosmic-ray energy.
// Expensive intermediate cascade solutions and no-muon probabilities
// are memoized in bounded LRU caches.
//
// # Thread Safety
//
// Engine instances are NOT thread-safe; every distinct configuration
// key must map to an exclusively-owned engine. The Service registry
// guards engine construction with a mutex but assumes a single caller
// per engine.
package veto
