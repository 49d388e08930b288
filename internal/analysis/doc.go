// Package analysis post-processes stored runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectra of an energy column
//   - [MSD]: mean squared displacement across trajectory frames
//   - [BondLengths]: bond length statistics of a single frame
//
// A harmonic dimer shows up as a single spectral peak in its kinetic energy
// at twice the bond's vibration frequency:
//
//	f := analysis.DominantFrequency(kinetic, interval)
package analysis
