// Package dynamo provides the core types shared by the force and integration code.
//
// The package defines the particle state and the two capability roles that
// operate on it:
//
//   - [Particles]: owner of the position and force buffers
//   - [Interactor]: adds forces and energies into the force buffer
//   - [Integrator]: advances positions and velocities one timestep at a time
//   - [Params]: box size, cutoff and timestep, shared read-only
//
// # Ownership
//
// The composition root allocates [Particles] and passes it to every component.
// Components keep typed handles rather than the raw slices: integrators hold a
// [Motion], interactors a [ForceSink], persistence a [PositionView]. This is
// what lets force summation run without locks: every field has exactly one
// writer class, and within a force pass each particle slot has one worker.
//
// # Example
//
//	parts := dynamo.NewParticles(n)
//	bonds, _ := interactors.NewBondedForces(parts, params, list)
//	verlet := integrators.NewTwoStepVelVerlet(parts, params, 1.0)
//	verlet.AddInteractor(bonds)
//	for i := 0; i < steps; i++ {
//	    verlet.Update()
//	}
package dynamo
