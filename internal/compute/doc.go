// Package compute provides the execution backends that run per-particle kernels.
//
// A kernel is a func(i int) invoked once per particle (or per bond). The
// backend decides how the index range is spread across workers; callers only
// rely on two guarantees:
//
//   - every call returns after all invocations have finished
//   - [Backend.Sum] gives the same bits whatever the worker count
//
// # Usage
//
//	backend := compute.GetBackend()
//	backend.ForEach(n, func(i int) {
//	    out[i] = f(in[i])
//	})
//
// Kernels must only write state owned by their own index. Force kernels in
// package interactors are laid out so that this holds without atomics.
package compute
