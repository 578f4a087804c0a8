// Package testutil provides testing utilities for capset.
//
// This package is intended for use in tests and benchmarks only.
// It generates random capabilities and filters from a small attribute
// universe and computes brute-force reference matches.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	u := testutil.DefaultUniverse()
//	caps := rng.Capabilities(u, 1000)
//	f := rng.Filter(u, 3)
//
// # Reference Results
//
//	want := testutil.BruteForceMatch(caps, f, true)
package testutil
