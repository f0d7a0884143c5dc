// Package testutil provides testing utilities for Bitkit.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source plus helpers for
// generating random bit arrays and random rotation parameters.
//
// # Random Bit Arrays
//
//	rng := testutil.NewRNG(seed)
//	ba := rng.RandomBits(1024)   // fresh array, uniform bits
//	rng.Fill(ba)                 // overwrite an existing array
//
// # Random Rotation Parameters
//
//	offset, length := rng.RandomRange(ba.Len())
//	amount := rng.RandomAmount(length)
package testutil
