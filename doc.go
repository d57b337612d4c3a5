// Package orcvector provides in-memory columnar row batches modelled on the
// ORC reader's vector layer.
//
// A batch holds up to Capacity rows of one column kind: fixed-width scalars
// (long, double, timestamp, decimal64), byte ranges, wide decimals, and the
// composite kinds struct, list, map and union. Batches are created through a
// memory.Pool that accounts for every byte they reserve, grow in place with
// Resize, and give their memory back with Release.
//
// # Packages
//
//   - pkg/vector: the batch family, decimal literals and Int128
//   - pkg/memory: the accounting pool and typed buffers backing batches
//   - pkg/layout: YAML layouts and the builder that turns them into batch trees
//   - pkg/arrowbridge: conversion of batch trees into Apache Arrow records and IPC files
//   - pkg/config: YAML/env configuration for the pool, logging and metrics
//   - pkg/errors, pkg/logger, pkg/metrics: shared error, logging and metric plumbing
//
// # Quick Start
//
//	pool := memory.NewPool(memory.Config{RecycleBytes: true})
//	b, err := vector.NewLongBatch(1024, pool)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Release()
//
//	b.Data()[0] = 42
//	b.SetNumElements(1)
//	fmt.Println(b) // Long vector <1 of 1024>
//
// The orcvector command builds trees from layout files:
//
//	orcvector describe --layout orders.yaml --capacity 4096 --arrow orders.arrow
package orcvector
