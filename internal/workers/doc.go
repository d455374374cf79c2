/*
Package workers provides utilities for determining optimal worker pool
sizes in containerized environments.

When running Go applications in containers, the number of available CPUs
may be limited by cgroup constraints. While Go 1.19+ automatically sets
GOMAXPROCS based on container CPU limits, runtime.NumCPU() still returns
the host machine's CPU count. The helpers here derive worker counts from
GOMAXPROCS instead, so concurrency respects the container's limit.

The package provides task-specific helper functions:

	// For CPU-intensive tasks (variant encoding)
	// Uses 1 worker per available CPU
	numWorkers := workers.ForCPU(8) // max 8 workers

	// For I/O-bound tasks (storage fan-out)
	// Uses 2 workers per available CPU
	numWorkers := workers.ForIO(16) // max 16 workers

For fine-grained control, use Count directly:

	// 3 workers per CPU, maximum of 24
	numWorkers := workers.Count(3.0, 24)

All functions respect the THUMBNAIL_WORKERS environment variable,
allowing operators to override the automatic calculation:

	env:
	- name: THUMBNAIL_WORKERS
	  value: "4"

All functions are safe for concurrent use.
*/
package workers
