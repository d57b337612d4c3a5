// Package config provides configuration management for orcvector.
//
// # Key Features
//
// - Config: one structure with Memory, Batch, Logging and Metrics sections
// - YAML files with ${VAR_NAME} substitution
// - Environment overrides with the ORCVECTOR_ prefix
// - Defaults for every field and validation on load
//
// # Usage
//
// ## Loading
//
//	cfg, err := config.Load("orcvector.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	pc, err := cfg.PoolConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	pool := memory.NewPool(pc)
//
// ## File Format
//
//	memory:
//	  limit_bytes: 268435456
//	  limit_percent: 0       # share of physical memory when limit_bytes is 0
//	  recycle_bytes: true
//	batch:
//	  default_capacity: 1024
//	logging:
//	  level: ${LOG_LEVEL}
//	  encoding: console
//
// ## Environment Overrides
//
// Every key can be overridden by an environment variable named after its
// path with dots replaced by underscores:
//
//	ORCVECTOR_MEMORY_LIMIT_BYTES=1048576
//	ORCVECTOR_LOGGING_LEVEL=debug
//
// Overrides win over file values, which win over defaults.
package config
