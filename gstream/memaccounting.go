package gstream

import "github.com/pbnjay/memory"

// memTotal and memFree wrap pbnjay/memory the way eutils/utils.go does
// to size its processing pools against available RAM (spec.md
// SPEC_FULL §2 domain-stack table).
func memTotal() uint64 { return memory.TotalMemory() }
func memFree() uint64  { return memory.FreeMemory() }
