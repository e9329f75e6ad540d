package service

import (
	"sync/atomic"

	"github.com/HassanAliMAli/you-trend/internal/analysis"
)

// EngineRef holds the engine currently serving requests. The pattern worker
// swaps it when the topic pattern table changes.
type EngineRef struct {
	p atomic.Pointer[analysis.Engine]
}

func NewEngineRef(e *analysis.Engine) *EngineRef {
	r := &EngineRef{}
	r.p.Store(e)
	return r
}

func (r *EngineRef) Load() *analysis.Engine {
	return r.p.Load()
}

func (r *EngineRef) Store(e *analysis.Engine) {
	r.p.Store(e)
}
