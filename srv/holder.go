package srv

import (
	"sync/atomic"

	"github.com/godist/goartm/core/artm"
)

// SchemaHolder publishes InstanceSchema snapshots.  Writers replace
// the whole snapshot; readers fetch once per batch and treat the
// result as immutable.  No locks on the hot path.
type SchemaHolder struct {
	v atomic.Pointer[artm.InstanceSchema]
}

func NewSchemaHolder(schema *artm.InstanceSchema) *SchemaHolder {
	h := &SchemaHolder{}
	h.v.Store(schema)
	return h
}

func (h *SchemaHolder) Get() *artm.InstanceSchema { return h.v.Load() }

func (h *SchemaHolder) Set(schema *artm.InstanceSchema) { h.v.Store(schema) }
