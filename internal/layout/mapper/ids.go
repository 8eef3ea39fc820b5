package mapper

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// ============================================================
// Identity
// ============================================================

// IDProvider выдаёт новые уникальные идентификаторы клавиш.
type IDProvider interface {
	NewID() string
}

type UUIDProvider struct{}

func (UUIDProvider) NewID() string {
	return uuid.NewString()
}

// SequenceProvider выдаёт детерминированные id вида prefix-1, prefix-2, ...
type SequenceProvider struct {
	Prefix string
	n      atomic.Int64
}

func NewSequenceProvider(prefix string) *SequenceProvider {
	return &SequenceProvider{Prefix: prefix}
}

func (p *SequenceProvider) NewID() string {
	return fmt.Sprintf("%s-%d", p.Prefix, p.n.Add(1))
}
