// Package memstore is an in-memory implementation of the persistence ports,
// used by usecase and worker tests. Transactions take a whole-store lock,
// mutate a clone, and swap it in on commit, so concurrent callers observe
// the same atomicity the database gives them.
package memstore

import (
	"sync"
	"time"

	"coupon-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

type couponRow struct {
	id               uuid.UUID
	storeID          uuid.UUID
	code             string
	name             string
	discountKind     string
	discountValue    int64
	maxDiscountCents *int64
	minOrderCents    *int64
	expiryKind       string
	expiresAt        *time.Time
	expiryDays       int
	issueStartTime   *time.Time
	totalQuantity    int32
	issuedQuantity   int32
	categories       []string
	status           string
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

type instanceRow struct {
	id         uuid.UUID
	couponID   uuid.UUID
	customerID uuid.UUID
	issuedAt   time.Time
	expiresAt  time.Time
	status     string
}

type pairKey struct {
	customerID uuid.UUID
	couponID   uuid.UUID
}

type state struct {
	coupons   map[uuid.UUID]*couponRow
	byCode    map[string]uuid.UUID
	instances map[uuid.UUID]*instanceRow
	pairs     map[pairKey]uuid.UUID
}

func newState() *state {
	return &state{
		coupons:   make(map[uuid.UUID]*couponRow),
		byCode:    make(map[string]uuid.UUID),
		instances: make(map[uuid.UUID]*instanceRow),
		pairs:     make(map[pairKey]uuid.UUID),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, row := range s.coupons {
		cp := *row
		cp.categories = append([]string(nil), row.categories...)
		c.coupons[id] = &cp
	}
	for code, id := range s.byCode {
		c.byCode[code] = id
	}
	for id, row := range s.instances {
		cp := *row
		c.instances[id] = &cp
	}
	for k, id := range s.pairs {
		c.pairs[k] = id
	}
	return c
}

type Store struct {
	mu    sync.Mutex
	state *state
	clock clock.Clock
}

func NewStore(clk clock.Clock) *Store {
	return &Store{state: newState(), clock: clk}
}
