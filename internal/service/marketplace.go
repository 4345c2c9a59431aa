package service

import (
	"github.com/ArrobaLab/maipro/internal/store"
)

// Marketplace covers the provider, catalog, booking and review flows. Status
// changes notify the counterparty through the push service's fan-out.
type Marketplace struct {
	store *store.Store
	push  *Push
}

func NewMarketplace(st *store.Store, push *Push) *Marketplace {
	return &Marketplace{store: st, push: push}
}
