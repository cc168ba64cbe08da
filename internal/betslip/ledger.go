// Package betslip implements the in-memory betslip ledger: the single
// source of truth for which prop selections the user currently has saved.
package betslip

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/logging"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
)

// SelectionStore persists betslip legs durably. Writes are fire-and-forget
// from the ledger's point of view: the in-memory state is authoritative and
// a lagging or failed write never blocks or reverts a toggle.
type SelectionStore interface {
	SaveLegs(ctx context.Context, legs []models.BetslipLeg) error
	LoadLegs(ctx context.Context) ([]models.BetslipLeg, error)
}

// Ledger is a deduplicated, ordered collection of selected legs.
// Toggling the same id twice restores the original membership and the
// originally stored leg data.
type Ledger struct {
	mu     sync.Mutex
	legs   []models.BetslipLeg
	index  map[string]int
	store  SelectionStore
	logger *logging.Logger
}

// NewLedger creates a ledger backed by the given store. A nil store keeps
// the ledger purely in-memory.
func NewLedger(store SelectionStore, logger *logging.Logger) *Ledger {
	return &Ledger{
		index:  make(map[string]int),
		store:  store,
		logger: logger,
	}
}

// Restore loads persisted legs into an empty ledger at startup
func (l *Ledger) Restore(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	legs, err := l.store.LoadLegs(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.legs = l.legs[:0]
	l.index = make(map[string]int, len(legs))
	for _, leg := range legs {
		if _, ok := l.index[leg.ID]; ok {
			continue
		}
		l.index[leg.ID] = len(l.legs)
		l.legs = append(l.legs, leg)
	}
	return nil
}

// Toggle adds the leg if its id is absent and removes it if present,
// returning whether the leg is now in the ledger. Insertion order of the
// surviving legs is preserved across removals.
func (l *Ledger) Toggle(leg models.BetslipLeg) bool {
	l.mu.Lock()
	var added bool
	if i, ok := l.index[leg.ID]; ok {
		l.legs = append(l.legs[:i], l.legs[i+1:]...)
		delete(l.index, leg.ID)
		for j := i; j < len(l.legs); j++ {
			l.index[l.legs[j].ID] = j
		}
	} else {
		l.index[leg.ID] = len(l.legs)
		l.legs = append(l.legs, leg)
		added = true
	}
	snapshot := append([]models.BetslipLeg(nil), l.legs...)
	l.mu.Unlock()

	l.persist(snapshot)
	return added
}

// Clear empties the ledger
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.legs = nil
	l.index = make(map[string]int)
	l.mu.Unlock()

	l.persist(nil)
}

// Contains reports whether a selection id is currently saved
func (l *Ledger) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.index[id]
	return ok
}

// Legs returns the saved legs in insertion order
func (l *Ledger) Legs() []models.BetslipLeg {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.BetslipLeg(nil), l.legs...)
}

// Len returns the number of saved legs
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.legs)
}

// Odds returns the American odds of each saved leg in order
func (l *Ledger) Odds() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	odds := make([]int, len(l.legs))
	for i, leg := range l.legs {
		odds[i] = leg.Odds
	}
	return odds
}

// ExportText renders the saved legs in the copy/export format, one per line
func (l *Ledger) ExportText() string {
	legs := l.Legs()
	lines := make([]string, len(legs))
	for i, leg := range legs {
		lines[i] = leg.ExportLine()
	}
	return strings.Join(lines, "\n")
}

// persist writes the snapshot in the background; the in-memory state has
// already moved on and a failure only gets logged.
func (l *Ledger) persist(snapshot []models.BetslipLeg) {
	if l.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.store.SaveLegs(ctx, snapshot); err != nil && l.logger != nil {
			l.logger.WithError(err).WithField("legs", len(snapshot)).Error("Failed to persist betslip")
		}
	}()
}
