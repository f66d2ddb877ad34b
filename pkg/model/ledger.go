package model

import (
	"maps"
	"slices"
)

// Ledger records, per session key, the slots committed during one generation
// in commit order. It is shared by every grid of a Timetable.
type Ledger struct {
	keys  []SessionKey
	slots map[SessionKey][]Slot
}

func NewLedger() *Ledger {
	return &Ledger{
		keys:  make([]SessionKey, 0),
		slots: make(map[SessionKey][]Slot),
	}
}

func (ledger *Ledger) Record(key SessionKey, slot Slot) {
	if _, ok := ledger.slots[key]; !ok {
		ledger.keys = append(ledger.keys, key)
	}
	ledger.slots[key] = append(ledger.slots[key], slot)
}

func (ledger *Ledger) Forget(key SessionKey, slot Slot) bool {
	slots := ledger.slots[key]
	index := slices.Index(slots, slot)
	if index < 0 {
		return false
	}
	ledger.slots[key] = slices.Delete(slices.Clone(slots), index, index+1)
	return true
}

func (ledger *Ledger) Has(key SessionKey, slot Slot) bool {
	return slices.Contains(ledger.slots[key], slot)
}

func (ledger *Ledger) Slots(key SessionKey) []Slot {
	return slices.Clone(ledger.slots[key])
}

// Keys lists every key holding at least one slot, in first-commit order.
func (ledger *Ledger) Keys() []SessionKey {
	keys := make([]SessionKey, 0, len(ledger.keys))
	for _, key := range ledger.keys {
		if len(ledger.slots[key]) > 0 {
			keys = append(keys, key)
		}
	}
	return keys
}

func (ledger *Ledger) Clone() *Ledger {
	slots := maps.Clone(ledger.slots)
	for key, value := range slots {
		slots[key] = slices.Clone(value)
	}
	return &Ledger{
		keys:  slices.Clone(ledger.keys),
		slots: slots,
	}
}
