package allocation

import (
	"github.com/limaJavier/classplanner/pkg/model"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// rematch revisits every slot left with unallocated sessions and replaces its
// greedy seating by a maximum matching whenever the matching seats more.
func (allocator *Allocator) rematch(entries []Entry, occupancy map[occupancyKey]bool) {
	slots := make([]model.Slot, 0)
	perSlot := make(map[model.Slot][]int)
	for i, entry := range entries {
		slot := entry.Session.Slot
		if _, ok := perSlot[slot]; !ok {
			slots = append(slots, slot)
		}
		perSlot[slot] = append(perSlot[slot], i)
	}

	for _, slot := range slots {
		indexes := perSlot[slot]
		seated := lo.CountBy(indexes, func(i int) bool { return entries[i].Allocated() })
		if seated == len(indexes) {
			continue
		}

		matching, ok := allocator.largestMatching(entries, indexes)
		if !ok || len(matching) <= seated {
			continue
		}

		// Release the greedy seating of this slot
		for _, i := range indexes {
			if entries[i].Allocated() {
				delete(occupancy, occupancyKey{room: entries[i].Room, slot: slot})
			}
			entries[i].Room, entries[i].Capacity = "", 0
		}
		for i, room := range matching {
			entries[i].Room, entries[i].Capacity = room.Name, room.Capacity
			occupancy[occupancyKey{room: room.Name, slot: slot}] = true
		}
	}
}

// largestMatching pairs entries of one slot with rooms able to seat them.
func (allocator *Allocator) largestMatching(entries []Entry, indexes []int) (map[int]model.Room, bool) {
	// Build neighbors predicate based on capacity
	neighbors := func(entryAny any, roomAny any) (bool, error) {
		entry := entries[entryAny.(int)]
		room := allocator.rooms[roomAny.(int)]
		return room.Capacity >= entry.Enrollment, nil
	}

	// Transform entries and rooms to slices of any
	entriesAny := lo.Map(indexes, func(i int, _ int) any { return i })
	roomsAny := lo.Map(lo.Range(len(allocator.rooms)), func(room int, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(entriesAny, roomsAny, neighbors)
	if err != nil {
		return nil, false
	}

	matching := make(map[int]model.Room)
	for _, edge := range graph.LargestMatching() {
		entryIndex, roomIndex := edge.Node1, edge.Node2-len(indexes)
		matching[indexes[entryIndex]] = allocator.rooms[roomIndex]
	}
	return matching, true
}
