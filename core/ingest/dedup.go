package ingest

import "github.com/huangsam/hirefunnel/schema"

// KeySet builds the natural key hash set of events.
func KeySet(events []schema.InterviewEvent) map[string]struct{} {
	keys := make(map[string]struct{}, len(events))
	for _, ev := range events {
		keys[ev.KeyHash()] = struct{}{}
	}
	return keys
}

// ComputeNewRecords returns the batch events whose natural key is not among
// the persisted events, in batch order.
func ComputeNewRecords(batch, persisted []schema.InterviewEvent) []schema.InterviewEvent {
	fresh, _ := FilterNew(batch, KeySet(persisted))
	return fresh
}

// FilterNew drops batch events whose key hash is in known. It returns the
// kept events and the number dropped.
func FilterNew(batch []schema.InterviewEvent, known map[string]struct{}) ([]schema.InterviewEvent, int) {
	fresh := make([]schema.InterviewEvent, 0, len(batch))
	for _, ev := range batch {
		if _, ok := known[ev.KeyHash()]; ok {
			continue
		}
		fresh = append(fresh, ev)
	}
	return fresh, len(batch) - len(fresh)
}

// DedupeBatch removes repeats inside one batch, keeping the first
// occurrence. It returns the kept events and the number removed.
func DedupeBatch(batch []schema.InterviewEvent) ([]schema.InterviewEvent, int) {
	seen := make(map[string]struct{}, len(batch))
	kept := make([]schema.InterviewEvent, 0, len(batch))
	for _, ev := range batch {
		key := ev.KeyHash()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, ev)
	}
	return kept, len(batch) - len(kept)
}
