/*
Package timelinestore implements the Timeline Store (TS): SPEC_FULL.md
§4.9. It is a bbolt-backed capability.Timeline implementation that persists,
per instant, its lifecycle state and whether it has been synced into the
index, plus the timeline's retained start boundary used by the
Rollback/Restore Normalizer's Case B check.

Store exposes the read-only capability.Timeline surface (Contains,
IsBeforeStart) to builders, a separate mutation API (RecordStart,
MarkSynced) used only by the Coordinator, and SetStart, which records
the retained start boundary.
*/
package timelinestore
