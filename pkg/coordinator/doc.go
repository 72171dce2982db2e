/*
Package coordinator implements the Coordinator (CO): SPEC_FULL.md §4.8.

It is the in-process driver that applies a single instant's raw action
blobs to the index: parse (AR) → normalize rollbacks/restores (RN) →
build files/bloom/column-stats records (FIB/BIB/CIB) → route (RR). It
adds no indexing rule of its own; it only sequences the rest of this
module's packages in commit order and enforces that a run either
produces its full routed output or none at all.

Dispatch is grounded on cuemby-warren's WarrenFSM.Apply
(pkg/manager/fsm.go): a switch over an action-kind tag, one case per
kind, each case decoding its payload and delegating. Persistence of
instant lifecycle state and the synced flag goes through
pkg/timelinestore; operational visibility goes through pkg/events.
*/
package coordinator
