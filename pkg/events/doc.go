/*
Package events provides an in-memory event broker for operational
visibility into the Coordinator: SPEC_FULL.md §4.10.

The broker publishes one event per completed Coordinator run, plus a
handful of lifecycle events around rollback/restore normalization and
bootstrap, to zero or more subscriber channels. It is consumed by the
CLI ("watch" output). Nothing in
the indexing algorithm itself subscribes to or depends on these events;
losing a subscriber, or even the broker going silent, never affects
correctness.

# Architecture

	┌──────────────────── EVENT BROKER ────────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │              Event Broker                    │          │
	│  │  - In-memory message bus                    │          │
	│  │  - Topic-agnostic (all events broadcast)    │          │
	│  │  - Non-blocking publish                     │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          Event Distribution                 │          │
	│  │                                              │          │
	│  │  Publisher → Event Channel (buffer: 100)    │          │
	│  │       ↓                                      │          │
	│  │  Broadcast Loop                              │          │
	│  │       ↓                                      │          │
	│  │  Subscriber Channels (buffer: 50 each)      │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Event Types                       │          │
	│  │                                              │          │
	│  │  Commit/Delta-commit Events:                │          │
	│  │    - index.commit.applied                   │          │
	│  │    - index.commit.failed                    │          │
	│  │                                              │          │
	│  │  Clean Events:                              │          │
	│  │    - index.clean.applied                    │          │
	│  │                                              │          │
	│  │  Rollback/Restore Events:                   │          │
	│  │    - index.rollback.applied                 │          │
	│  │    - index.rollback.skipped                 │          │
	│  │    - index.restore.applied                  │          │
	│  │                                              │          │
	│  │  Bootstrap Events:                          │          │
	│  │    - index.bootstrap.started                │          │
	│  │    - index.bootstrap.completed              │          │
	│  └────────────────────────────────────────────┘           │
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Subscribers                      │          │
	│  │                                              │          │
	│  │  CLI "watch": stream events to the terminal │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Core Components

Event Broker:
  - Central message bus for event distribution
  - Manages subscriber lifecycle
  - Non-blocking publish (buffered channel)
  - Graceful shutdown via stop channel

Event:
  - ID: Unique event identifier
  - Type: Event type (index.commit.applied, index.rollback.skipped, etc.)
  - Timestamp: When event occurred
  - Message: Human-readable description
  - Metadata: Key-value pairs for additional context (instant_ts, partition counts, etc.)

Subscriber:
  - Channel that receives Event pointers
  - Buffered (50 events) to handle bursts
  - Created via broker.Subscribe()
  - Closed via broker.Unsubscribe()

# Event Flow

Publish Flow:
 1. Coordinator calls broker.Publish(event) after an instant finishes (or is skipped)
 2. Event added to main event channel (non-blocking)
 3. Broadcast loop receives event
 4. Event sent to all subscriber channels
 5. Subscribers receive event asynchronously
 6. Full subscriber buffers skip (no blocking)

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	go func() {
		for event := range sub {
			fmt.Printf("[%s] %s: %s\n", event.Timestamp.Format("15:04:05"), event.Type, event.Message)
		}
	}()

	broker.Publish(&events.Event{
		Type:    events.EventCommitApplied,
		Message: "instant 20260802010101 applied",
		Metadata: map[string]string{
			"instant_ts":    "20260802010101",
			"records_added": "42",
		},
	})

# Design Patterns

Non-Blocking Publish:
  - Publish sends to buffered channel, returns immediately
  - Events may be dropped if the buffer is full
  - Trade-off: throughput over guaranteed delivery — acceptable because
    the Coordinator never reads these events back

Fire-and-Forget:
  - No acknowledgment from subscribers, no retry on delivery failure
  - Suitable for operational visibility, never for correctness

# Limitations

  - In-memory only, no persistence or replay
  - No guaranteed delivery (best effort)
  - No topic-based filtering (all events broadcast; filter at the subscriber)
*/
package events
