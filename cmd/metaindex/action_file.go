package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tablemeta/metaindex/pkg/types"
)

// actionEnvelope is the subset of action.Envelope the CLI needs before
// handing the raw blob to action.Parse, which re-decodes it: just enough
// to build the types.Instant the Coordinator requires.
type actionEnvelope struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

func readInstant(path string) (types.Instant, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Instant{}, nil, fmt.Errorf("reading action file %s: %w", path, err)
	}

	var env actionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return types.Instant{}, nil, fmt.Errorf("decoding action envelope %s: %w", path, err)
	}

	return types.Instant{
		Action:    types.ActionKind(env.Action),
		Timestamp: env.Timestamp,
		State:     types.InstantRequested,
	}, raw, nil
}
