package storage_test

import (
	"time"

	"github.com/rshade/ecopulse/internal/engine"
)

func sampleState() engine.State {
	ts := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	return engine.Reduce(engine.NewState(), engine.LoadData{State: engine.State{
		Activities: []engine.Activity{
			{ID: "01HXA", Category: "transport", Subcategory: "car", Quantity: 10, Timestamp: ts, Emissions: 2.1},
			{ID: "01HXB", Category: "diet", Subcategory: "meat", Quantity: 1, Timestamp: ts, Emissions: 6.61},
		},
		Badges: []engine.Badge{{
			ID: engine.BadgeEnergySaver, Name: "Energy Saver", Icon: "⚡", EarnedAt: ts,
		}},
		Tips: engine.TipsFor("diet"),
	}})
}
