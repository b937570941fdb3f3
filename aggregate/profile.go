package aggregate

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"gocargo/dataset"
)

// ClientProfile describes the spread of one client's shipment quantities.
type ClientProfile struct {
	Client    string  `json:"client"`
	Shipments int     `json:"shipments"`
	Total     float64 `json:"total"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Max       float64 `json:"max"`
}

// ProfileClients returns one profile per client in order of first appearance.
func ProfileClients(table dataset.Table, schema dataset.Schema) ([]ClientProfile, error) {
	cols := resolveColumns(table, schema)

	quantities := make(map[string]stats.Float64Data)
	for _, row := range table.Rows {
		client := cell(row, cols.client)
		if client.IsEmpty() {
			continue
		}
		name := client.String()
		quantities[name] = append(quantities[name], number(row, cols.quantity))
	}

	clients := Clients(table)
	profiles := make([]ClientProfile, 0, len(clients))
	for _, client := range clients {
		data := quantities[client]

		var sum total
		for _, quantity := range data {
			sum.add(quantity)
		}
		mean, err := data.Mean()
		if err != nil {
			return nil, fmt.Errorf("profile %s: mean: %w", client, err)
		}
		median, err := data.Median()
		if err != nil {
			return nil, fmt.Errorf("profile %s: median: %w", client, err)
		}
		largest, err := data.Max()
		if err != nil {
			return nil, fmt.Errorf("profile %s: max: %w", client, err)
		}

		profiles = append(profiles, ClientProfile{
			Client:    client,
			Shipments: data.Len(),
			Total:     sum.value(),
			Mean:      mean,
			Median:    median,
			Max:       largest,
		})
	}
	return profiles, nil
}
