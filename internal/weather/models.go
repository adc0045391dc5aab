package weather

import "time"

// UnitCelsius is the only unit the provider mapping currently produces.
const UnitCelsius = "C"

// Record is the normalized result of one successful current-conditions lookup.
type Record struct {
	Temperature float64 `json:"temperature"` // degrees in Unit
	Location    string  `json:"location"`
	Description string  `json:"description"` // raw condition text from the provider
	Unit        string  `json:"unit"`
}

// Clock returns the current wall-clock time. time.Now in production.
type Clock func() time.Time
