// internal/models/batch.go
package models

// CommandBatch is one persisted increment of match commands and events.
// The match engine writes batches; this service only reads them for display.
// Command and Events are JSON-encoded exactly as the engine produced them.
type CommandBatch struct {
	Command   string `json:"command"`
	Events    string `json:"events"`
	Seat      Seat   `json:"seat"`
	Version   int64  `json:"version"`
	CreatedAt int64  `json:"createdAt"`
}
