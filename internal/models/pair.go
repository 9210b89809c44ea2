package models

// Pair is one tradable instrument from the engine's catalog.
type Pair struct {
	Symbol      string `json:"symbol"`
	DisplayName string `json:"display_name"`
}
