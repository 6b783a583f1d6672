package protocol

import "encoding/json"

// HELLO (tracker -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
	// WantProfile asks for the full profile right after WELCOME.
	WantProfile bool `json:"want_profile,omitempty"`
}

// WELCOME (server -> tracker)
type WelcomeMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	ExportID        string   `json:"export_id"`
	Seed            int64    `json:"seed"`
	Counts          Counts   `json:"counts"`
	ShopDefaults    uint32   `json:"shop_defaults"`
	Modules         []string `json:"modules,omitempty"`
}

type Counts struct {
	Placements  int `json:"placements"`
	Items       int `json:"items"`
	Transitions int `json:"transitions"`
}

// PROFILE (server -> tracker)
type ProfileMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	Profile         json.RawMessage `json:"profile"`
}

// QUERY (tracker -> server): where was an item placed?
type QueryMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Item            string `json:"item"`
}

// RESULT (server -> tracker)
type ResultMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Item            string      `json:"item"`
	Hits            []ResultHit `json:"hits"`
}

type ResultHit struct {
	Index    int    `json:"index"`
	Location string `json:"location"`
	Cost     string `json:"cost,omitempty"`
}

// ERROR (server -> tracker)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
