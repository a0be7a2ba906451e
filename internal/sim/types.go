package sim

type Event struct {
	Day     int            `json:"day"`
	Date    string         `json:"date"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

const (
	EventSpawn     = "Spawn"
	EventMove      = "Move"
	EventCaseOnset = "CaseOnset"
	EventBurst     = "Burst"
	EventMatch     = "Match"
)
