package amqp

import (
	"encoding/json"
	"time"
)

// SummaryMessage carries one rendered summary table.
type SummaryMessage struct {
	RunID       string     `json:"run_id"`
	Granularity string     `json:"granularity"`
	Header      []string   `json:"header"`
	Rows        [][]string `json:"rows"`
	Timestamp   time.Time  `json:"timestamp"`
}

func NewSummaryMessage(runID, granularity string, header []string, rows [][]string) *SummaryMessage {
	if rows == nil {
		rows = [][]string{}
	}
	return &SummaryMessage{
		RunID:       runID,
		Granularity: granularity,
		Header:      header,
		Rows:        rows,
		Timestamp:   time.Now(),
	}
}

func (m *SummaryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SummaryMessageFromJSON(data []byte) (*SummaryMessage, error) {
	var msg SummaryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
