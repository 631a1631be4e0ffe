package monitor

import "time"

type Status struct {
	PostgreSQL  bool      `json:"postgresql"`
	Redis       bool      `json:"redis"`
	Journal     bool      `json:"journal"`
	JournalSize int       `json:"journal_size"`
	Oracle      bool      `json:"oracle"`
	LastCheck   time.Time `json:"last_check"`
}
