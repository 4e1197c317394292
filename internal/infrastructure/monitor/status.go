package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Bolt       bool      `json:"bolt"`
	Pending    int       `json:"pending_notifications"`
	LastCheck  time.Time `json:"last_check"`
}
