package models

// Score is the running tally of a game session
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percentage returns the share of correct answers, 0 when nothing was answered
func (s Score) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}
