package models

// Challenge is catalog content. The core never persists it, only the
// completion metadata on Account.
type Challenge struct {
	ID           string   `json:"id" yaml:"id"`
	Question     string   `json:"question" yaml:"question"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correct_index" yaml:"correct_index"`
	Explanation  string   `json:"explanation" yaml:"explanation"`
	Reward       int      `json:"reward" yaml:"reward"`
}
