package models

// Submission is one place suggestion as persisted on disk.
type Submission struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Category  string  `json:"category"`
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"`
}

// SubmissionRequest is the JSON body posted by the map form.
type SubmissionRequest struct {
	Name     string     `json:"name"`
	Address  string     `json:"address"`
	Lat      Coordinate `json:"lat"`
	Lng      Coordinate `json:"lng"`
	Category string     `json:"category"`
}
