package service

import "time"

type Status string

const (
	StatusConverted Status = "converted"
	StatusFailed    Status = "failed"
)

// Result is the outcome of one file. Err is set only when Status is failed.
type Result struct {
	Index      int
	Path       string
	OutputPath string
	Status     Status
	Width      int
	Height     int
	Resized    bool
	Err        error
	Duration   time.Duration
}

type Summary struct {
	RunID     string
	Dir       string
	Total     int
	Converted int
	Failed    int
	Results   []Result
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusConverted:
		s.Converted++
	case StatusFailed:
		s.Failed++
	}
}
