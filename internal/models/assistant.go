package models

import "time"

// OutputText is what the UI layer holds for a generated reply
type OutputText struct {
	RawMarkdown  string // normalized Markdown
	RenderedHTML string // empty until rendered
}

// HistoryEntry represents one row of the local history log
type HistoryEntry struct {
	ID        int64
	Timestamp time.Time
	Mode      string
	Tone      string
	Input     string
	Output    string
}

// TaskRequest holds everything needed to create a tracker task
type TaskRequest struct {
	Name          string
	Notes         string
	DueOn         *time.Time
	Assignee      string            // tracker user ID, empty when unassigned
	Priority      string            // select option name, empty when unset
	Fields        map[string]string // extra select properties
	Subtasks      []string          // in source order
	OriginalEmail string
}

// Clip is the result of reading the clipboard
type Clip struct {
	HTML string
	Text string
}

// Empty reports whether the clipboard had nothing usable
func (c Clip) Empty() bool {
	return c.HTML == "" && c.Text == ""
}
