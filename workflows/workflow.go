// Package workflows models user-submitted transcription jobs. A workflow
// is a plain database record: nothing in this process schedules or
// executes it, downstream workers claim rows by status.
package workflows

import "encoding/json"

// Type discriminates workflow categories. Only video transcription
// exists today.
type Type int

const (
	TypeVideo Type = 1
)

// Status is the job lifecycle state recorded with each row.
type Status int

const (
	StatusTodo Status = iota + 1
	StatusLocked
	StatusClaimed
	StatusWorking
	StatusError
	StatusFailed
	StatusDone
)

// Args is the user-supplied job payload, stored as a JSON string in the
// workflow row.
type Args struct {
	VideoUUID      string   `json:"video_uuid,omitempty"`
	AutoUpload     bool     `json:"auto_upload"`
	Language       string   `json:"language,omitempty"`
	TranscriptFmts []string `json:"transcript_fmts"`
	Promotes       string   `json:"promotes,omitempty"`
}

// ParseArgs decodes the JSON payload submitted with a new workflow.
func ParseArgs(raw string) (Args, error) {
	var args Args
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return Args{}, err
	}
	return args, nil
}

// ToJSON renders the args for storage.
func (a Args) ToJSON() (string, error) {
	encoded, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

type Workflow struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	CreatedAt int64  `json:"create_at"`
	Args      Args   `json:"args"`
	Type      Type   `json:"type"`
	Status    Status `json:"status"`
}
