package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/scribeav/go-transcribe-server/workflows"
)

// workflowMetadata is the listing shape the SPA renders. video_title is
// not stored with the workflow row yet, it stays null until the video
// table exists.
type workflowMetadata struct {
	ID             int64    `json:"id"`
	VideoUUID      string   `json:"video_uuid,omitempty"`
	VideoTitle     *string  `json:"video_title"`
	CreatedAt      int64    `json:"create_at"`
	TranscriptFmts []string `json:"transcript_fmts"`
	AutoUpload     bool     `json:"auto_upload"`
	Status         int      `json:"status"`
}

// WorkflowAddHandler records a new transcription job for the caller.
// Args arrive as a JSON string form value; the row starts in todo state
// and is picked up out of band.
func (s *Server) WorkflowAddHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())

		args, err := workflows.ParseArgs(r.FormValue("args"))
		if err != nil {
			log.Err(err).Int64("user_id", user.ID).Msg("workflow args are not valid JSON")
			http.Error(w, "Invalid args: "+err.Error(), http.StatusBadRequest)
			return
		}

		typ, err := parseWorkflowType(r.FormValue("type"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		workflow, err := s.workflows.Create(r.Context(), user.ID, args, typ)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		log.Info().Int64("workflow_id", workflow.ID).Int64("user_id", user.ID).Msg("workflow created")
		writeJSON(w, http.StatusCreated, map[string]any{"workflow_id": workflow.ID})
	}
}

// WorkflowListHandler returns the caller's workflows of the requested
// type, trimmed down to listing metadata.
func (s *Server) WorkflowListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())

		typ, err := parseWorkflowType(r.FormValue("type"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		list, err := s.workflows.ListByUser(r.Context(), user.ID, typ)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		if len(list) == 0 {
			log.Warn().Int64("user_id", user.ID).Int("type", int(typ)).Msg("no workflows found")
		}

		metadatas := make([]workflowMetadata, 0, len(list))
		for _, workflow := range list {
			fmts := workflow.Args.TranscriptFmts
			if fmts == nil {
				fmts = []string{}
			}
			metadatas = append(metadatas, workflowMetadata{
				ID:             workflow.ID,
				VideoUUID:      workflow.Args.VideoUUID,
				CreatedAt:      workflow.CreatedAt,
				TranscriptFmts: fmts,
				AutoUpload:     workflow.Args.AutoUpload,
				Status:         int(workflow.Status),
			})
		}
		writeJSON(w, http.StatusOK, metadatas)
	}
}

func parseWorkflowType(raw string) (workflows.Type, error) {
	value, err := strconv.Atoi(raw)
	if err != nil || workflows.Type(value) != workflows.TypeVideo {
		return 0, fmt.Errorf("unknown workflow type: %q", raw)
	}
	return workflows.Type(value), nil
}
