package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ReportSubmission is built once, at submit time, from the session's
// last known coordinate and the validated answer snapshot. Immutable
// after construction; the backend record becomes the source of truth.
type ReportSubmission struct {
	ID          uuid.UUID         `json:"id"`
	TargetID    uuid.UUID         `json:"target_id"`
	Module      Module            `json:"module"`
	Coordinate  Coordinate        `json:"coordinate"`
	Answers     map[string]Answer `json:"answers"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// PhotoURLs collects every photo reference across all answers, in
// deterministic order (question ID, field key, slot). Stored alongside
// the answer payload so QC reviewers can pull the gallery without
// unpacking the questionnaire JSON.
func (r *ReportSubmission) PhotoURLs() []string {
	questionIDs := make([]string, 0, len(r.Answers))
	for id := range r.Answers {
		questionIDs = append(questionIDs, id)
	}
	sort.Strings(questionIDs)

	var urls []string
	for _, qid := range questionIDs {
		a := r.Answers[qid]
		fieldKeys := make([]string, 0, len(a.Photos))
		for k := range a.Photos {
			fieldKeys = append(fieldKeys, k)
		}
		sort.Strings(fieldKeys)
		for _, fk := range fieldKeys {
			for _, url := range a.Photos[fk] {
				if url != "" {
					urls = append(urls, url)
				}
			}
		}
	}
	return urls
}
