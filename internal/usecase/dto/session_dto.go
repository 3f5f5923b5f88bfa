package dto

// CreateSessionRequest - opens a report session against a target
type CreateSessionRequest struct {
	TargetID string `json:"target_id" validate:"required,uuid4"`
}

// SessionResponse - session state as presented to field apps
type SessionResponse struct {
	ID            string            `json:"id"`
	Target        TargetDTO         `json:"target"`
	Module        string            `json:"module"`
	FenceRadiusM  float64           `json:"fence_radius_m"`
	TrackerStatus string            `json:"tracker_status"`
	AnswerState   string            `json:"answer_state"`
	Questionnaire string            `json:"questionnaire"`
	Distance      *DistanceDTO      `json:"distance,omitempty"`
	Unmet         *UnmetRequirement `json:"unmet,omitempty"`
}

// DistanceDTO - current device-to-target reading
type DistanceDTO struct {
	Meters      float64 `json:"meters"`
	WithinFence bool    `json:"within_fence"`
}

// UnmetRequirement - first questionnaire requirement still missing
type UnmetRequirement struct {
	QuestionID string `json:"question_id"`
	FieldKey   string `json:"field_key,omitempty"`
	Message    string `json:"message"`
}

// PositionRequest - one device position push for an active session
type PositionRequest struct {
	Latitude  float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `json:"longitude" validate:"min=-180,max=180"`
	Accuracy  *float64 `json:"accuracy,omitempty" validate:"omitempty,min=0"`
}

// AnswerRequest - records a primary answer, sub-field or photo slot
type AnswerRequest struct {
	QuestionID string  `json:"question_id" validate:"required"`
	Value      *string `json:"value,omitempty"`
	FieldKey   string  `json:"field_key,omitempty"`
	FieldValue *string `json:"field_value,omitempty"`
	PhotoSlot  *int    `json:"photo_slot,omitempty" validate:"omitempty,min=0"`
	PhotoURL   *string `json:"photo_url,omitempty"`
}

// ReportContextResponse - everything the app needs before offering submit
type ReportContextResponse struct {
	SessionID       string       `json:"session_id"`
	Distance        *DistanceDTO `json:"distance,omitempty"`
	AllowedToSubmit bool         `json:"allowed_to_submit"`
	ProximityToken  string       `json:"proximity_token,omitempty"`
	AnswerState     string       `json:"answer_state"`
}

// SubmitRequest - final submission of a report session
type SubmitRequest struct {
	ProximityToken string `json:"proximity_token,omitempty"`
}

// SubmitResponse - stored report identifiers
type SubmitResponse struct {
	ReportID    string `json:"report_id"`
	TargetID    string `json:"target_id"`
	SubmittedAt string `json:"submitted_at"`
}

// UploadPhotoResponse - stored media reference
type UploadPhotoResponse struct {
	URL string `json:"url"`
}

// ReportDTO - one stored submission, as shown in the target's history
type ReportDTO struct {
	ID          string   `json:"id"`
	TargetID    string   `json:"target_id"`
	Module      string   `json:"module"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	PhotoURLs   []string `json:"photo_urls"`
	SubmittedAt string   `json:"submitted_at"`
}

// ReportHistoryResponse - recent submissions for a target, newest first
type ReportHistoryResponse struct {
	Reports []ReportDTO `json:"reports"`
	Total   int         `json:"total"`
}
