package errors

import "net/http"

var (
	ErrLocationUnavailable = New(
		"LOCATION_UNAVAILABLE",
		"Device location is unavailable",
		http.StatusConflict,
	)

	ErrOutOfRange = New(
		"OUT_OF_RANGE",
		"You must be within the fence radius of the target to submit",
		http.StatusConflict,
	)

	ErrIncompleteAnswer = New(
		"INCOMPLETE_ANSWER",
		"Questionnaire has an unmet requirement",
		http.StatusUnprocessableEntity,
	)

	ErrUploadFailed = New(
		"UPLOAD_FAILED",
		"Photo upload failed",
		http.StatusBadGateway,
	)

	ErrSubmissionFailed = New(
		"SUBMISSION_FAILED",
		"Report could not be stored, entered answers were preserved",
		http.StatusBadGateway,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrTargetNotFound = New(
		"TARGET_NOT_FOUND",
		"Target point not found",
		http.StatusNotFound,
	)

	ErrTargetHasNoLocation = New(
		"TARGET_HAS_NO_LOCATION",
		"Target point has no coordinates, distance check is not applicable",
		http.StatusConflict,
	)

	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Report session not found or expired",
		http.StatusNotFound,
	)

	ErrSessionAlreadySubmitted = New(
		"SESSION_ALREADY_SUBMITTED",
		"Report session was already submitted",
		http.StatusConflict,
	)

	ErrSubmitInFlight = New(
		"SUBMIT_IN_FLIGHT",
		"A submission for this session is already in progress",
		http.StatusConflict,
	)

	ErrInvalidProximityToken = New(
		"INVALID_PROXIMITY_TOKEN",
		"Proximity token is missing, invalid or expired",
		http.StatusConflict,
	)

	ErrUnknownQuestion = New(
		"UNKNOWN_QUESTION",
		"Question is not part of this questionnaire",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
