package engine

import "errors"

var (
	// ErrInvalidSubmission rejects a malformed ingestion request before it
	// touches the log.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrOutOfWindow marks a submission whose timestamp matches no scoreable
	// window. The event is still appended to the log for auditing.
	ErrOutOfWindow = errors.New("submission out of scoring window")

	// ErrUserNotFound is returned for profile queries on usernames with no
	// score record in any period and no roster identity.
	ErrUserNotFound = errors.New("user not found")

	// ErrRerankConflict means an update lost a race with a period rollover.
	// The writer lane retries it automatically; callers never see it unless
	// the retry budget is exhausted.
	ErrRerankConflict = errors.New("rerank conflict with concurrent rollover")

	// ErrReplayDivergence means a recomputation from the event log disagrees
	// with the published snapshot. That is a determinism bug: the caller must
	// halt and alert, never reconcile silently.
	ErrReplayDivergence = errors.New("replay diverged from published snapshot")
)
