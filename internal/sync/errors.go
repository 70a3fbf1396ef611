package sync

import "errors"

// Failure taxonomy for remote operations. Every failed call is wrapped into
// one of these and stored in the owning synchronizer's last-error slot;
// nothing propagates as a panic and no retry happens automatically.
var (
	// ErrUnauthenticated indicates the operation needs a signed-in actor.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrRemoteWrite indicates a create/update/delete was rejected or failed.
	ErrRemoteWrite = errors.New("remote write failed")

	// ErrRemoteRead indicates an initial fetch or subscription setup failed.
	ErrRemoteRead = errors.New("remote read failed")
)
