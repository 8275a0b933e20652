package repository

import "errors"

var (
	// ErrComputeAlreadyActive is returned by ResumeCompute when the compute unit is already running.
	ErrComputeAlreadyActive = errors.New("compute unit already active")
	// ErrResumeUnsupported is returned by ResumeCompute on engines without suspendable compute.
	ErrResumeUnsupported = errors.New("compute resume not supported")
)
