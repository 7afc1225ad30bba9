package services

import "errors"

// Dashboard service errors
var (
	ErrUnknownChart   = errors.New("unknown chart")
	ErrNoDataSource   = errors.New("no data source configured")
	ErrNothingToWrite = errors.New("no monthly totals to export")
)
