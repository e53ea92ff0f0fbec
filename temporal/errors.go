package temporal

import "github.com/cockroachdb/errors"

var (
	ErrInvalidTimeFormat          = errors.New("invalid time format")
	ErrInvalidTimeRangeString     = errors.New("invalid time range string")
	ErrInvalidTimeRangeArray      = errors.New("invalid time range array")
	ErrInvalidTimeRangeList       = errors.New("invalid time range list")
	ErrInvalidTimeRangeDefinition = errors.New("invalid time range definition")
)
