package services

import "github.com/vsinha/shiptrack/pkg/domain/entities"

// ClassifyDeviation compares a current ship date against its original baseline.
// Earlier than promised is Ahead, later is Behind, the same day is OnTime.
func ClassifyDeviation(original, current entities.Date) entities.Deviation {
	switch c := current.Compare(original); {
	case c < 0:
		return entities.Ahead
	case c > 0:
		return entities.Behind
	default:
		return entities.OnTime
	}
}
