package models

import "fmt"

// Accuracy selects the dataset quality requested from upstream providers.
type Accuracy string

const (
	AccuracyLow    Accuracy = "low"
	AccuracyMedium Accuracy = "medium"
	AccuracyHigh   Accuracy = "high"
)

// ParseAccuracy returns the accuracy for s, defaulting to medium when empty.
func ParseAccuracy(s string) (Accuracy, error) {
	switch Accuracy(s) {
	case "":
		return AccuracyMedium, nil
	case AccuracyLow, AccuracyMedium, AccuracyHigh:
		return Accuracy(s), nil
	}
	return "", fmt.Errorf("invalid accuracy %q, must be one of low, medium, high", s)
}
