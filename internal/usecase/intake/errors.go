// Package intake provides the use case that pulls this week's preference
// intake from the preference store and hands it to menu generation.
package intake

import "errors"

// ErrNoIntake indicates that no usable intake file was found for the week.
// Callers fall back to the default rules.
var ErrNoIntake = errors.New("no intake data available")
