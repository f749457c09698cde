// Package menu provides the use cases that generate a weekly dinner menu,
// publish it to the document store and retire old menus.
package menu

import "errors"

// Sentinel errors for menu use case operations.
var (
	// ErrNoMenu indicates that no generated menu is available to publish.
	ErrNoMenu = errors.New("no generated menu available")

	// ErrEmptyMenu indicates that the generated menu has no content.
	ErrEmptyMenu = errors.New("generated menu is empty")
)
