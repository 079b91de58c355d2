// Package learning implements the parameter update rules applied between
// mini-batches of training.
package learning

import "github.com/iabd/CNN-sentence/mat"

// Updater applies the gradients accumulated on a set of parameters and
// clears them. The trainer hands every fold a fresh Updater, so update
// state never leaks across folds.
type Updater interface {
	Update(params []*mat.Mat)
}
