// Package trainer provides high-level training orchestration for the
// sentence classifier. It drives cross-validated training over encoded
// corpora, building a fresh model and updater per fold and aggregating the
// held-out accuracies.
package trainer
