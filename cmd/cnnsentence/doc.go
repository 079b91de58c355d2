// Package main provides the cnnsentence command, a convolutional sentence
// classifier over tab-separated corpora. With -train it fits a model under
// k-fold cross-validation and writes the best weights plus the encoding
// metadata to the model file; without it, it loads the model file, labels
// every input record and prints the records back with the tag column
// replaced.
package main
