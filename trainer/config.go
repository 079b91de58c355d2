package trainer

import (
	"log"
	"os"
)

// SetLogger sets the output logger file where per-fold training progress is
// appended.
func (c *Config) SetLogger(filename string) {
	outfile, _ := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	c.l = log.New(outfile, "", 0)
}

type Config struct {
	Folds int // cross-validation folds, below 2 trains once on everything

	Epochs int // training epochs per fold

	l *log.Logger
}
