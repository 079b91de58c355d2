package main

import "flag"
import "fmt"
import "math/rand"
import "os"
import "strconv"
import "strings"

import "github.com/iabd/CNN-sentence/artifact"
import "github.com/iabd/CNN-sentence/convnet"
import "github.com/iabd/CNN-sentence/corpus"
import "github.com/iabd/CNN-sentence/embedding"
import "github.com/iabd/CNN-sentence/inference"
import "github.com/iabd/CNN-sentence/learning"
import "github.com/iabd/CNN-sentence/trainer"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] MODEL INPUT\n", os.Args[0])
	flag.PrintDefaults()
	os.Exit(2)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, os.Args[0]+":", err)
	os.Exit(1)
}

func main() {
	train := flag.Bool("train", false, "train model")
	lower := flag.Bool("lower", false, "lowercase text")
	cv := flag.Int("cv", 10, "perform cross validation, 0 for no cross validation")
	filters := flag.String("filters", "3,4,5", "comma-separated convolution filter heights")
	vectors := flag.String("vectors", "", "word2vec embeddings file (random values if missing)")
	dim := flag.Int("dim", 300, "embedding size when no -vectors file is given")
	dropout := flag.Float64("dropout", 0.5, "dropout probability")
	hidden := flag.Int("hidden", 100, "hidden units in feature map")
	epochs := flag.Int("epochs", 25, "training iterations")
	batch := flag.Int("batch", 50, "mini-batch size")
	maxnorm := flag.Float64("maxnorm", 3.0, "norm ceiling on output rows, 0 disables")
	tagField := flag.Int("tagField", 1, "label field in files")
	textField := flag.Int("textField", 2, "text field in files")
	numwords := flag.Bool("numwords", false, "spell integer tokens as English words")
	logfile := flag.String("log", "", "append per-fold training progress to a file")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 {
		usage()
	}
	model, input := flag.Arg(0), flag.Arg(1)

	opt := corpus.Options{
		TagField:    *tagField,
		TextField:   *textField,
		Lower:       *lower,
		SpellDigits: *numwords,
	}

	filterHs, err := parseFilters(*filters)
	if err != nil {
		fatal(err)
	}

	if !*train {
		predict(model, input, opt)
		return
	}

	// training
	rand.Seed(345) // for replicability

	fmt.Print("loading sentences... ")
	in, err := os.Open(input)
	if err != nil {
		fatal(err)
	}
	sents, wordDF, labels, err := corpus.LoadSentences(in, opt)
	in.Close()
	if err != nil {
		fatal(err)
	}
	if len(sents) == 0 {
		fatal(fmt.Errorf("no sentences in %s", input))
	}
	maxL := 0
	for _, s := range sents {
		if len(s.Tokens) > maxL {
			maxL = len(s.Tokens)
		}
	}
	fmt.Printf("number of sentences: %d\n", len(sents))
	fmt.Printf("vocab size: %d\n", len(wordDF))
	fmt.Printf("max sentence length: %d\n", maxL)

	var (
		vecs  [][]float64
		words []string
		k     = *dim
	)
	if *vectors != "" {
		fmt.Print("loading word2vec vectors... ")
		vecs, words, err = embedding.LoadVectors(*vectors, strings.HasSuffix(*vectors, ".bin"))
		if err != nil {
			fatal(err)
		}
		if len(vecs) == 0 {
			fatal(fmt.Errorf("no vectors in %s", *vectors))
		}
		k = len(vecs[0])
		fmt.Printf("done (%d, %d)\n", len(vecs), k)
	} else {
		fmt.Println("using: random vectors")
	}
	fmt.Print("adding unknown words... ")
	vecs, words = embedding.AddUnknownWords(vecs, words, sents, wordDF, 1, k)
	fmt.Println(len(words))
	table, wordIndex, err := embedding.Assemble(vecs, words)
	if err != nil {
		fatal(err)
	}

	pad := maxHeight(filterHs) - 1
	height := maxL + 2*pad

	x := make([][]int32, len(sents))
	y := make([]int, len(sents))
	for i, s := range sents {
		x[i] = corpus.EncodeSentence(s.Tokens, wordIndex, maxL, pad)
		y[i] = s.Label
	}

	netCfg := convnet.Config{
		Vectors:      table,
		Height:       height,
		FilterHs:     filterHs,
		FeatureMaps:  *hidden,
		Classes:      labels.Len(),
		Dropout:      *dropout,
		MaxNorm:      *maxnorm,
		BatchSize:    *batch,
		ShuffleBatch: true,
	}
	rho := 0.95
	parameters := [][2]string{
		{"image shape", fmt.Sprintf("%d,%d", height, k)},
		{"filters", *filters},
		{"feature maps", fmt.Sprint(*hidden)},
		{"output units", fmt.Sprint(labels.Len())},
		{"dropout rate", fmt.Sprint(*dropout)},
		{"rho", fmt.Sprint(rho)},
		{"maxnorm", fmt.Sprint(*maxnorm)},
		{"batch size", fmt.Sprint(*batch)},
		{"shuffle batch", "true"},
	}
	for _, p := range parameters {
		fmt.Printf("%s: %s\n", p[0], p[1])
	}

	meta := &artifact.Metadata{
		Vocab:  wordIndex,
		MaxLen: maxL,
		Pad:    pad,
		Labels: labels.Names,
	}
	cfg := &trainer.Config{Folds: *cv, Epochs: *epochs}
	if *logfile != "" {
		cfg.SetLogger(*logfile)
	}

	// ensure replicability of the folds
	rand.Seed(3435)
	results, err := trainer.RunCrossValidation(x, y, cfg,
		func() (trainer.Classifier, error) {
			return convnet.New(netCfg)
		},
		func() learning.Updater {
			return learning.NewAdaDelta(rho)
		},
		func(m trainer.Classifier) error {
			return artifact.SaveFile(model, m, meta)
		})
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Avg. accuracy: %.4f\n", trainer.Mean(results))
}

func predict(model, input string, opt corpus.Options) {
	net := new(convnet.Network)
	meta, err := artifact.LoadFile(model, net)
	if err != nil {
		fatal(err)
	}
	in, err := os.Open(input)
	if err != nil {
		fatal(err)
	}
	defer in.Close()
	if err := inference.PredictCorpus(in, os.Stdout, net, meta, opt); err != nil {
		fatal(err)
	}
}

func parseFilters(s string) ([]int, error) {
	var hs []int
	for _, part := range strings.Split(s, ",") {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || h < 1 {
			return nil, fmt.Errorf("bad filter height %q", part)
		}
		hs = append(hs, h)
	}
	return hs, nil
}

func maxHeight(hs []int) int {
	max := hs[0]
	for _, h := range hs[1:] {
		if h > max {
			max = h
		}
	}
	return max
}
