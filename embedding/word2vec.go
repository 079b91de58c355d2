package embedding

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// readBinary parses the word2vec binary format: an ASCII "count width"
// header line, then per word its bytes up to a space and width little-endian
// float32 values.
func readBinary(r *bufio.Reader) ([][]float64, []string, error) {
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, nil, fmt.Errorf("word2vec header: %w", err)
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("word2vec header %q", strings.TrimSpace(header))
	}
	count, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("word2vec header: %w", err)
	}
	dim, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("word2vec header: %w", err)
	}
	if count < 0 || dim <= 0 {
		return nil, nil, fmt.Errorf("word2vec header %q", strings.TrimSpace(header))
	}
	vecs := make([][]float64, 0, count)
	words := make([]string, 0, count)
	raw := make([]byte, 4*dim)
	for i := 0; i < count; i++ {
		word, err := readWord(r)
		if err != nil {
			return nil, nil, fmt.Errorf("word2vec entry %d: %w", i, err)
		}
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, nil, fmt.Errorf("word2vec entry %d (%q): %w", i, word, err)
		}
		vec := make([]float64, dim)
		for j := range vec {
			vec[j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[4*j:])))
		}
		words = append(words, word)
		vecs = append(vecs, vec)
	}
	return vecs, words, nil
}

// readWord collects bytes up to the separating space, skipping the newlines
// that terminate the previous entry.
func readWord(r *bufio.Reader) (string, error) {
	var b []byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if c == ' ' {
			return string(b), nil
		}
		if c != '\n' {
			b = append(b, c)
		}
	}
}

// readText parses one "word v1 v2 ... vD" line per vector. A first line
// holding exactly two integers is taken as the word2vec text header and
// skipped.
func readText(r *bufio.Reader) ([][]float64, []string, error) {
	var (
		vecs  [][]float64
		words []string
		dim   = -1
	)
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if lineno == 1 && len(fields) == 2 {
			_, err1 := strconv.Atoi(fields[0])
			_, err2 := strconv.Atoi(fields[1])
			if err1 == nil && err2 == nil {
				continue
			}
		}
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("vectors line %d: no values", lineno)
		}
		if dim == -1 {
			dim = len(fields) - 1
		} else if len(fields)-1 != dim {
			return nil, nil, fmt.Errorf("vectors line %d: width %d; want %d", lineno, len(fields)-1, dim)
		}
		vec := make([]float64, dim)
		for j, s := range fields[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("vectors line %d: %w", lineno, err)
			}
			vec[j] = v
		}
		words = append(words, fields[0])
		vecs = append(vecs, vec)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return vecs, words, nil
}
