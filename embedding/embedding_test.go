package embedding

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/iabd/CNN-sentence/corpus"
)

func TestReadText(t *testing.T) {
	in := "hello 1 2 3\nworld -1 -2 -3\n"
	vecs, words, err := readText(bufio.NewReader(strings.NewReader(in)))
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 2 || words[0] != "hello" || words[1] != "world" {
		t.Fatalf("words = %v", words)
	}
	if vecs[0][0] != 1 || vecs[0][2] != 3 || vecs[1][1] != -2 {
		t.Errorf("vecs = %v", vecs)
	}
}

func TestReadTextHeader(t *testing.T) {
	in := "2 3\nhello 1 2 3\nworld 4 5 6\n"
	vecs, words, err := readText(bufio.NewReader(strings.NewReader(in)))
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 2 || len(vecs) != 2 {
		t.Fatalf("header not skipped: words = %v", words)
	}
}

func TestReadTextRagged(t *testing.T) {
	in := "hello 1 2 3\nworld 4 5\n"
	if _, _, err := readText(bufio.NewReader(strings.NewReader(in))); err == nil {
		t.Fatal("ragged widths did not error")
	}
}

func TestReadBinary(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("2 3\n")
	writeEntry := func(word string, vals ...float32) {
		buf.WriteString(word)
		buf.WriteByte(' ')
		var b [4]byte
		for _, v := range vals {
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
			buf.Write(b[:])
		}
		buf.WriteByte('\n')
	}
	writeEntry("hello", 1, 2, 3)
	writeEntry("world", -1, -2, -3)

	vecs, words, err := readBinary(bufio.NewReader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 2 || words[0] != "hello" || words[1] != "world" {
		t.Fatalf("words = %v", words)
	}
	want := [][]float64{{1, 2, 3}, {-1, -2, -3}}
	for i := range want {
		for j := range want[i] {
			if vecs[i][j] != want[i][j] {
				t.Errorf("vecs[%d][%d] = %v; want %v", i, j, vecs[i][j], want[i][j])
			}
		}
	}
}

func TestReadBinaryTruncated(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("1 3\n")
	buf.WriteString("hello ")
	buf.Write([]byte{1, 2, 3}) // not enough bytes for 3 float32s
	if _, _, err := readBinary(bufio.NewReader(&buf)); err == nil {
		t.Fatal("truncated entry did not error")
	}
}

func TestAddUnknownWords(t *testing.T) {
	samples := []corpus.Sample{
		{Tokens: []string{"hello", "world"}},
		{Tokens: []string{"world", "foo"}},
	}
	df := map[string]int{"hello": 1, "world": 2, "foo": 1}
	vecs := [][]float64{{1, 2}}
	words := []string{"hello"}

	rand.Seed(345)
	vecs2, words2 := AddUnknownWords(vecs, words, samples, df, 2, 2)
	if len(words2) != 2 || words2[1] != "world" {
		t.Fatalf("minDF 2: words = %v; want [hello world]", words2)
	}
	if len(vecs2[1]) != 2 {
		t.Fatalf("added vector has width %d; want 2", len(vecs2[1]))
	}
	for _, v := range vecs2[1] {
		if v < -0.25 || v >= 0.25 {
			t.Errorf("added weight %v outside [-0.25, 0.25)", v)
		}
	}

	vecs3, words3 := AddUnknownWords([][]float64{{1, 2}}, []string{"hello"}, samples, df, 1, 2)
	if len(words3) != 3 || words3[1] != "world" || words3[2] != "foo" {
		t.Fatalf("minDF 1: words = %v; want [hello world foo]", words3)
	}
	if len(vecs3) != 3 {
		t.Fatalf("minDF 1: %d vectors; want 3", len(vecs3))
	}
}

func TestAddUnknownWordsDeterministic(t *testing.T) {
	samples := []corpus.Sample{{Tokens: []string{"a", "b", "c"}}}
	df := map[string]int{"a": 1, "b": 1, "c": 1}

	rand.Seed(345)
	v1, w1 := AddUnknownWords(nil, nil, samples, df, 1, 4)
	rand.Seed(345)
	v2, w2 := AddUnknownWords(nil, nil, samples, df, 1, 4)

	if strings.Join(w1, ",") != strings.Join(w2, ",") {
		t.Fatalf("word order differs: %v vs %v", w1, w2)
	}
	for i := range v1 {
		for j := range v1[i] {
			if v1[i][j] != v2[i][j] {
				t.Fatalf("vector %d differs between seeded runs", i)
			}
		}
	}
}

func TestAssemble(t *testing.T) {
	vecs := [][]float64{{1, 2}, {3, 4}}
	words := []string{"hello", "world"}
	m, v, err := Assemble(vecs, words)
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows != 3 || m.Cols != 2 {
		t.Fatalf("matrix = %dx%d; want 3x2", m.Rows, m.Cols)
	}
	for j, w := range m.Row(0) {
		if w != 0 {
			t.Errorf("padding row position %d = %v; want 0", j, w)
		}
	}
	i, ok := v.Lookup("world")
	if !ok || i != 2 {
		t.Fatalf("Lookup(world) = %d, %v; want 2, true", i, ok)
	}
	if m.At(i, 0) != 3 || m.At(i, 1) != 4 {
		t.Errorf("row %d = %v; want [3 4]", i, m.Row(i))
	}
}

func TestAssembleRejects(t *testing.T) {
	if _, _, err := Assemble([][]float64{{1}}, []string{"a", "b"}); err == nil {
		t.Error("count mismatch did not error")
	}
	if _, _, err := Assemble(nil, nil); err == nil {
		t.Error("empty input did not error")
	}
	if _, _, err := Assemble([][]float64{{1}, {2}}, []string{"a", "a"}); err == nil {
		t.Error("duplicate word did not error")
	}
	if _, _, err := Assemble([][]float64{{1, 2}, {3}}, []string{"a", "b"}); err == nil {
		t.Error("ragged vectors did not error")
	}
}
