// Package cu runs the prediction stage of the sentence classifier on CUDA.
// It keeps the trained weights resident on the device and scores batches of
// encoded sentences through the convpool kernel; the small softmax layer
// stays on the host. Training is CPU-only; this package is for bulk scoring
// on machines with a CUDA toolchain.
package cu

import "fmt"
import "unsafe"

import "github.com/iabd/CNN-sentence/convnet"
import "github.com/iabd/CNN-sentence/convnet/cu/kernel"
import "github.com/iabd/CNN-sentence/mat"

import "gorgonia.org/cu"

// DefaultBatch is the device batch size used when Config.Batch is zero.
const DefaultBatch = 1024

type Config struct {
	Device int // CUDA device ordinal

	Batch int // sentences scored per kernel launch
}

// Scorer holds a CUDA context with the network weights uploaded. It is not
// safe for concurrent use; Close releases the device resources.
type Scorer struct {
	out     *mat.Mat
	obias   *mat.Mat
	height  int
	nmaps   int // feature maps across all banks
	batch   int
	nums    []int32
	pooled  []float32
	indices []int32

	ctx      *cu.CUContext
	dWeights *cu.DevicePtr
	dNums    *cu.DevicePtr
	dInput   *cu.DevicePtr
	dPooled  *cu.DevicePtr
	fn       *cu.Function
	stream   *cu.Stream
}

// NewScorer uploads the network's embedding table, filter banks and filter
// biases to the device. The network must not be trained further while the
// scorer is alive, the device copy would go stale.
func NewScorer(n *convnet.Network, cfg Config) (*Scorer, error) {
	batch := cfg.Batch
	if batch <= 0 {
		batch = DefaultBatch
	}
	params := n.Parameters()
	heights := n.FilterHeights()
	nb := len(heights)
	words := params[0]
	filters := params[1 : 1+nb]
	fbias := params[1+nb : 1+2*nb]
	maps := filters[0].Rows

	s := &Scorer{
		out:    params[len(params)-2],
		obias:  params[len(params)-1],
		height: n.Height(),
		nmaps:  nb * maps,
		batch:  batch,
	}
	s.nums = make([]int32, 6+nb)
	s.nums[1] = int32(s.height)
	s.nums[2] = int32(words.Cols)
	s.nums[3] = int32(maps)
	s.nums[4] = int32(nb)
	s.nums[5] = int32(words.Rows)
	for b, h := range heights {
		s.nums[6+b] = int32(h)
	}
	s.pooled = make([]float32, batch*s.nmaps)
	s.indices = make([]int32, batch*s.height)

	weights := flattenWeights(words, filters, fbias)
	if err := s.initCUDA(cfg.Device, weights); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// flattenWeights packs the device weight buffer: the embedding table, then
// every filter bank row-major, then the filter biases bank-major. The
// convpool kernel indexes this layout.
func flattenWeights(words *mat.Mat, filters, fbias []*mat.Mat) []float32 {
	total := len(words.W)
	for _, f := range filters {
		total += len(f.W)
	}
	for _, b := range fbias {
		total += len(b.W)
	}
	out := make([]float32, 0, total)
	for _, v := range words.W {
		out = append(out, float32(v))
	}
	for _, f := range filters {
		for _, v := range f.W {
			out = append(out, float32(v))
		}
	}
	for _, b := range fbias {
		for _, v := range b.W {
			out = append(out, float32(v))
		}
	}
	return out
}

func (s *Scorer) initCUDA(ordinal int, weights []float32) error {
	device, err := cu.GetDevice(ordinal)
	if err != nil {
		return fmt.Errorf("cu: get device: %w", err)
	}
	ctx, err := device.MakeContext(cu.SchedAuto)
	if err != nil {
		return fmt.Errorf("cu: create context: %w", err)
	}
	s.ctx = &ctx
	if err := ctx.Lock(); err != nil {
		return fmt.Errorf("cu: lock context: %w", err)
	}
	dWeights, err := cu.MemAlloc(int64(len(weights)) * 4)
	if err != nil {
		return fmt.Errorf("cu: allocate weights: %w", err)
	}
	s.dWeights = &dWeights
	if err := cu.MemcpyHtoD(dWeights, unsafe.Pointer(&weights[0]), int64(len(weights))*4); err != nil {
		return fmt.Errorf("cu: upload weights: %w", err)
	}
	dNums, err := cu.MemAlloc(int64(len(s.nums)) * 4)
	if err != nil {
		return fmt.Errorf("cu: allocate nums: %w", err)
	}
	s.dNums = &dNums
	dInput, err := cu.MemAlloc(int64(len(s.indices)) * 4)
	if err != nil {
		return fmt.Errorf("cu: allocate input: %w", err)
	}
	s.dInput = &dInput
	dPooled, err := cu.MemAlloc(int64(len(s.pooled)) * 4)
	if err != nil {
		return fmt.Errorf("cu: allocate pooled: %w", err)
	}
	s.dPooled = &dPooled
	mod, err := cu.LoadData(kernel.PTXconvpoolCUDA)
	if err != nil {
		return fmt.Errorf("cu: load module: %w", err)
	}
	fn, err := mod.Function("convpool")
	if err != nil {
		return fmt.Errorf("cu: get function: %w", err)
	}
	s.fn = &fn
	stream, err := cu.MakeStream(cu.DefaultStream)
	if err != nil {
		return fmt.Errorf("cu: make stream: %w", err)
	}
	s.stream = &stream
	return nil
}

// Predict scores encoded sentences and returns one class index each, in
// input order. Every sentence must have the height the network was built
// with.
func (s *Scorer) Predict(x [][]int32) ([]int, error) {
	out := make([]int, 0, len(x))
	for lo := 0; lo < len(x); lo += s.batch {
		hi := lo + s.batch
		if hi > len(x) {
			hi = len(x)
		}
		classes, err := s.predictBatch(x[lo:hi])
		if err != nil {
			return nil, err
		}
		out = append(out, classes...)
	}
	return out, nil
}

func (s *Scorer) predictBatch(x [][]int32) ([]int, error) {
	if err := cu.SetCurrentContext(*s.ctx); err != nil {
		return nil, fmt.Errorf("cu: set context: %w", err)
	}
	for i, xi := range x {
		if len(xi) != s.height {
			return nil, fmt.Errorf("cu: sentence %d has height %d; network wants %d", i, len(xi), s.height)
		}
		copy(s.indices[i*s.height:], xi)
	}
	s.nums[0] = int32(len(x))
	if err := cu.MemcpyHtoD(*s.dNums, unsafe.Pointer(&s.nums[0]), int64(len(s.nums))*4); err != nil {
		return nil, fmt.Errorf("cu: upload nums: %w", err)
	}
	if err := cu.MemcpyHtoD(*s.dInput, unsafe.Pointer(&s.indices[0]), int64(len(x)*s.height)*4); err != nil {
		return nil, fmt.Errorf("cu: upload input: %w", err)
	}
	args := []unsafe.Pointer{
		unsafe.Pointer(s.dWeights),
		unsafe.Pointer(s.dNums),
		unsafe.Pointer(s.dInput),
		unsafe.Pointer(s.dPooled),
	}
	g := nvTasks(len(x) * s.nmaps)
	err := s.fn.LaunchAndSync(g[1][0], g[1][1], g[1][2], g[0][0], g[0][1], g[0][2], 0, *s.stream, args)
	if err != nil {
		return nil, fmt.Errorf("cu: launch kernel: %w", err)
	}
	n := len(x) * s.nmaps
	if err := cu.MemcpyDtoH(unsafe.Pointer(&s.pooled[0]), *s.dPooled, int64(n)*4); err != nil {
		return nil, fmt.Errorf("cu: read pooled: %w", err)
	}
	classes := make([]int, len(x))
	for i := range x {
		feat := s.pooled[i*s.nmaps : (i+1)*s.nmaps]
		best, at := 0.0, 0
		for c := 0; c < s.out.Rows; c++ {
			z := s.obias.W[c]
			row := s.out.Row(c)
			for j, f := range feat {
				z += row[j] * float64(f)
			}
			if c == 0 || z > best {
				best, at = z, c
			}
		}
		classes[i] = at
	}
	return classes, nil
}

// Close frees the device memory and destroys the context. The scorer is
// unusable afterwards.
func (s *Scorer) Close() error {
	s.fn = nil
	s.stream = nil
	for _, p := range []**cu.DevicePtr{&s.dWeights, &s.dNums, &s.dInput, &s.dPooled} {
		if *p != nil {
			cu.MemFree(**p)
			*p = nil
		}
	}
	if s.ctx != nil {
		s.ctx.Unlock()
		s.ctx.Destroy()
		s.ctx = nil
	}
	return nil
}

func nvTasks(tasks int) [2][3]int {
	const (
		maxThreadsPerBlock = 1024
		maxGridDimX        = 1024
		maxGridDimY        = 1024
		maxGridDimZ        = 64
	)
	numBlocksX := (tasks + maxThreadsPerBlock - 1) / maxThreadsPerBlock
	numBlocksY := 1
	numBlocksZ := 1
	if numBlocksX > maxGridDimX {
		numBlocksY = (numBlocksX + maxGridDimX - 1) / maxGridDimX
		numBlocksX = maxGridDimX
	}
	if numBlocksY > maxGridDimY {
		numBlocksZ = (numBlocksY + maxGridDimY - 1) / maxGridDimY
		numBlocksY = maxGridDimY
	}
	if numBlocksZ > maxGridDimZ {
		fmt.Println("Too many tasks for the GPU.")
		return [2][3]int{}
	}
	return [2][3]int{{32, 32, 1}, {numBlocksX, numBlocksY, numBlocksZ}}
}
