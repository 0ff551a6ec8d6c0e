package dedup

import (
	"fmt"
	"sync"

	"codeberg.org/algopatterns/dedup/internal/logger"
)

// clusters near-duplicates and reweights them by cluster size instead of
// dropping them. index, clusters and id counters persist across calls until Reset.
type Soft struct {
	mu     sync.Mutex
	cfg    SoftConfig
	sketch *sketch

	// cluster id -> member document ids in assignment order
	clusters map[string][]int

	// document id -> cluster id
	docCluster map[int]string

	nextID      int
	nextCluster int

	total   Stats
	current Stats
}

// creates a soft deduplicator
func NewSoft(cfg SoftConfig) (*Soft, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sk, err := newSketch(cfg.SketchConfig, cfg.Backend)
	if err != nil {
		return nil, err
	}

	s := &Soft{cfg: cfg, sketch: sk}
	s.clear()

	return s, nil
}

func (s *Soft) clear() {
	s.clusters = make(map[string][]int)
	s.docCluster = make(map[int]string)
	s.nextID = 0
	s.nextCluster = 0
	s.total = Stats{Strategy: StrategySoft}
	s.current = Stats{Strategy: StrategySoft}
}

func (s *Soft) Strategy() Strategy {
	return StrategySoft
}

// returns the configuration the instance was built with
func (s *Soft) Config() SoftConfig {
	return s.cfg
}

// returns the LSH banding in use
func (s *Soft) Params() (bands, rows int) {
	return s.sketch.index.Params()
}

// returns the weight given to a member of a cluster of the given size:
// max(reweight_factor, 1/size). sizes below 1 are unclustered and weigh 1.
func (s *Soft) WeightFor(size int) float64 {
	return clusterWeight(size, s.cfg.ReweightFactor)
}

func clusterWeight(size int, floor float64) float64 {
	if size <= 1 {
		return 1.0
	}

	return max(floor, 1.0/float64(size))
}

// assigns one document to a cluster and indexes it; returns its id, or -1
// when the text is empty and the document stays unclustered
func (s *Soft) assign(text string) int {
	if text == "" {
		return -1
	}

	id := s.nextID
	s.nextID++

	sig := s.sketch.signature(text)

	// first candidate wins; clusters are never merged
	if candidates := s.sketch.index.Query(sig); len(candidates) > 0 {
		if cid, ok := s.docCluster[candidates[0]]; ok {
			s.clusters[cid] = append(s.clusters[cid], id)
			s.docCluster[id] = cid
		}
	} else {
		cid := fmt.Sprintf("cluster_%d", s.nextCluster)
		s.nextCluster++

		s.clusters[cid] = []int{id}
		s.docCluster[id] = cid
	}

	// signature length always matches the index
	_ = s.sketch.index.Insert(id, sig)

	return id
}

// returns a weighted copy of every document, in input order. clustering runs
// over the whole batch before any weight is computed.
func (s *Soft) Deduplicate(docs []Document) []Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, len(docs))
	for i, doc := range docs {
		ids[i] = s.assign(doc.Text)
	}

	call := Stats{Strategy: StrategySoft}
	out := make([]Document, len(docs))

	for i, doc := range docs {
		weight := 1.0

		if ids[i] < 0 {
			call.observe(DecisionSkipped)
		} else {
			call.observe(DecisionKept)
			if cid, ok := s.docCluster[ids[i]]; ok {
				weight = s.WeightFor(len(s.clusters[cid]))
			}
		}

		if weight < 1.0 {
			call.Reweighted++
		}

		out[i] = doc.WithWeight(weight)
	}

	call.Clusters = len(s.clusters)
	s.total.add(call)
	s.current = call

	logger.Info("soft dedup finished", "summary", call, "unique", len(docs)-call.Reweighted)
	return out
}

// returns a snapshot of cluster id -> member document ids
func (s *Soft) Clusters() map[string][]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string][]int, len(s.clusters))
	for cid, members := range s.clusters {
		snapshot[cid] = append([]int(nil), members...)
	}

	return snapshot
}

// returns the cluster a document id was assigned to
func (s *Soft) ClusterOf(id int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cid, ok := s.docCluster[id]
	return cid, ok
}

// clears the index, clusters and counters
func (s *Soft) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sketch.index.Reset()
	s.clear()
}

func (s *Soft) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Soft) LastCall() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
