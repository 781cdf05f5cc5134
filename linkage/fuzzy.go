package linkage

import (
	"context"
	"runtime"
	"sort"

	"github.com/agnivade/levenshtein"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/recipegraph/extract"
	"github.com/c360studio/recipegraph/loader"
)

// fuzzyTask compares one first-byte bucket across one source pair.
type fuzzyTask struct {
	left    []extract.LabelRecord
	right   []extract.LabelRecord
	matched map[string]struct{}
}

// fuzzyCandidates compares unmatched records across every source pair.
// Records are bucketed by the first byte of their normalized key before
// comparison; pairs whose keys start with different bytes are never
// compared. Inside a bucket, a length window prunes pairs that cannot make
// the cutoff, which loses nothing. Bucket tasks run on a bounded worker
// pool and the collected candidates are sorted before acceptance, so
// scheduling order never leaks into results.
func (e *Engine) fuzzyCandidates(ctx context.Context, records []extract.LabelRecord, matched map[string]struct{}) ([]Candidate, error) {
	if e.cfg.Cutoff == 0 || len(records) < 2 {
		return nil, nil
	}

	bySource := make(map[loader.SourceTag]map[byte][]extract.LabelRecord)
	var sources []loader.SourceTag
	for _, r := range records {
		buckets, ok := bySource[r.Source]
		if !ok {
			buckets = make(map[byte][]extract.LabelRecord)
			bySource[r.Source] = buckets
			sources = append(sources, r.Source)
		}
		first := r.Key[0]
		buckets[first] = append(buckets[first], r)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })

	var tasks []fuzzyTask
	for i := 0; i < len(sources); i++ {
		for j := i + 1; j < len(sources); j++ {
			left, right := bySource[sources[i]], bySource[sources[j]]
			for first, lrecs := range left {
				rrecs, ok := right[first]
				if !ok {
					continue
				}
				tasks = append(tasks, fuzzyTask{left: lrecs, right: rrecs, matched: matched})
			}
		}
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([][]Candidate, len(tasks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.compareBucket(task)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Candidate
	for _, batch := range results {
		out = append(out, batch...)
	}
	sort.Slice(out, func(i, j int) bool {
		si, oi := orderPair(out[i].A.URI, out[i].B.URI)
		sj, oj := orderPair(out[j].A.URI, out[j].B.URI)
		if si != sj {
			return si < sj
		}
		return oi < oj
	})
	return out, nil
}

func (e *Engine) compareBucket(task fuzzyTask) []Candidate {
	var out []Candidate
	for _, a := range task.left {
		_, aMatched := task.matched[recordID(a)]
		for _, b := range task.right {
			if aMatched {
				if _, bMatched := task.matched[recordID(b)]; bMatched {
					continue
				}
			}
			sim, ok := e.similarity(a.Key, b.Key)
			if !ok {
				continue
			}
			out = append(out, Candidate{A: a, B: b, Kind: MatchFuzzy, Similarity: sim})
		}
	}
	return out
}

// similarity reports 1 - distance/max(len) when the pair is within the
// cutoff. The cutoff comparison is inclusive: a pair sitting exactly on the
// boundary is a candidate.
func (e *Engine) similarity(a, b string) (float64, bool) {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0, false
	}
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	// The distance is at least the length difference, so pairs outside the
	// window cannot pass the cutoff.
	if float64(diff)/float64(longest) > e.cfg.Cutoff {
		return 0, false
	}
	dist := levenshtein.ComputeDistance(a, b)
	ratio := float64(dist) / float64(longest)
	if ratio > e.cfg.Cutoff {
		return 0, false
	}
	return 1 - ratio, true
}
