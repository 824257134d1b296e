package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veggerby/ignition/internal/plan"
	"github.com/veggerby/ignition/internal/result"
)

// stageHandle tracks one stage's dispatch so its StageResult can be built
// once every signal in it has settled — which, under early-promotion, may
// happen well after the next stage has already started.
type stageHandle struct {
	wave  plan.Wave
	start time.Time
	wg    sync.WaitGroup
}

func (s *Scheduler) runStaged(ctx context.Context) {
	waves := s.plan.Waves
	var open []*stageHandle

	settle := func(h *stageHandle) {
		h.wg.Wait()
		s.stages = append(s.stages, s.buildStageResult(h))
	}

	// skipStages marks every signal in rest as skipped and still records a
	// StageResult for each of those stages, so every stage is reported.
	skipStages := func(rest []plan.Wave) {
		s.skipWaves(rest)
		for _, w := range rest {
			s.stages = append(s.stages, s.buildStageResult(&stageHandle{wave: w, start: time.Now()}))
		}
	}

	for i, wave := range waves {
		if s.haltRequested() {
			for _, h := range open {
				settle(h)
			}
			skipStages(waves[i:])
			return
		}

		h := &stageHandle{wave: wave, start: time.Now()}

		if s.cfg.StagePolicy == StageEarlyPromotion {
			s.dispatchStagePromoting(ctx, h)
			open = append(open, h)
			continue
		}

		// every other stage policy is a hard barrier: settle any
		// still-open early-promotion stage before this one, then dispatch
		// and wait in place so the stage result reflects its final counts
		// before the next-stage decision is made.
		for _, prev := range open {
			settle(prev)
		}
		open = nil

		s.dispatchStageBarrier(ctx, h)
		sr := s.buildStageResult(h)
		s.stages = append(s.stages, sr)

		if sr.StageTerminal {
			switch s.cfg.StagePolicy {
			case StageAllMustSucceed, StageFailFast:
				skipStages(waves[i+1:])
				return
			}
		}
	}

	for _, h := range open {
		settle(h)
	}
}

func (s *Scheduler) dispatchStageBarrier(ctx context.Context, h *stageHandle) {
	for _, sig := range h.wave.Signals {
		sig := sig
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			s.dispatchOne(ctx, sig)
		}()
	}
	h.wg.Wait()
}

// dispatchStagePromoting dispatches every signal in the stage concurrently
// and returns as soon as the configured success fraction has settled
// successfully (or every signal has settled, whichever comes first),
// leaving any still-running signals tracked on h.wg for the caller to
// settle later. This is the only stage policy under which two stages can be
// genuinely in flight at once.
func (s *Scheduler) dispatchStagePromoting(ctx context.Context, h *stageHandle) {
	total := len(h.wave.Signals)
	if total == 0 {
		return
	}

	threshold := s.cfg.EarlyPromotionThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 1
	}

	var succeeded int64
	var settled int64
	promoted := make(chan struct{})
	var once sync.Once

	for _, sig := range h.wave.Signals {
		sig := sig
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			s.dispatchOne(ctx, sig)

			if r, ok := s.collector.Get(sig.Name()); ok && r.Status.Success() {
				atomic.AddInt64(&succeeded, 1)
			}
			n := atomic.AddInt64(&settled, 1)
			if float64(atomic.LoadInt64(&succeeded))/float64(total) >= threshold || int(n) == total {
				once.Do(func() { close(promoted) })
			}
		}()
	}

	<-promoted
}

func (s *Scheduler) buildStageResult(h *stageHandle) result.StageResult {
	counts := make(map[result.Status]int, 5)
	allSucceeded := true
	for _, sig := range h.wave.Signals {
		r, ok := s.collector.Get(sig.Name())
		if !ok {
			continue
		}
		counts[r.Status]++
		if !r.Status.Success() {
			allSucceeded = false
		}
	}
	return result.StageResult{
		Index:         h.wave.StageIndex,
		StartedAt:     h.start,
		EndedAt:       time.Now(),
		Counts:        counts,
		StageTerminal: !allSucceeded,
	}
}
