package task

import (
	"fmt"
	"time"

	"github.com/trezcool/darasa/core"
)

// Sweeper runs Service.Sweep on a fixed cadence, independently of any
// request. It has an explicit lifecycle: Start launches the loop, Stop
// blocks until it has drained.
type Sweeper struct {
	svc      *Service
	interval time.Duration
	logger   core.Logger

	stop chan struct{}
	done chan struct{}
}

func NewSweeper(svc *Service, interval time.Duration, logger core.Logger) *Sweeper {
	return &Sweeper{
		svc:      svc,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.run()
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	n, err := s.svc.Sweep()
	if err != nil {
		s.logger.Error("sweeping overdue tasks", err)
		return
	}
	if n > 0 {
		s.logger.Info(fmt.Sprintf("%d tasks updated to 'completed' status", n))
	}
}
