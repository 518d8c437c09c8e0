package util

import (
	"sync"

	"github.com/mohitkumar/nodebridge/logger"
	"go.uber.org/zap"
)

type Action any

// Worker drains a buffered channel of actions on a single goroutine. Used
// for fire-and-forget work such as override persistence, where a handler
// failure is logged and never surfaced to the sender.
type Worker struct {
	name       string
	stop       chan struct{}
	wg         *sync.WaitGroup
	handler    func(Action) error
	actionChan chan Action
}

func NewWorker(name string, wg *sync.WaitGroup, handler func(Action) error, capacity int) *Worker {
	return &Worker{
		actionChan: make(chan Action, capacity),
		name:       name,
		wg:         wg,
		stop:       make(chan struct{}),
		handler:    handler,
	}
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case action := <-w.actionChan:
				err := w.handler(action)
				if err != nil {
					logger.Error("error in executing action in worker", zap.String("worker", w.name), zap.Any("action", action), zap.Error(err))
				}
			case <-w.stop:
				logger.Info("stopping worker", zap.String("worker", w.name))
				return
			}
		}
	}()
}

func (w *Worker) Sender() chan<- Action {
	return w.actionChan
}

func (w *Worker) Stop() {
	w.stop <- struct{}{}
}
