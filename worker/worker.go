package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// IJob scheduled job
type IJob interface {
	Start() error
	Run()
	Stop() error
}

type OnWork func() error

// BaseJob runs OnWork on a cron schedule, skipping a tick while the previous one is still running
type BaseJob struct {
	Cron    *cron.Cron
	OnWork  OnWork
	running int32
}

// Schedule create the cron firing on expr, evaluated in location
func (job *BaseJob) Schedule(location, expr string) error {
	l, err := time.LoadLocation(location)
	if err != nil {
		return err
	}

	job.Cron = cron.New(cron.WithLocation(l))
	_, err = job.Cron.AddFunc(expr, job.Run)
	return err
}

func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

// Stop stop scheduling and wait for the running tick
func (job *BaseJob) Stop() error {
	<-job.Cron.Stop().Done()
	return nil
}

func (job *BaseJob) Run() {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return
	}

	defer atomic.StoreInt32(&job.running, 0)

	_ = job.OnWork()
}

// Serve run the job until ctx is done
func (job *BaseJob) Serve(ctx context.Context) error {
	if err := job.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	return job.Stop()
}
