package scheduler

import (
	"errors"

	"github.com/robfig/cron/v3"
)

// Provider is the interface for the job scheduler service.
type Provider interface {
	// Schedule registers a job to run by the given cron spec and
	// returns its identifier.
	Schedule(spec string, job func()) (id interface{}, err error)

	// Unschedule removes a scheduled job by its identifier.
	Unschedule(id interface{}) error

	Start()
	Stop()
}

type CronScheduler struct {
	C *cron.Cron
}

var _ Provider = (*CronScheduler)(nil)

func (s *CronScheduler) Schedule(spec string, job func()) (interface{}, error) {
	return s.C.AddFunc(spec, job)
}

func (s *CronScheduler) Unschedule(id interface{}) error {
	entryID, ok := id.(cron.EntryID)
	if !ok {
		return errors.New("invalid entry id")
	}

	s.C.Remove(entryID)
	return nil
}

func (s *CronScheduler) Start() {
	s.C.Start()
}

func (s *CronScheduler) Stop() {
	s.C.Stop()
}
