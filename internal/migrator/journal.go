package migrator

import "go.uber.org/zap"

// step is one completed mutation
type step struct {
	action   string
	kind     string
	resource string
}

// journal records every mutation as it completes. There is no automatic
// rollback; on a partial failure the journal is what an operator has to
// unwind or resume from.
type journal struct {
	logger *zap.SugaredLogger
	steps  []step
}

func newJournal(logger *zap.SugaredLogger) *journal {
	return &journal{logger: logger}
}

func (j *journal) record(action, kind, resource string) {
	j.steps = append(j.steps, step{action: action, kind: kind, resource: resource})

	j.logger.Infow("completed step",
		"action", action,
		"kind", kind,
		"resource", resource,
	)
}

func (j *journal) len() int {
	return len(j.steps)
}

// report logs every completed step at error level so the state reached
// before the failing step is visible in one place.
func (j *journal) report(failedStep string) {
	j.logger.Errorw("migration failed partway, completed steps follow",
		"failed-step", failedStep,
		"completed-steps", len(j.steps),
	)

	for i, s := range j.steps {
		j.logger.Errorw("completed before failure",
			"index", i,
			"action", s.action,
			"kind", s.kind,
			"resource", s.resource,
		)
	}
}
