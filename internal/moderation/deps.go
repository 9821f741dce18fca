package moderation

import (
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/metrics"
)

// Deps are the collaborators shared by every workflow.
type Deps struct {
	Tx      txRunner
	Engine  *Engine
	Outbox  eventEmitter
	Metrics *metrics.ModerationMetrics
	Counts  CountCache
	Logger  *logger.Logger
}

// Build wires a workflow for one entity type on top of the gorm repository.
func Build[T any, P Record[T]](deps Deps, conn *gorm.DB, policy Policy, hook DecisionHook[P]) (*Workflow[T, P], error) {
	return NewWorkflow(WorkflowParams[T, P]{
		DB:            deps.Tx,
		Store:         NewRepository[T, P](conn),
		Policy:        policy,
		Engine:        deps.Engine,
		Outbox:        deps.Outbox,
		Metrics:       deps.Metrics,
		Counts:        deps.Counts,
		Logger:        deps.Logger,
		AfterDecision: hook,
	})
}
