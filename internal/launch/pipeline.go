package launch

import (
	"context"

	"github.com/agentlaunch-labs/agentlaunch/internal/logging"
)

// Pipeline sequences the launch stages and owns Outcome construction. No
// stage writes terminal output, everything flows into the one Outcome the
// reporter renders.
type Pipeline struct {
	stages []Stage
	log    *logging.Logger
}

// NewPipeline returns a Pipeline running stages in the given order. A nil
// log discards output.
func NewPipeline(log *logging.Logger, stages ...Stage) *Pipeline {
	if log == nil {
		log = logging.Nop()
	}
	return &Pipeline{stages: stages, log: log}
}

// Run validates the request and drives the stages. It never returns an
// error, every failure is captured in the Outcome's error record. The
// first failing stage stops the run, later stages are not attempted.
func (p *Pipeline) Run(ctx context.Context, req *Request) *Outcome {
	out := &Outcome{}

	if err := req.Validate(); err != nil {
		p.fail(out, StageValidate, err)
		return out
	}

	for _, stage := range p.stages {
		if !stage.CanRun(req, out) {
			p.log.Debug("stage skipped", "stage", stage.Name())
			continue
		}
		p.log.Info("stage starting", "stage", stage.Name())
		if err := stage.Execute(ctx, req, out); err != nil {
			p.log.Warn("stage failed", "stage", stage.Name(), "error", err)
			p.fail(out, stage.Name(), err)
			return out
		}
		p.log.Info("stage finished", "stage", stage.Name())
	}

	if req.DoTokenize && out.Tokenize == nil {
		out.Warnings = append(out.Warnings, "tokenization skipped: agent is not compiled")
	}
	if !req.DoDeploy && !req.DoTokenize {
		out.Warnings = append(out.Warnings, "nothing to do: deployment and tokenization both disabled")
	}

	out.Success = true
	return out
}

// fail records the error and settles the outcome flags. A tokenization
// failure after a started deployment is a partial failure, the agent is
// live even though no token exists.
func (p *Pipeline) fail(out *Outcome, stage string, err error) {
	out.Success = false
	out.Err = newErrorRecord(stage, err)
	out.PartialFailure = stage == StageTokenize && out.Deploy != nil && out.Deploy.Started
}
