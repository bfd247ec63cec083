package launch

import "context"

// Stage names as they appear in error records and logs.
const (
	StageValidate = "validate"
	StageScaffold = "scaffold"
	StageDeploy   = "deploy"
	StageTokenize = "tokenize"
)

// Stage is one step of the launch pipeline. CanRun encodes the gating
// rules against the results accumulated so far, so skip logic lives in
// the stages rather than in the driver.
type Stage interface {
	Name() string
	CanRun(req *Request, out *Outcome) bool
	Execute(ctx context.Context, req *Request, out *Outcome) error
}

// ScaffoldFunc resolves the agent source for a request, either generating
// a project from a template or loading an existing file.
type ScaffoldFunc func(ctx context.Context, req *Request) (*ScaffoldResult, error)

// ScaffoldStage produces the code payload a deployment uploads.
type ScaffoldStage struct {
	fn ScaffoldFunc
}

func NewScaffoldStage(fn ScaffoldFunc) *ScaffoldStage {
	return &ScaffoldStage{fn: fn}
}

func (s *ScaffoldStage) Name() string { return StageScaffold }

// CanRun reports true only when a deployment is requested, a tokenize-only
// run needs no source.
func (s *ScaffoldStage) CanRun(req *Request, out *Outcome) bool {
	return req.DoDeploy
}

func (s *ScaffoldStage) Execute(ctx context.Context, req *Request, out *Outcome) error {
	result, err := s.fn(ctx, req)
	if err != nil {
		return err
	}
	out.Scaffold = result
	return nil
}

// DeployStage runs a deployment session with the scaffolded code.
type DeployStage struct {
	session *Session
	secrets map[string]string
}

func NewDeployStage(session *Session, secrets map[string]string) *DeployStage {
	return &DeployStage{session: session, secrets: secrets}
}

func (d *DeployStage) Name() string { return StageDeploy }

func (d *DeployStage) CanRun(req *Request, out *Outcome) bool {
	return req.DoDeploy && out.Scaffold != nil
}

func (d *DeployStage) Execute(ctx context.Context, req *Request, out *Outcome) error {
	result, err := d.session.Deploy(ctx, DeployParams{
		Name:    req.Name,
		Code:    out.Scaffold.Code,
		Secrets: d.secrets,
	})
	if err != nil {
		return err
	}
	out.Deploy = result
	return nil
}
