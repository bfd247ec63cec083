package launch

import (
	"context"

	"github.com/agentlaunch-labs/agentlaunch/internal/hosting"
	"github.com/agentlaunch-labs/agentlaunch/internal/registry"
)

// fakeHosting scripts the hosting gateway. Status replies are consumed in
// order with the last one repeating once the script runs out; an empty
// script reports a never-compiling agent.
type fakeHosting struct {
	calls []string

	createErr error
	uploadErr error
	secretErr error
	startErr  error

	statuses    []statusReply
	statusCalls int
	secrets     map[string]string
}

type statusReply struct {
	status *hosting.AgentStatus
	err    error
}

func (f *fakeHosting) Create(ctx context.Context, name string) (*hosting.Agent, error) {
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &hosting.Agent{Name: name, Address: "agent1qfake"}, nil
}

func (f *fakeHosting) UploadCode(ctx context.Context, address string, files []hosting.CodeFile) (string, error) {
	f.calls = append(f.calls, "upload")
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "d1gest00aaaabbbbccccdddd", nil
}

func (f *fakeHosting) SetSecret(ctx context.Context, address, name, secret string) error {
	f.calls = append(f.calls, "secret:"+name)
	if f.secretErr != nil {
		return f.secretErr
	}
	if f.secrets == nil {
		f.secrets = map[string]string{}
	}
	f.secrets[name] = secret
	return nil
}

func (f *fakeHosting) Start(ctx context.Context, address string) error {
	f.calls = append(f.calls, "start")
	return f.startErr
}

func (f *fakeHosting) Status(ctx context.Context, address string) (*hosting.AgentStatus, error) {
	f.calls = append(f.calls, "status")
	idx := f.statusCalls
	f.statusCalls++
	if len(f.statuses) == 0 {
		return &hosting.AgentStatus{Running: true}, nil
	}
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	reply := f.statuses[idx]
	return reply.status, reply.err
}

// compiledAfter builds a status script that reports compiled on the n-th
// query.
func compiledAfter(n int) []statusReply {
	var replies []statusReply
	for i := 0; i < n-1; i++ {
		replies = append(replies, statusReply{status: &hosting.AgentStatus{Running: true}})
	}
	return append(replies, statusReply{status: &hosting.AgentStatus{
		Compiled:      true,
		Running:       true,
		WalletAddress: "fetch1fake",
	}})
}

// fakeRegistry scripts the registry gateway and records the last params.
type fakeRegistry struct {
	token  *registry.Token
	err    error
	calls  int
	params registry.LaunchParams
}

func (f *fakeRegistry) Launch(ctx context.Context, params registry.LaunchParams) (*registry.Token, error) {
	f.calls++
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	if f.token != nil {
		return f.token, nil
	}
	return &registry.Token{ID: "1", Symbol: params.Symbol}, nil
}

func staticScaffold(code string) ScaffoldFunc {
	return func(ctx context.Context, req *Request) (*ScaffoldResult, error) {
		return &ScaffoldResult{
			Code: []hosting.CodeFile{{Language: "python", Name: "agent.py", Value: code}},
		}, nil
	}
}

func validRequest() *Request {
	return &Request{
		Name:       "Bot",
		Ticker:     "BOT",
		Template:   "launcher",
		ChainID:    ChainBSCTestnet,
		DoDeploy:   true,
		DoTokenize: true,
	}
}
