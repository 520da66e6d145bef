package registry

import "context"

type engineCall struct {
	Op       string
	Source   string
	Target   string
	Registry string
	Username string
	Password string
	Ref      string
}

// fakeEngine records engine calls and fails where configured.
type fakeEngine struct {
	calls    []engineCall
	tagErr   error
	loginErr error
	pushErr  error
}

func (e *fakeEngine) Tag(ctx context.Context, source, target string) error {
	e.calls = append(e.calls, engineCall{Op: "tag", Source: source, Target: target})
	return e.tagErr
}

func (e *fakeEngine) Login(ctx context.Context, registryHost, username, password string) error {
	e.calls = append(e.calls, engineCall{Op: "login", Registry: registryHost, Username: username, Password: password})
	return e.loginErr
}

func (e *fakeEngine) Push(ctx context.Context, ref, username, password string) error {
	e.calls = append(e.calls, engineCall{Op: "push", Ref: ref, Username: username, Password: password})
	return e.pushErr
}

func (e *fakeEngine) ops() []string {
	ops := make([]string, 0, len(e.calls))
	for _, c := range e.calls {
		ops = append(ops, c.Op)
	}
	return ops
}

// fakeTokenSource returns a canned authorization token and records whether
// it was consulted.
type fakeTokenSource struct {
	token     string
	err       error
	calls     int
	accessKey string
	secretKey string
}

func (s *fakeTokenSource) AuthorizationToken(ctx context.Context, accessKey, secretKey string) (string, error) {
	s.calls++
	s.accessKey = accessKey
	s.secretKey = secretKey
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func envFromMap(env map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		value, ok := env[name]
		return value, ok
	}
}
