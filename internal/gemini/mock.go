package gemini

import "context"

// ScriptedSource replays a fixed fragment sequence. It satisfies the same
// single-pass contract as Stream.
type ScriptedSource struct {
	Fragments []Fragment
	pos       int
}

func (s *ScriptedSource) Next() (Fragment, bool) {
	if s.pos >= len(s.Fragments) {
		return Fragment{}, false
	}
	frag := s.Fragments[s.pos]
	s.pos++
	return frag, true
}

// MockCompleter for testing.
type MockCompleter struct {
	Fragments     []Fragment
	StreamErr     error
	Translation   *Translation
	StructuredErr error

	StreamCalls     int
	StructuredCalls int
	LastRequest     Request
}

func (m *MockCompleter) StreamCompletion(_ context.Context, req Request) (FragmentSource, error) {
	m.StreamCalls++
	m.LastRequest = req
	if m.StreamErr != nil {
		return nil, m.StreamErr
	}
	return &ScriptedSource{Fragments: m.Fragments}, nil
}

func (m *MockCompleter) CompleteStructured(_ context.Context, req Request) (*Translation, error) {
	m.StructuredCalls++
	m.LastRequest = req
	return m.Translation, m.StructuredErr
}
