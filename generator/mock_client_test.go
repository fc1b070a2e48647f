package generator

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// mockLLM is a mock type for the LLMClient type
type mockLLM struct {
	mock.Mock
}

func (_m *mockLLM) Complete(ctx context.Context, prompt Prompt, params Params) (string, error) {
	ret := _m.Called(ctx, prompt, params)
	return ret.String(0), ret.Error(1)
}

func newMockLLM(t interface {
	mock.TestingT
	Helper()
	Cleanup(func())
}) *mockLLM {
	m := &mockLLM{}
	m.Mock.Test(t)
	t.Helper()
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ LLMClient = (*mockLLM)(nil)
