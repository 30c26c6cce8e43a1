package mocks

import (
	"context"

	"github.com/ethanbaker/tubescript/pkg/llm"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock type for the llm.Provider type
type MockProvider struct {
	mock.Mock
}

// Name provides a mock function with given fields:
func (_m *MockProvider) Name() string {
	ret := _m.Called()
	return ret.String(0)
}

// Model provides a mock function with given fields:
func (_m *MockProvider) Model() string {
	ret := _m.Called()
	return ret.String(0)
}

// Complete provides a mock function with given fields: ctx, req
func (_m *MockProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	ret := _m.Called(ctx, req)

	var r0 *llm.Response
	if rf, ok := ret.Get(0).(func(context.Context, llm.Request) *llm.Response); ok {
		r0 = rf(ctx, req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*llm.Response)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, llm.Request) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockProvider creates a MockProvider answering Name and Model, and asserts its
// expectations when the test ends
func NewMockProvider(t interface {
	mock.TestingT
	Cleanup(func())
}, name, model string) *MockProvider {
	m := &MockProvider{}
	m.Mock.Test(t)
	m.On("Name").Return(name).Maybe()
	m.On("Model").Return(model).Maybe()

	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ llm.Provider = (*MockProvider)(nil)
