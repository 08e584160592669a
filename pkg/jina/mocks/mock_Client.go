// Package mocks provides test doubles for the jina client.
package mocks

import (
	"context"

	jina "github.com/sells-group/outreach-cli/pkg/jina"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Read provides a mock function with given fields: ctx, targetURL
func (_m *MockClient) Read(ctx context.Context, targetURL string) (*jina.ReadResponse, error) {
	ret := _m.Called(ctx, targetURL)

	if len(ret) == 0 {
		panic("no return value specified for Read")
	}

	var r0 *jina.ReadResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*jina.ReadResponse)
	}
	return r0, ret.Error(1)
}

// Search provides a mock function with given fields: ctx, query. Options
// are not recorded.
func (_m *MockClient) Search(ctx context.Context, query string, _ ...jina.SearchOption) (*jina.SearchResponse, error) {
	ret := _m.Called(ctx, query)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 *jina.SearchResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*jina.SearchResponse)
	}
	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient. It also registers a
// cleanup function to assert the mocks expectations.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
