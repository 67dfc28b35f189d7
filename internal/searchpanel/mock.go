package searchpanel

import (
	"github.com/cristianoliveira/scrollmap-search-panel/internal/disposable"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/workspace"
	"github.com/stretchr/testify/mock"
)

// MockService is a mock implementation of Service for testing.
type MockService struct {
	mock.Mock
}

var _ Service = (*MockService)(nil)

// IsFindVisible provides a mock function with given fields: .
func (_m *MockService) IsFindVisible() bool {
	ret := _m.Called()

	var r0 bool
	if rf, ok := ret.Get(0).(func() bool); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(bool)
	}

	return r0
}

// ResultsMarkerLayerForTextEditor provides a mock function with given fields: editor.
func (_m *MockService) ResultsMarkerLayerForTextEditor(editor workspace.Editor) (MarkerLayer, error) {
	ret := _m.Called(editor)

	var r0 MarkerLayer
	if rf, ok := ret.Get(0).(func(workspace.Editor) MarkerLayer); ok {
		r0 = rf(editor)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(MarkerLayer)
	}

	return r0, ret.Error(1)
}

// OnDidUpdate provides a mock function with given fields: fn.
func (_m *MockService) OnDidUpdate(fn func()) disposable.Disposable {
	ret := _m.Called(fn)

	var r0 disposable.Disposable
	if rf, ok := ret.Get(0).(func(func()) disposable.Disposable); ok {
		r0 = rf(fn)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(disposable.Disposable)
	}

	return r0
}

// OnDidChangeFindVisibility provides a mock function with given fields: fn.
func (_m *MockService) OnDidChangeFindVisibility(fn func(bool)) disposable.Disposable {
	ret := _m.Called(fn)

	var r0 disposable.Disposable
	if rf, ok := ret.Get(0).(func(func(bool)) disposable.Disposable); ok {
		r0 = rf(fn)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(disposable.Disposable)
	}

	return r0
}
