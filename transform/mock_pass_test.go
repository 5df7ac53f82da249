// Hand-written gomock fake in MockGen's output shape, for the Pass interface
// of github.com/sarchlab/grh/transform.

package transform

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"

	ir "github.com/sarchlab/grh/ir"
)

// MockPass is a mock of the Pass interface.
type MockPass struct {
	ctrl     *gomock.Controller
	recorder *MockPassMockRecorder
}

// MockPassMockRecorder is the mock recorder for MockPass.
type MockPassMockRecorder struct {
	mock *MockPass
}

// NewMockPass creates a new mock instance.
func NewMockPass(ctrl *gomock.Controller) *MockPass {
	mock := &MockPass{ctrl: ctrl}
	mock.recorder = &MockPassMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPass) EXPECT() *MockPassMockRecorder {
	return m.recorder
}

// ID mocks base method.
func (m *MockPass) ID() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ID")
	return ret[0].(string)
}

// ID indicates an expected call of ID.
func (mr *MockPassMockRecorder) ID() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ID", reflect.TypeOf((*MockPass)(nil).ID))
}

// Name mocks base method.
func (m *MockPass) Name() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Name")
	return ret[0].(string)
}

// Name indicates an expected call of Name.
func (mr *MockPassMockRecorder) Name() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Name", reflect.TypeOf((*MockPass)(nil).Name))
}

// Description mocks base method.
func (m *MockPass) Description() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Description")
	return ret[0].(string)
}

// Description indicates an expected call of Description.
func (mr *MockPassMockRecorder) Description() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Description", reflect.TypeOf((*MockPass)(nil).Description))
}

// bind mocks base method.
func (m *MockPass) bind(netlist *ir.Netlist, diags *PassDiagnostics) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "bind", netlist, diags)
}

// bind indicates an expected call of bind.
func (mr *MockPassMockRecorder) bind(netlist, diags interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "bind", reflect.TypeOf((*MockPass)(nil).bind), netlist, diags)
}

// run mocks base method.
func (m *MockPass) run() PassResult {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "run")
	return ret[0].(PassResult)
}

// run indicates an expected call of run.
func (mr *MockPassMockRecorder) run() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "run", reflect.TypeOf((*MockPass)(nil).run))
}
