// Package mocks provides shared mock implementations of the store and auth
// interfaces for service and handler tests.
//
// Store mocks use testify/mock; set expectations with On and check them
// with AssertExpectations:
//
//	tasks := new(mocks.MockTaskStore)
//	tasks.On("GetByID", mock.Anything, int64(7)).Return(nil, store.ErrTaskNotFound)
//
// MockPasswordHasher uses function fields and records its calls.
package mocks
