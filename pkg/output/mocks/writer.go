package mocks

import (
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/output"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/reduce"
	"github.com/stretchr/testify/mock"
)

// Writer mock
type Writer struct {
	mock.Mock
}

// Write provides a mock function with given fields: target, group, steps, wallTimes
func (_m *Writer) Write(target output.Target, group reduce.Group, steps []int64, wallTimes []float64) error {
	ret := _m.Called(target, group, steps, wallTimes)

	var r0 error
	if rf, ok := ret.Get(0).(func(output.Target, reduce.Group, []int64, []float64) error); ok {
		r0 = rf(target, group, steps, wallTimes)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
