package mocks

import (
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/series"
	"github.com/stretchr/testify/mock"
)

// Reader mock
type Reader struct {
	mock.Mock
}

// Read provides a mock function with given fields: dir
func (_m *Reader) Read(dir string) (series.Measurements, error) {
	ret := _m.Called(dir)

	var r0 series.Measurements
	if rf, ok := ret.Get(0).(func(string) series.Measurements); ok {
		r0 = rf(dir)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(series.Measurements)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(dir)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
