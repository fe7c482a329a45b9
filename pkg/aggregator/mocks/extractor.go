package mocks

import (
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/extract"
	"github.com/stretchr/testify/mock"
)

// Extractor mock
type Extractor struct {
	mock.Mock
}

// Extract provides a mock function with given fields: subgroup
func (_m *Extractor) Extract(subgroup string) (*extract.Group, error) {
	ret := _m.Called(subgroup)

	var r0 *extract.Group
	if rf, ok := ret.Get(0).(func(string) *extract.Group); ok {
		r0 = rf(subgroup)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*extract.Group)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(subgroup)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
