// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tfevents

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// FileVersion is written as the first event of every event file.
const FileVersion = "brain.Event:2"

// ScalarsPluginName marks tensor summaries holding scalars.
const ScalarsPluginName = "scalars"

// SessionStatus mirrors tensorflow.SessionLog.SessionStatus.
type SessionStatus int32

// Session statuses.
const (
	StatusUnspecified SessionStatus = iota
	StatusStart
	StatusStop
	StatusCheckpoint
)

// DataType mirrors the subset of tensorflow.DataType used by scalar tensors.
type DataType int32

// Data types.
const (
	DTInvalid DataType = 0
	DTFloat   DataType = 1
	DTDouble  DataType = 2
)

const dataClassScalar = 1

// Event is a single entry of an event file.
type Event struct {
	WallTime    float64
	Step        int64
	FileVersion string
	Summary     *Summary
	SessionLog  *SessionLog
}

// SessionLog marks session state changes, e.g. restarts.
type SessionLog struct {
	Status         SessionStatus
	CheckpointPath string
	Msg            string
}

// Summary holds tagged values recorded at one step.
type Summary struct {
	Values []Value
}

// Value is one tagged summary value. Exactly one of SimpleValue or Tensor is expected.
type Value struct {
	Tag         string
	SimpleValue *float32
	Tensor      *Tensor
	PluginName  string
	DataClass   int32
}

// Tensor is a minimal tensorflow.TensorProto.
type Tensor struct {
	DType     DataType
	Dims      []int64
	Content   []byte
	FloatVal  []float32
	DoubleVal []float64
}

// NewScalarEvent returns an event holding a single simple_value summary.
func NewScalarEvent(tag string, value float64, step int64, wallTime float64) *Event {
	simple := float32(value)
	return &Event{
		WallTime: wallTime,
		Step:     step,
		Summary:  &Summary{Values: []Value{{Tag: tag, SimpleValue: &simple}}},
	}
}

// Scalar returns the scalar held by the value and whether it is a scalar at all.
// simple_value summaries and single element float/double tensors of the scalars plugin
// are recognized.
func (v *Value) Scalar() (float64, bool) {
	if v.SimpleValue != nil {
		return float64(*v.SimpleValue), true
	}

	if v.Tensor == nil || (v.PluginName != ScalarsPluginName && v.DataClass != dataClassScalar) {
		return 0, false
	}

	for _, size := range v.Tensor.Dims {
		if size != 1 {
			return 0, false
		}
	}

	t := v.Tensor
	switch t.DType {
	case DTFloat:
		if len(t.FloatVal) == 1 {
			return float64(t.FloatVal[0]), true
		}
		if len(t.Content) == 4 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(t.Content))), true
		}
	case DTDouble:
		if len(t.DoubleVal) == 1 {
			return t.DoubleVal[0], true
		}
		if len(t.Content) == 8 {
			return math.Float64frombits(binary.LittleEndian.Uint64(t.Content)), true
		}
	}
	return 0, false
}

// FileVersionNumber returns N for file_version "brain.Event:N" or 0 when unknown.
func (e *Event) FileVersionNumber() float64 {
	const prefix = "brain.Event:"
	if !strings.HasPrefix(e.FileVersion, prefix) {
		return 0
	}
	version, err := strconv.ParseFloat(strings.TrimPrefix(e.FileVersion, prefix), 64)
	if err != nil {
		return 0
	}
	return version
}

// Marshal encodes the event in protobuf wire format.
func (e *Event) Marshal() []byte {
	var b []byte
	if e.WallTime != 0 {
		b = protowire.AppendTag(b, 1, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(e.WallTime))
	}
	if e.Step != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(e.Step))
	}
	switch {
	case e.FileVersion != "":
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, e.FileVersion)
	case e.Summary != nil:
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, e.Summary.marshal())
	case e.SessionLog != nil:
		b = protowire.AppendTag(b, 7, protowire.BytesType)
		b = protowire.AppendBytes(b, e.SessionLog.marshal())
	}
	return b
}

func (s *Summary) marshal() []byte {
	var b []byte
	for i := range s.Values {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, s.Values[i].marshal())
	}
	return b
}

func (v *Value) marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, v.Tag)
	if v.SimpleValue != nil {
		b = protowire.AppendTag(b, 2, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(*v.SimpleValue))
	}
	if v.Tensor != nil {
		b = protowire.AppendTag(b, 8, protowire.BytesType)
		b = protowire.AppendBytes(b, v.Tensor.marshal())
	}
	if v.PluginName != "" || v.DataClass != 0 {
		var metadata []byte
		if v.PluginName != "" {
			var pluginData []byte
			pluginData = protowire.AppendTag(pluginData, 1, protowire.BytesType)
			pluginData = protowire.AppendString(pluginData, v.PluginName)
			metadata = protowire.AppendTag(metadata, 1, protowire.BytesType)
			metadata = protowire.AppendBytes(metadata, pluginData)
		}
		if v.DataClass != 0 {
			metadata = protowire.AppendTag(metadata, 4, protowire.VarintType)
			metadata = protowire.AppendVarint(metadata, uint64(v.DataClass))
		}
		b = protowire.AppendTag(b, 9, protowire.BytesType)
		b = protowire.AppendBytes(b, metadata)
	}
	return b
}

func (t *Tensor) marshal() []byte {
	var b []byte
	if t.DType != DTInvalid {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(t.DType))
	}
	if len(t.Dims) > 0 {
		var shape []byte
		for _, size := range t.Dims {
			var dim []byte
			dim = protowire.AppendTag(dim, 1, protowire.VarintType)
			dim = protowire.AppendVarint(dim, uint64(size))
			shape = protowire.AppendTag(shape, 2, protowire.BytesType)
			shape = protowire.AppendBytes(shape, dim)
		}
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, shape)
	}
	if len(t.Content) > 0 {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, t.Content)
	}
	if len(t.FloatVal) > 0 {
		var packed []byte
		for _, f := range t.FloatVal {
			packed = protowire.AppendFixed32(packed, math.Float32bits(f))
		}
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	if len(t.DoubleVal) > 0 {
		var packed []byte
		for _, d := range t.DoubleVal {
			packed = protowire.AppendFixed64(packed, math.Float64bits(d))
		}
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	return b
}

func (l *SessionLog) marshal() []byte {
	var b []byte
	if l.Status != StatusUnspecified {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(l.Status))
	}
	if l.CheckpointPath != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, l.CheckpointPath)
	}
	if l.Msg != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, l.Msg)
	}
	return b
}

// fieldFunc handles a single decoded field and returns the number of consumed bytes.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// walk iterates over all fields of a message. Fields not handled by fn
// (fn returns 0 consumed bytes) are skipped.
func walk(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		consumed, err := fn(num, typ, b)
		if err != nil {
			return errors.Wrapf(err, "field %d", num)
		}
		if consumed == 0 {
			consumed = protowire.ConsumeFieldValue(num, typ, b)
			if consumed < 0 {
				return errors.Wrapf(protowire.ParseError(consumed), "field %d", num)
			}
		}
		b = b[consumed:]
	}
	return nil
}

func consumed(n int) (int, error) {
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}

// UnmarshalEvent decodes an event from protobuf wire format.
func UnmarshalEvent(b []byte) (*Event, error) {
	e := &Event{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			e.WallTime = math.Float64frombits(v)
			return consumed(n)
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			e.Step = int64(v)
			return consumed(n)
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			e.FileVersion = v
			return consumed(n)
		case num == 5 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return consumed(n)
			}
			summary, err := unmarshalSummary(v)
			if err != nil {
				return 0, errors.Wrap(err, "summary")
			}
			e.Summary = summary
			return n, nil
		case num == 7 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return consumed(n)
			}
			log, err := unmarshalSessionLog(v)
			if err != nil {
				return 0, errors.Wrap(err, "session log")
			}
			e.SessionLog = log
			return n, nil
		}
		return 0, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode event")
	}
	return e, nil
}

func unmarshalSummary(b []byte) (*Summary, error) {
	s := &Summary{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 || typ != protowire.BytesType {
			return 0, nil
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return consumed(n)
		}
		value, err := unmarshalValue(v)
		if err != nil {
			return 0, err
		}
		s.Values = append(s.Values, *value)
		return n, nil
	})
	return s, err
}

func unmarshalValue(b []byte) (*Value, error) {
	v := &Value{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			tag, n := protowire.ConsumeString(b)
			v.Tag = tag
			return consumed(n)
		case num == 2 && typ == protowire.Fixed32Type:
			bits, n := protowire.ConsumeFixed32(b)
			simple := math.Float32frombits(bits)
			v.SimpleValue = &simple
			return consumed(n)
		case num == 8 && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return consumed(n)
			}
			tensor, err := unmarshalTensor(raw)
			if err != nil {
				return 0, errors.Wrap(err, "tensor")
			}
			v.Tensor = tensor
			return n, nil
		case num == 9 && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return consumed(n)
			}
			if err := unmarshalMetadata(raw, v); err != nil {
				return 0, errors.Wrap(err, "metadata")
			}
			return n, nil
		}
		return 0, nil
	})
	return v, err
}

func unmarshalMetadata(b []byte, v *Value) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return consumed(n)
			}
			err := walk(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
				if num != 1 || typ != protowire.BytesType {
					return 0, nil
				}
				name, n := protowire.ConsumeString(b)
				v.PluginName = name
				return consumed(n)
			})
			return n, err
		case num == 4 && typ == protowire.VarintType:
			class, n := protowire.ConsumeVarint(b)
			v.DataClass = int32(class)
			return consumed(n)
		}
		return 0, nil
	})
}

func unmarshalTensor(b []byte) (*Tensor, error) {
	t := &Tensor{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			dtype, n := protowire.ConsumeVarint(b)
			t.DType = DataType(dtype)
			return consumed(n)
		case num == 2 && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return consumed(n)
			}
			return n, walk(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
				if num != 2 || typ != protowire.BytesType {
					return 0, nil
				}
				dim, n := protowire.ConsumeBytes(b)
				if n < 0 {
					return consumed(n)
				}
				size := int64(0)
				err := walk(dim, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					if num != 1 || typ != protowire.VarintType {
						return 0, nil
					}
					v, n := protowire.ConsumeVarint(b)
					size = int64(v)
					return consumed(n)
				})
				t.Dims = append(t.Dims, size)
				return n, err
			})
		case num == 4 && typ == protowire.BytesType:
			content, n := protowire.ConsumeBytes(b)
			t.Content = append([]byte(nil), content...)
			return consumed(n)
		case num == 5 && typ == protowire.Fixed32Type:
			bits, n := protowire.ConsumeFixed32(b)
			t.FloatVal = append(t.FloatVal, math.Float32frombits(bits))
			return consumed(n)
		case num == 5 && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return consumed(n)
			}
			for len(packed) > 0 {
				bits, m := protowire.ConsumeFixed32(packed)
				if m < 0 {
					return consumed(m)
				}
				t.FloatVal = append(t.FloatVal, math.Float32frombits(bits))
				packed = packed[m:]
			}
			return n, nil
		case num == 6 && typ == protowire.Fixed64Type:
			bits, n := protowire.ConsumeFixed64(b)
			t.DoubleVal = append(t.DoubleVal, math.Float64frombits(bits))
			return consumed(n)
		case num == 6 && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return consumed(n)
			}
			for len(packed) > 0 {
				bits, m := protowire.ConsumeFixed64(packed)
				if m < 0 {
					return consumed(m)
				}
				t.DoubleVal = append(t.DoubleVal, math.Float64frombits(bits))
				packed = packed[m:]
			}
			return n, nil
		}
		return 0, nil
	})
	return t, err
}

func unmarshalSessionLog(b []byte) (*SessionLog, error) {
	l := &SessionLog{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			status, n := protowire.ConsumeVarint(b)
			l.Status = SessionStatus(status)
			return consumed(n)
		case num == 2 && typ == protowire.BytesType:
			path, n := protowire.ConsumeString(b)
			l.CheckpointPath = path
			return consumed(n)
		case num == 3 && typ == protowire.BytesType:
			msg, n := protowire.ConsumeString(b)
			l.Msg = msg
			return consumed(n)
		}
		return 0, nil
	})
	return l, err
}
