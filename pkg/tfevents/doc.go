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

// Package tfevents reads and writes TensorBoard event files.
//
// An event file is a TFRecord stream: every record is framed as
//
//	uint64 length | uint32 masked crc32c(length) | data | uint32 masked crc32c(data)
//
// and every record holds one serialized tensorflow.Event protobuf. Only the
// parts of Event needed for scalar summaries are modelled; unknown fields are
// skipped while decoding.
package tfevents
