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

/*
Package conf wraps kingpin to give the aggregator:
- flags that can also be set through AGGREGATOR_ prefixed environment variables,
- a dump of the current configuration in "allexport" shell form,
- struct-tag based flag registration for component configs (see Process),
- parsing of list literals such as "['test', 'train']",
- a UsageError type reported for invalid parameters before any work starts.
*/
package conf
