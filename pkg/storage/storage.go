// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"
	"log/slog"
	"os"

	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
	"github.com/passingcircle/passingcircle/pkg/layout"
	"github.com/passingcircle/passingcircle/pkg/result"
)

// StageName is the name results are reported under.
const StageName = "data"

// Prepare creates the persistent data directories. Existing directories and
// their contents are left alone.
func Prepare(ctx context.Context, lay layout.Layout) (*result.Result, error) {
	res := result.New(StageName)

	for _, rel := range layout.DataDirs() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		path := lay.Abs(rel)
		if err := os.MkdirAll(path, defaults.DirMode); err != nil {
			res.AddError(err)
			return res, errors.WrapWithContext(errors.ErrCodeIO, "failed to create data directory", err,
				map[string]any{"path": path})
		}
		slog.Debug("data directory ready", "path", path)
	}

	res.MarkSuccess()
	return res, nil
}
