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

// Package config loads and persists the deployment configuration document.
//
// The document is the only persistent input and output of a provisioning run:
// network names, secrets, event branding, rooms, and admins. It is loaded once
// per run. Only the secret provisioner mutates it, through Store.SetSecret,
// and it is written back at most once with Store.Save.
//
// Required fields are checked when first read, not at load time:
//
//	store, err := config.Load("/project/config/passingcircle.yml")
//	if err != nil {
//	    return err
//	}
//	domain, err := store.Document().RequireDomain()
//
// A missing or empty required field yields an errors.ErrCodeConfig error.
package config
