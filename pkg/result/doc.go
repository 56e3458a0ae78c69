/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package result records what each provisioning stage did.
//
// A Result belongs to one stage and lists the files it wrote and the paths it
// skipped. An Output collects the results of a whole run:
//
//	out := &result.Output{RunID: id}
//	r := result.New("render")
//	r.AddFile("/project/services/synapse/homeserver.yaml", 2048)
//	r.MarkSuccess()
//	out.Add(r)
//	fmt.Println(out.Summary())
//
// Results are not safe for concurrent use. The pipeline runs stages one at a
// time, so none is needed.
package result
