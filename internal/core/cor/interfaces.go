// Copyright 2025 Veridia, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cor (Chain of Responsibility) provides the building blocks for the
// analysis pipeline. A workflow is a Chain of Commands; each Command is an
// atomic, side-effect-free transform that reads its input from the shared
// Context and writes its output back for the next Command. This file defines
// the interfaces that govern those components.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys that carry the primary data flow through a
// chain: a chain moves each command's CtxOut value into CtxIn before running
// the next command.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state for a single pipeline execution. It carries
// data between commands, collects errors, tracks temporary files for
// cleanup, and holds the Go context used for cancellation and tracing.
type Context interface {
	// SetContext sets the standard Go context carrying cancellation and
	// trace information.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.
	GetContext() context.Context

	// Add stores a key-value pair. Returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records an error keyed by the name of the command that
	// produced it.
	AddError(key string, err error)

	// GetErrors returns all errors collected during the execution.
	GetErrors() map[string]error

	// Get retrieves a value by key, or nil.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command has failed.
	HasErrors() bool

	// AddTempFile tracks a temporary file created during the execution so
	// Close can remove it.
	AddTempFile(file string)

	// GetTempFiles returns all tracked temporary file paths.
	GetTempFiles() []string

	// Close removes all tracked temporary files. Defer it at the start of
	// an execution.
	Close()
}

// Executable is anything with core execution logic over a Context.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic, testable, thread-safe unit of work within a chain.
type Command interface {
	Executable

	// GetName returns the command's unique name, used for logging,
	// tracing, and error keys.
	GetName() string

	// GetInputParam returns the context key the command reads its primary
	// input from.
	GetInputParam() string

	// GetOutputParam returns the context key the command writes its
	// primary output to.
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	// GetTracer returns the command's OpenTelemetry tracer.
	GetTracer() trace.Tracer

	// GetMeter returns the command's OpenTelemetry meter.
	GetMeter() metric.Meter

	// GetSuccessCounter returns the counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns the counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains nest.
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing after
	// a command records an error. The default is to stop.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
