// Package signer computes the signature required to open a push
// connection to a live room.
package signer

import (
	"net/url"
	"os"
	"sync"

	"github.com/dop251/goja"

	"github.com/yndnr/livewatch-go/internal/core/domain"
	"github.com/yndnr/livewatch-go/internal/telemetry/logger"
)

// signFunction is the entry point the script bundle must export.
const signFunction = "get_sign"

// ScriptSigner signs parameters by evaluating a JavaScript bundle.
//
// The bundle must define a global get_sign(digest) function that
// returns the signature string. Each Sign call runs in a fresh VM;
// the compiled program is shared and swapped atomically on reload.
type ScriptSigner struct {
	path   string
	logger logger.Logger

	mu   sync.RWMutex
	prog *goja.Program
}

// ScriptOption configures a ScriptSigner.
type ScriptOption func(*ScriptSigner)

// WithLogger sets the logger for the signer.
func WithLogger(l logger.Logger) ScriptOption {
	return func(s *ScriptSigner) {
		s.logger = l
	}
}

// NewScriptSigner loads and compiles the script bundle at path.
func NewScriptSigner(path string, opts ...ScriptOption) (*ScriptSigner, error) {
	s := &ScriptSigner{
		path:   path,
		logger: logger.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload re-reads and re-compiles the script bundle.
//
// On failure the previously compiled program stays in place, so a
// half-written file during hot reload does not break signing.
func (s *ScriptSigner) Reload() error {
	src, err := os.ReadFile(s.path)
	if err != nil {
		return domain.ErrSignatureScript.WithDetails(s.path).WithCause(err)
	}

	prog, err := goja.Compile(s.path, string(src), false)
	if err != nil {
		return domain.ErrSignatureScript.WithDetails(s.path).WithCause(err)
	}

	s.mu.Lock()
	s.prog = prog
	s.mu.Unlock()

	s.logger.Debug("signature script compiled",
		"path", s.path,
		"bytes", len(src),
	)
	return nil
}

// Sign computes the canonical digest and passes it through the
// script's get_sign function.
func (s *ScriptSigner) Sign(params url.Values) (string, error) {
	s.mu.RLock()
	prog := s.prog
	s.mu.RUnlock()

	digest := Digest(params)

	vm := goja.New()
	if _, err := vm.RunProgram(prog); err != nil {
		return "", domain.ErrSignatureEval.WithCause(err)
	}

	fn, ok := goja.AssertFunction(vm.Get(signFunction))
	if !ok {
		return "", domain.ErrSignatureEval.WithDetails("script does not define " + signFunction)
	}

	result, err := fn(goja.Undefined(), vm.ToValue(digest))
	if err != nil {
		return "", domain.ErrSignatureEval.WithCause(err)
	}

	signature := result.String()
	if signature == "" || signature == "undefined" || signature == "null" {
		return "", domain.ErrSignatureEval.WithDetails("script returned empty signature")
	}

	return signature, nil
}
