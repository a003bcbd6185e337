// Package onnx owns process-wide ONNX Runtime initialisation. Both the
// classifier heads and the speech acoustic model share the single runtime
// environment; sessions are created per model and live for the process.
package onnx

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init initialises the ONNX Runtime environment exactly once. libPath may
// point at the onnxruntime shared library; when empty the loader's default
// search path is used. Subsequent calls return the first result.
func Init(libPath string) error {
	initOnce.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			initErr = fmt.Errorf("onnx: initialise runtime: %w", err)
		}
	})
	return initErr
}

// OpenSession loads the model at path as a dynamic session, resolving input
// and output names from the model itself.
func OpenSession(path string) (*ort.DynamicAdvancedSession, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("onnx: inspect %s: %w", path, err)
	}
	inNames := make([]string, len(inputs))
	for i, info := range inputs {
		inNames[i] = info.Name
	}
	outNames := make([]string, len(outputs))
	for i, info := range outputs {
		outNames[i] = info.Name
	}

	sess, err := ort.NewDynamicAdvancedSession(path, inNames, outNames, nil)
	if err != nil {
		return nil, fmt.Errorf("onnx: open session %s: %w", path, err)
	}
	return sess, nil
}
