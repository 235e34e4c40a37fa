package resnet

import (
	"errors"
	"fmt"

	"github.com/born-ml/resnet/internal/tensor"
)

// Common errors.
var (
	ErrConfig         = errors.New("invalid model configuration")
	ErrInputShape     = errors.New("invalid input shape")
	ErrShapeInvariant = errors.New("shape invariant violated")
)

// ConfigError describes a rejected construction parameter. No model is
// built when one is returned.
type ConfigError struct {
	Field  string // Parameter name (e.g. "variant", "num_classes")
	Value  any    // Rejected value
	Reason string // Why it was rejected
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("resnet: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrConfig.
func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// InputShapeError is returned (or raised by Forward) for an input tensor the
// model cannot consume.
type InputShapeError struct {
	Shape  tensor.Shape
	Reason string
}

// Error implements the error interface.
func (e *InputShapeError) Error() string {
	return fmt.Sprintf("resnet: input shape %v: %s", e.Shape, e.Reason)
}

// Unwrap returns ErrInputShape.
func (e *InputShapeError) Unwrap() error {
	return ErrInputShape
}

// ShapeInvariantError reports a residual addition whose operands disagree
// in shape, or a stage whose input width does not match its producer.
// Construction rules make it unreachable; it exists to catch wiring bugs.
type ShapeInvariantError struct {
	Block    string
	Main     tensor.Shape
	Shortcut tensor.Shape
}

// Error implements the error interface.
func (e *ShapeInvariantError) Error() string {
	return fmt.Sprintf("resnet: %s: main path %v != shortcut %v", e.Block, e.Main, e.Shortcut)
}

// Unwrap returns ErrShapeInvariant.
func (e *ShapeInvariantError) Unwrap() error {
	return ErrShapeInvariant
}
