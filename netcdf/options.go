package netcdf

import (
	"go.uber.org/zap"
)

// FileOption configures Create.
type FileOption func(*fileOptions)

type fileOptions struct {
	alignment uint64
	logger    *zap.Logger
}

func defaultFileOptions() *fileOptions {
	return &fileOptions{alignment: 8, logger: zap.NewNop()}
}

// WithAlignment aligns the start of every variable's data to n bytes.
func WithAlignment(n uint64) FileOption {
	return func(o *fileOptions) {
		if n > 0 {
			o.alignment = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) FileOption {
	return func(o *fileOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// VariableOption configures AddVariable.
type VariableOption func(*variableOptions)

type attrDef struct {
	name  string
	value any
}

type variableOptions struct {
	deflate    int
	shuffle    bool
	attributes []attrDef
}

// WithCompression stores the variable as one deflate-compressed chunk at the
// given level (1-9). A level of 0 leaves the variable uncompressed.
func WithCompression(level int) VariableOption {
	return func(o *variableOptions) {
		if level >= 0 && level <= 9 {
			o.deflate = level
		}
	}
}

// WithShuffle adds the byte shuffle filter ahead of compression. It has no
// effect on an uncompressed variable.
func WithShuffle() VariableOption {
	return func(o *variableOptions) {
		o.shuffle = true
	}
}

// WithAttribute attaches an attribute to the variable.
func WithAttribute(name string, value any) VariableOption {
	return func(o *variableOptions) {
		o.attributes = append(o.attributes, attrDef{name: name, value: value})
	}
}
