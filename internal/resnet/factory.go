package resnet

import (
	"fmt"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// New builds and initializes a model.
//
// Construction fails with a *ConfigError (and returns no model) for an
// unsupported variant, an invalid Config, or a backend lacking ReLU, batch
// norm or average pooling. The head's pooling kernel is the spatial size
// the backbone produces for Config.InputSize (7 for 224).
func New[B tensor.Backend](variant Variant, cfg Config, backend B) (*Model[B], error) {
	blocks, err := variant.BlockCounts()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkBackend(backend); err != nil {
		return nil, err
	}

	stem := NewStem(cfg.BatchNormEps, backend)
	backbone, err := buildBackbone(blocks, cfg.BatchNormEps, backend)
	if err != nil {
		return nil, err
	}

	features, err := stem.OutputShape(tensor.Shape{1, 3, cfg.InputSize, cfg.InputSize})
	if err == nil {
		features, err = backbone.OutputShape(features)
	}
	if err != nil {
		return nil, &ConfigError{Field: "input_size", Value: cfg.InputSize, Reason: err.Error()}
	}

	head, err := NewHead(backbone.EmitChannels(), features[2], cfg.NumClasses, backend)
	if err != nil {
		return nil, err
	}

	m := &Model[B]{
		variant:  variant,
		cfg:      cfg,
		stem:     stem,
		backbone: backbone,
		head:     head,
	}
	nn.Init[B](m, cfg.Seed)
	return m, nil
}

// BuildModel builds a variant (50, 101 or 152) for numClasses classes on
// 224x224 images.
func BuildModel[B tensor.Backend](variant, numClasses int, backend B) (*Model[B], error) {
	cfg := DefaultConfig()
	cfg.NumClasses = numClasses
	return New(Variant(variant), cfg, backend)
}

// ResNet50 builds a 50-layer model.
func ResNet50[B tensor.Backend](backend B, cfg Config) (*Model[B], error) {
	return New(Variant50, cfg, backend)
}

// ResNet101 builds a 101-layer model.
func ResNet101[B tensor.Backend](backend B, cfg Config) (*Model[B], error) {
	return New(Variant101, cfg, backend)
}

// ResNet152 builds a 152-layer model.
func ResNet152[B tensor.Backend](backend B, cfg Config) (*Model[B], error) {
	return New(Variant152, cfg, backend)
}

func checkBackend(backend tensor.Backend) error {
	missing := func(op string) error {
		return &ConfigError{Field: "backend", Value: backend.Name(), Reason: fmt.Sprintf("does not implement %s", op)}
	}
	if _, ok := backend.(nn.ReLUBackend); !ok {
		return missing("ReLU")
	}
	if _, ok := backend.(nn.BatchNormBackend); !ok {
		return missing("BatchNorm2D")
	}
	if _, ok := backend.(nn.AvgPoolBackend); !ok {
		return missing("AvgPool2D")
	}
	return nil
}
