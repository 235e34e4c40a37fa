package resnet

import (
	"fmt"
	"strconv"
	"strings"
)

// Expansion is the ratio between a bottleneck block's emitted channels and
// its internal width.
const Expansion = 4

// DefaultBatchNormEps is the epsilon used by every batch norm layer unless
// Config overrides it.
const DefaultBatchNormEps = 1e-5

// Per-stage internal widths and first-block strides. They are the same for
// every variant.
var (
	stageWidths  = [4]int{64, 128, 256, 512}
	stageStrides = [4]int{1, 2, 2, 2}
)

// Variant selects a network depth.
type Variant int

// Supported variants.
const (
	Variant50  Variant = 50
	Variant101 Variant = 101
	Variant152 Variant = 152
)

// Variants lists the supported variants in increasing depth.
func Variants() []Variant {
	return []Variant{Variant50, Variant101, Variant152}
}

// BlockCounts returns the number of bottleneck blocks in each of the four
// stages.
func (v Variant) BlockCounts() ([]int, error) {
	switch v {
	case Variant50:
		return []int{3, 4, 6, 3}, nil
	case Variant101:
		return []int{3, 4, 23, 3}, nil
	case Variant152:
		return []int{3, 8, 36, 3}, nil
	default:
		return nil, &ConfigError{Field: "variant", Value: int(v), Reason: "supported variants are 50, 101 and 152"}
	}
}

// String returns the variant name (e.g. "resnet50").
func (v Variant) String() string {
	return "resnet" + strconv.Itoa(int(v))
}

// ParseVariant parses "50", "resnet101", "ResNet-152" and similar spellings.
func ParseVariant(s string) (Variant, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "resnet")
	name = strings.TrimPrefix(name, "-")
	n, err := strconv.Atoi(name)
	if err != nil {
		return 0, &ConfigError{Field: "variant", Value: s, Reason: "not a variant name"}
	}
	v := Variant(n)
	if _, err := v.BlockCounts(); err != nil {
		return 0, err
	}
	return v, nil
}

// Config holds model construction options.
type Config struct {
	NumClasses   int     // Logit count of the classification head
	InputSize    int     // Height and width of accepted images
	Seed         uint64  // Seed of the weight initializer
	BatchNormEps float32 // Epsilon of every batch norm layer
}

// DefaultConfig returns the ImageNet configuration: 1000 classes on
// 224x224 images.
func DefaultConfig() Config {
	return Config{
		NumClasses:   1000,
		InputSize:    224,
		Seed:         0,
		BatchNormEps: DefaultBatchNormEps,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.NumClasses <= 0 {
		return &ConfigError{Field: "num_classes", Value: c.NumClasses, Reason: "must be positive"}
	}
	if c.InputSize <= 0 {
		return &ConfigError{Field: "input_size", Value: c.InputSize, Reason: "must be positive"}
	}
	if c.BatchNormEps < 0 {
		return &ConfigError{Field: "batch_norm_eps", Value: c.BatchNormEps, Reason: "must not be negative"}
	}
	return nil
}

// String returns a one-line description of the configuration.
func (c Config) String() string {
	return fmt.Sprintf("Config(num_classes=%d, input_size=%d, seed=%d, batch_norm_eps=%g)",
		c.NumClasses, c.InputSize, c.Seed, c.BatchNormEps)
}
