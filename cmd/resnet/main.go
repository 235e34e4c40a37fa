// Package main provides the resnet CLI: build a ResNet, inspect it, and run
// inference on synthetic images.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/resnet/backend/cpu"
	"github.com/born-ml/resnet/resnet"
	"github.com/born-ml/resnet/tensor"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("resnet: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "version":
		fmt.Printf("resnet %s\n", version)
	case "info":
		info()
	case "summary":
		err = summary(args)
	case "infer":
		err = infer(args)
	case "help", "-h", "-help", "--help":
		usage()
	default:
		usage()
		log.Fatalf("unknown command %q", cmd)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Println("ResNet - bottleneck residual networks in Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  info       Show backend and CPU features")
	fmt.Println("  summary    Print layer shapes and parameter counts")
	fmt.Println("  infer      Run a forward pass on synthetic images")
}

// modelFlags registers the construction flags shared by summary and infer.
type modelFlags struct {
	variant *string
	classes *int
	size    *int
	seed    *uint64
	workers *int
}

func registerModelFlags(fs *flag.FlagSet) modelFlags {
	def := resnet.DefaultConfig()
	return modelFlags{
		variant: fs.String("variant", "50", "Model variant: 50, 101 or 152"),
		classes: fs.Int("classes", def.NumClasses, "Number of output classes"),
		size:    fs.Int("size", def.InputSize, "Input image height and width"),
		seed:    fs.Uint64("seed", def.Seed, "Weight initialization seed"),
		workers: fs.Int("workers", runtime.GOMAXPROCS(0), "Goroutines per kernel"),
	}
}

func (f modelFlags) build() (*resnet.Model[*cpu.Backend], *cpu.Backend, error) {
	variant, err := resnet.ParseVariant(*f.variant)
	if err != nil {
		return nil, nil, err
	}

	backendCfg := cpu.DefaultConfig()
	backendCfg.Parallel.Workers = *f.workers
	backend := cpu.NewWithConfig(backendCfg)

	cfg := resnet.DefaultConfig()
	cfg.NumClasses = *f.classes
	cfg.InputSize = *f.size
	cfg.Seed = *f.seed

	start := time.Now()
	model, err := resnet.New(variant, cfg, backend)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("built %s (%d blocks, %d parameters) in %v",
		variant, model.Backbone().NumBlocks(), model.NumParameters(), time.Since(start).Round(time.Millisecond))
	return model, backend, nil
}

func info() {
	backend := cpu.New()
	fmt.Printf("Backend:  %s\n", backend.Name())
	fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("Workers:  %d\n", backend.Config().Parallel.Workers)

	features := backend.Features()
	if len(features) == 0 {
		features = []string{"none detected"}
	}
	fmt.Printf("Features: %s\n", strings.Join(features, " "))

	fmt.Println("Variants:")
	for _, v := range resnet.Variants() {
		depths, _ := v.BlockCounts()
		fmt.Printf("  %-10s blocks %v\n", v, depths)
	}
}

func summary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	mf := registerModelFlags(fs)
	batch := fs.Int("batch", 1, "Batch size used for the shape trace")
	tree := fs.Bool("tree", false, "Print the full module tree instead of the table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	model, _, err := mf.build()
	if err != nil {
		return err
	}

	if *tree {
		fmt.Println(model)
		return nil
	}

	rows, err := model.Summary(*batch)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Layer\tType\tOutput Shape\tParams")
	total := 0
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%v\t%d\n", r.Name, r.Type, r.OutputShape, r.Params)
		total += r.Params
	}
	fmt.Fprintf(w, "Total\t\t\t%d\n", total)
	return w.Flush()
}

func infer(args []string) error {
	fs := flag.NewFlagSet("infer", flag.ExitOnError)
	mf := registerModelFlags(fs)
	batch := fs.Int("batch", 2, "Number of synthetic images")
	topK := fs.Int("top", 5, "Classes to report per image")
	runs := fs.Int("runs", 1, "Forward passes to time")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", *runs)
	}

	model, backend, err := mf.build()
	if err != nil {
		return err
	}

	images := syntheticImages(*batch, model.Config().InputSize, *mf.seed, backend)

	var logits *tensor.Tensor[float32, *cpu.Backend]
	var elapsed time.Duration
	for range *runs {
		start := time.Now()
		logits, err = model.Infer(images)
		if err != nil {
			return err
		}
		elapsed += time.Since(start)
	}
	log.Printf("forward %v -> %v: %v per pass", images.Shape(), logits.Shape(),
		(elapsed / time.Duration(*runs)).Round(time.Millisecond))

	classes := model.NumClasses()
	data := logits.Data()
	for i := range *batch {
		fmt.Printf("image %d:", i)
		for _, c := range topClasses(data[i*classes:(i+1)*classes], *topK) {
			fmt.Printf(" %d (%.4f)", c, data[i*classes+c])
		}
		fmt.Println()
	}
	return nil
}

// syntheticImages draws standard-normal pixels, the distribution of
// ImageNet-normalized inputs.
func syntheticImages(batch, size int, seed uint64, backend *cpu.Backend) *tensor.Tensor[float32, *cpu.Backend] {
	images := tensor.Zeros[float32](tensor.Shape{batch, 3, size, size}, backend)
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed + 1)}
	data := images.Data()
	for i := range data {
		data[i] = float32(dist.Rand())
	}
	return images
}

// topClasses returns the indices of the k largest logits, largest first.
func topClasses(logits []float32, k int) []int {
	idx := make([]int, len(logits))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return logits[idx[a]] > logits[idx[b]] })
	if k > len(idx) {
		k = len(idx)
	}
	return idx[:max(k, 0)]
}
