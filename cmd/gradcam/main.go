// Command gradcam explains an image classifier's predictions with Grad-CAM.
//
// Usage:
//
//	gradcam [flags] image.png [image.jpg ...]
//
// Every image is resized to the model's input size, classified, and
// explained at the target layers. The result is written as a PNG grid with
// the inputs in one row and one overlay row per layer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/internal/backend/cpu"
	"github.com/born-ml/gradcam/internal/config"
	"github.com/born-ml/gradcam/internal/gradcam"
	"github.com/born-ml/gradcam/internal/loader"
	"github.com/born-ml/gradcam/internal/models"
	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/render"
	"github.com/born-ml/gradcam/internal/tensor"
)

func main() {
	configPath := flag.String("config", "", "JSON config file (default: built-in CIFAR-10 setup)")
	modelName := flag.String("model", "", "Model name, one of "+strings.Join(models.Names(), ", "))
	weights := flag.String("weights", "", "SafeTensors weights to load")
	saveWeights := flag.String("save-weights", "", "Write the model weights to this SafeTensors file")
	list := flag.Bool("list", false, "Print the model's layer names and exit")
	seed := flag.Int64("seed", 0, "Seed for weight initialization (0 = config value)")
	layers := flag.String("layers", "", "Comma-separated target layers")
	labels := flag.String("labels", "", "Comma-separated class ids, one per image (default: predicted class)")
	out := flag.String("out", "gradcam.png", "Output grid PNG")
	topK := flag.Int("topk", 0, "Number of predictions to print (0 = config value)")
	verbose := flag.Bool("v", false, "Log degenerate saliency maps")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *modelName != "" {
		cfg.Model = *modelName
		if *configPath == "" {
			if info, err := models.Lookup(cfg.Model); err == nil {
				cfg.TargetLayers = info.DefaultLayers
			}
		}
	}
	if *weights != "" {
		cfg.Weights = *weights
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *layers != "" {
		cfg.TargetLayers = splitList(*layers)
	}
	if *topK != 0 {
		cfg.TopK = *topK
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config: %v", err)
	}

	backend := autodiff.New(cpu.New())
	nn.SeedInit(cfg.Seed)
	net, err := models.New(cfg.Model, len(cfg.Classes), backend)
	if err != nil {
		log.Fatalf("Failed to build model: %v", err)
	}
	if cfg.Weights != "" {
		if err := loader.LoadWeights(net, cfg.Weights); err != nil {
			log.Fatalf("Failed to load weights: %v", err)
		}
		fmt.Printf("Loaded weights from %s\n", cfg.Weights)
	}
	if *saveWeights != "" {
		meta := map[string]string{"model": cfg.Model, "classes": strconv.Itoa(len(cfg.Classes))}
		if err := loader.SaveWeights(net, *saveWeights, meta); err != nil {
			log.Fatalf("Failed to save weights: %v", err)
		}
		fmt.Printf("Saved weights to %s\n", *saveWeights)
	}

	if *list {
		printLayers(net)
		return
	}

	paths := flag.Args()
	if len(paths) == 0 {
		if *saveWeights != "" {
			return
		}
		fmt.Fprintln(os.Stderr, "usage: gradcam [flags] image...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	_, size, err := cfg.Input()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	images, err := loadImages(paths, size, cfg.Mean, cfg.Std)
	if err != nil {
		log.Fatalf("Failed to load images: %v", err)
	}

	classIDs, err := parseLabels(*labels, len(images), len(cfg.Classes))
	if err != nil {
		log.Fatalf("Labels: %v", err)
	}
	if classIDs == nil {
		if classIDs, err = predict(net, images); err != nil {
			log.Fatalf("Failed to classify: %v", err)
		}
	}

	var opts []gradcam.Option
	if *verbose {
		opts = append(opts, gradcam.WithLogger(log.Default()))
	}
	res, err := gradcam.Run(net, images, classIDs, cfg.TargetLayers, opts...)
	if err != nil {
		log.Fatalf("Grad-CAM failed: %v", err)
	}

	for i, path := range paths {
		fmt.Printf("%s (explaining %s)\n", path, className(cfg.Classes, classIDs[i]))
		scores := res.Scores.Row(i)
		for j := 0; j < cfg.TopK && j < len(scores); j++ {
			fmt.Printf("  %d. %-10s %8.4f\n", j+1, className(cfg.Classes, res.Indices[i][j]), scores[j])
		}
		for _, m := range res.Maps {
			if m.Degenerate[i] {
				fmt.Printf("  %s: no positive evidence\n", m.Layer)
			}
		}
	}

	grid, err := render.Grid(images, classIDs, res, render.Options{
		Mean:       cfg.Mean,
		Std:        cfg.Std,
		ClassNames: cfg.Classes,
		TileSize:   cfg.TileSize,
	})
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := render.SavePNG(*out, grid); err != nil {
		log.Fatalf("Failed to write grid: %v", err)
	}
	fmt.Printf("Saved %s\n", *out)
}

func printLayers[B tensor.Backend](net *nn.Network[B]) {
	for _, l := range net.Layers() {
		fmt.Printf("%-20s %s\n", l.Name(), l.Module())
	}
}

func className(names []string, id int) string {
	if id >= 0 && id < len(names) {
		return names[id]
	}
	return strconv.Itoa(id)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
