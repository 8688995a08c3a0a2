package annotate

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/swdee/go-annotate/augment"
	"github.com/swdee/go-annotate/config"
	"github.com/swdee/go-annotate/dispatch"
	"github.com/swdee/go-annotate/transform"
	"github.com/swdee/go-annotate/yolo"
	"gocv.io/x/gocv"
)

// PadColor is the Ultralytics gray used for letterbox padding and pixels
// uncovered by a warp
var PadColor = color.RGBA{R: 114, G: 114, B: 114, A: 255}

// jpegQuality is used when writing images with the pure Go backend
const jpegQuality = 95

// Outcome is the result of processing one Item
type Outcome struct {
	Item Item
	// Index of the Item in the list given to Run
	Index int
	// Width and Height of the source image
	Width  int
	Height int
	// Chain is the resolved transform chain applied to the Item
	Chain  transform.Chain
	Result dispatch.Result
	Err    error
}

// Processor applies the configured pipeline and random augmentation to the
// images and labels of a dataset
type Processor struct {
	cfg        *config.Config
	dispatcher *dispatch.Dispatcher
	pool       *Pool
	seed       uint64
}

// NewProcessor returns a Processor for the config.  A zero seed in the config
// is replaced with a random one.
func NewProcessor(cfg *config.Config) *Processor {

	seed := cfg.Seed

	if seed == 0 {
		seed = rand.Uint64()
	}

	p := &Processor{
		cfg:        cfg,
		dispatcher: dispatch.New(cfg.DispatchParams()),
		seed:       seed,
	}

	if cfg.Backend == config.BackendGoCV {
		p.pool = NewPool(cfg.Workers, PadColor)
	}

	return p
}

// Seed returns the seed used to sample augmentations, running again with the
// same seed reproduces the same output
func (p *Processor) Seed() uint64 {
	return p.seed
}

// Close frees the warper pool
func (p *Processor) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Chain returns the resolved chain for the item at index of an image with
// the given dimensions.  The fixed pipeline comes first followed by an
// augmentation sampled from a generator seeded by the index so results do
// not depend on which worker handles the item.
func (p *Processor) Chain(index, width, height int) (transform.Chain, error) {

	pipeline, err := p.cfg.Chain().Resolve(width, height)

	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	pw, ph := pipeline.OutSize(width, height)

	rng := rand.New(rand.NewPCG(p.seed, uint64(index)))
	aug := p.cfg.Augment.Sample(rng, pw, ph)

	chain := make(transform.Chain, 0, len(pipeline)+len(aug))
	chain = append(chain, p.cfg.Chain()...)
	chain = append(chain, aug...)

	return chain.Resolve(width, height)
}

// Process transforms a single item
func (p *Processor) Process(index int, item Item) Outcome {

	out := Outcome{Item: item, Index: index}

	out.Width, out.Height, out.Err = augment.ImageSize(item.Image)

	if out.Err != nil {
		return out
	}

	out.Chain, out.Err = p.Chain(index, out.Width, out.Height)

	if out.Err != nil {
		return out
	}

	return p.apply(out)
}

// apply transforms the labels and image of out.Item with the resolved
// out.Chain and writes them to the Item's output paths
func (p *Processor) apply(out Outcome) Outcome {

	format := p.cfg.YoloFormat()

	anns, err := yolo.ReadFile(out.Item.Labels, format,
		float64(out.Width), float64(out.Height))

	if err != nil {
		out.Err = err
		return out
	}

	out.Result, out.Err = p.dispatcher.Apply(out.Chain, anns, out.Width, out.Height)

	if out.Err != nil {
		return out
	}

	if out.Item.OutImage != "" {
		if out.Err = p.writeImage(out.Item, out.Chain); out.Err != nil {
			return out
		}
	}

	if out.Item.OutLabels != "" {
		out.Err = writeLabels(out.Item.OutLabels, format, out.Result)
	}

	return out
}

// writeLabels writes the transformed annotations creating the directory
func writeLabels(file string, format yolo.Format, res dispatch.Result) error {

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("error creating label directory: %w", err)
	}

	return yolo.WriteFile(file, format, res.Annotations,
		float64(res.Width), float64(res.Height))
}

// writeImage warps the item's image with the chain and saves it
func (p *Processor) writeImage(item Item, chain transform.Chain) error {

	if err := os.MkdirAll(filepath.Dir(item.OutImage), 0o755); err != nil {
		return fmt.Errorf("error creating image directory: %w", err)
	}

	if p.pool == nil {
		img, err := augment.LoadImage(item.Image)

		if err != nil {
			return err
		}

		warped, err := augment.ApplyImageChain(img, chain, PadColor)

		if err != nil {
			return err
		}

		return augment.SaveImage(warped, item.OutImage, jpegQuality)
	}

	img := gocv.IMRead(item.Image, gocv.IMReadColor)
	defer img.Close()

	if img.Empty() {
		return fmt.Errorf("error reading image from: %s", item.Image)
	}

	dst := gocv.NewMat()
	defer dst.Close()

	// Pool.Get() blocks if no warpers are available in the pool
	warper := p.pool.Get()
	err := warper.ApplyChain(img, &dst, chain)
	p.pool.Return(warper)

	if err != nil {
		return err
	}

	if !gocv.IMWrite(item.OutImage, dst) {
		return fmt.Errorf("error writing image to: %s", item.OutImage)
	}

	return nil
}

// Run processes the items across the configured number of workers.  Failed
// items are logged and reported in their Outcome without stopping the run.
// Outcomes are returned in item order, items not started before ctx was
// cancelled carry the context error.  The optional hook is called from the
// worker goroutines as each item completes.
func (p *Processor) Run(ctx context.Context, items []Item, hook func(Outcome)) ([]Outcome, error) {
	return p.run(ctx, len(items),
		func(idx int) Outcome {
			return p.Process(idx, items[idx])
		},
		func(idx int) Item {
			return items[idx]
		},
		hook)
}

// run hands the job indexes 0 to n-1 to the workers
func (p *Processor) run(ctx context.Context, n int, process func(idx int) Outcome,
	item func(idx int) Item, hook func(Outcome)) ([]Outcome, error) {

	start := time.Now()
	outcomes := make([]Outcome, n)
	jobs := make(chan int)

	var wg sync.WaitGroup

	for w := 0; w < p.cfg.Workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				res := process(idx)

				if res.Err != nil {
					slog.Warn("Failed to process item", "image", res.Item.Image, "error", res.Err)
				} else {
					slog.Debug("Processed item", "image", res.Item.Image,
						"steps", res.Chain.Kinds(), "kept", len(res.Result.Annotations),
						"removed", len(res.Result.Removed))
				}

				outcomes[idx] = res

				if hook != nil {
					hook(res)
				}
			}
		}()
	}

	var err error
	next := 0

feed:
	for ; next < n; next++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- next:
		}
	}

	close(jobs)
	wg.Wait()

	// mark items never handed to a worker
	for i := next; i < n; i++ {
		outcomes[i] = Outcome{Item: item(i), Index: i, Err: err}
	}

	slog.Info("Run complete", "items", n, "started", next,
		"failed", countFailed(outcomes), "duration", time.Since(start).String())

	return outcomes, err
}

// countFailed returns the number of outcomes with an error
func countFailed(outcomes []Outcome) int {

	n := 0

	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}

	return n
}

// Errors joins the errors of every failed outcome
func Errors(outcomes []Outcome) error {

	var errs []error

	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Item.Image, o.Err))
		}
	}

	return errors.Join(errs...)
}
