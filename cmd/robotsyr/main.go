package main

import (
	"io"
	"log/slog"
	"math"
	"os"
	"reflect"
	"runtime"

	"github.com/aabizri/robotsyr"
	"github.com/aabizri/robotsyr/interchange/genotype"
	"github.com/aabizri/robotsyr/interchange/phenotype"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	sequencerQueueSize = 5
	orderInQueueSize   = 5
	orderOutQueueSize  = 0
	outQueueSize       = 5
)

type options struct {
	workers    int
	configPath string
	sticky     bool
	verbose    bool
	compress   bool

	// Export rotation, in degrees
	yaw, pitch, roll float64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "robotsyr [file]",
		Short: "Build robot blueprints from a stream of derived genotypes",
		Long: "robotsyr reads YAML genotype documents (stdin when no file is given), builds each\n" +
			"of them into a robot blueprint and writes one JSON phenotype document per line.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			return execute(cmd.OutOrStdout(), r, cmd.ErrOrStderr(), opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "number of concurrent builders")
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML file overriding the interpreter defaults")
	flags.BoolVar(&opts.sticky, "sticky-joints", false, "keep the joint configuration across spawns")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every build")
	flags.BoolVar(&opts.compress, "zstd", false, "compress the output stream")
	flags.Float64Var(&opts.yaw, "yaw", 0, "yaw of the bounding box pass, in degrees")
	flags.Float64Var(&opts.pitch, "pitch", 0, "pitch of the bounding box pass, in degrees")
	flags.Float64Var(&opts.roll, "roll", 0, "roll of the bounding box pass, in degrees")
	return cmd
}

func execute(w io.Writer, r io.Reader, ew io.Writer, opts options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(ew, &slog.HandlerOptions{Level: level}))

	config := robotsyr.DefaultConfig()
	if opts.configPath != "" {
		var err error
		config, err = robotsyr.LoadConfig(opts.configPath)
		if err != nil {
			return errors.Wrap(err, "loading config")
		}
	}
	if opts.sticky {
		config.StickyJoint = true
	}

	table := robotsyr.NewInterner()
	for _, tok := range robotsyr.StandardTokens() {
		if _, err := table.Intern(tok); err != nil {
			return err
		}
	}
	registry := robotsyr.NewRegistry()
	registry.PopulateStandard(table)

	interpreter, err := robotsyr.New(config, registry, robotsyr.WithLogger(logger))
	if err != nil {
		return err
	}

	enc, err := phenotype.NewEncoder(w, opts.compress)
	if err != nil {
		return err
	}

	f := &factory{
		interpreter: interpreter,
		rotation:    robotsyr.QuatFromEuler(radians(opts.yaw), radians(opts.pitch), radians(opts.roll)),
		log:         logger,
	}
	s, err := listen(enc, r, table, f, opts.workers)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	logger.Info("done", slog.Int("documents", s.total), slog.Int("failed", s.failed))
	if s.failed > 0 {
		return errors.Errorf("%d of %d documents failed", s.failed, s.total)
	}
	return nil
}

func radians(d float64) float64 {
	return d * math.Pi / 180
}

// factory turns imported genotypes into phenotype documents.
type factory struct {
	interpreter *robotsyr.Interpreter
	rotation    robotsyr.Quat
	log         *slog.Logger
}

func (f *factory) build(o *order) (*phenotype.Document, error) {
	bp, err := f.interpreter.Build(o.genotype)
	if err != nil {
		return nil, err
	}
	if err := bp.Validate(); err != nil {
		// Modules spawned after popping back above the first spawn are
		// detached. The blueprint is still written out.
		f.log.Warn("blueprint is not a single tree",
			slog.Int("document", o.seq),
			slog.String("name", o.name),
			slog.String("reason", err.Error()),
		)
	}
	return &phenotype.Document{
		Name:      o.name,
		Blueprint: bp,
		Bounds:    robotsyr.ComputeAABB(bp, f.rotation),
	}, nil
}

type stats struct {
	total, failed int
}

// listen decodes the genotype stream from r, builds every document through the
// pipeline and writes the results to enc in input order. A document that fails
// to import, build or encode is logged and counted, and does not stop the
// stream. Only a failing writer does.
func listen(enc *phenotype.Encoder, r io.Reader, table *robotsyr.Interner, f *factory, workers int) (stats, error) {
	in, out := buildPipeline(f, workers)

	// Signal that the pipeline is empty
	var s stats
	var writeErr error
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for o := range out {
			s.total++
			if o.err == nil && writeErr == nil {
				err := enc.Encode(o.doc)
				switch {
				case errors.Is(err, phenotype.ErrUnencodable):
					o.err = err
				case err != nil:
					writeErr = err
				}
			}
			if o.err != nil {
				s.failed++
				f.log.Error("build failed",
					slog.Int("document", o.seq),
					slog.String("name", o.name),
					slog.String("error", o.err.Error()),
				)
				continue
			}
			if writeErr != nil {
				continue
			}
			f.log.Debug("document written",
				slog.Int("document", o.seq),
				slog.String("name", o.name),
				slog.Int("modules", len(o.doc.Blueprint.Modules)),
			)
		}
	}()

	var decodeErr error
	dec := genotype.NewDecoder(r)
	for {
		format, err := dec.Decode()
		if err == io.EOF {
			break
		} else if err != nil {
			decodeErr = errors.Wrap(err, "decoding genotype stream")
			break
		}

		g, err := format.Import(table, f.interpreter.Config())
		in <- &order{
			name:     format.Name,
			genotype: g,
			err:      errors.Wrap(err, "importing genotype"),
		}
	}
	close(in)

	<-closed
	if decodeErr != nil {
		return s, decodeErr
	}
	return s, writeErr
}

func buildPipeline(f *factory, workers int) (in chan<- *order, out <-chan *order) {
	if workers < 1 {
		workers = 1
	}

	sequencerQueue := make(chan *order, sequencerQueueSize)
	orderInQueue := make(chan *order, orderInQueueSize)
	outQueue := make(chan *order, outQueueSize)
	orderOutQueues := make([]<-chan *order, workers)

	go sequence(sequencerQueue, orderInQueue)
	for i := range orderOutQueues {
		q := make(chan *order, orderOutQueueSize)
		go run(f, orderInQueue, q)
		orderOutQueues[i] = q
	}
	go resolve(orderOutQueues, outQueue)

	return sequencerQueue, outQueue
}

type order struct {
	seq      int
	name     string
	genotype robotsyr.Genotype

	doc *phenotype.Document
	err error
}

func sequence(in <-chan *order, orderInQueue chan<- *order) {
	seq := 0
	for o := range in {
		o.seq = seq
		orderInQueue <- o
		seq++
	}
	close(orderInQueue)
}

func run(f *factory, orderInQueue <-chan *order, orderOutQueue chan<- *order) {
	for o := range orderInQueue {
		if o.err == nil {
			o.doc, o.err = f.build(o)
		}
		orderOutQueue <- o
	}
	close(orderOutQueue)
}

// resolve puts the workers' outputs back in sequence order.
//
// Each worker handles its orders in increasing sequence, so one buffered order
// per worker is enough: a worker whose slot is taken is left out of the select
// until its order has been sent. The real buffering is done by the channels.
func resolve(orderOutQueues []<-chan *order, outQueue chan<- *order) {
	seq := -1
	buffer := make([]*order, len(orderOutQueues))

	// The mask marks an order out queue as being closed, so that they are disregarded for
	// queue selection
	mask := make([]bool, len(orderOutQueues))

	// flush sends buffered orders for as long as one of them is next in sequence
	flush := func() {
		for sent := true; sent; {
			sent = false
			for i, buffered := range buffer {
				if buffered != nil && buffered.seq == seq+1 {
					outQueue <- buffered
					seq++
					buffer[i] = nil
					sent = true
				}
			}
		}
	}

	// Create one SelectCase per orderOutQueues
	selectCases := make([]reflect.SelectCase, len(orderOutQueues))
	for i, ooq := range orderOutQueues {
		selectCases[i] = reflect.SelectCase{
			Dir:  reflect.SelectRecv,
			Chan: reflect.ValueOf(ooq),
		}
	}

	subSelectCases := make([]reflect.SelectCase, 0, len(orderOutQueues))
	subSelectCaseToOrderQueueIndex := make([]int, 0, len(orderOutQueues))

	for {
		allMasked := true
		for _, masked := range mask {
			if !masked {
				allMasked = false
				break
			}
		}
		if allMasked {
			flush()
			close(outQueue)
			return
		}

		for i, sc := range selectCases {
			if buffer[i] == nil && !mask[i] {
				subSelectCases = append(subSelectCases, sc)
				subSelectCaseToOrderQueueIndex = append(subSelectCaseToOrderQueueIndex, i)
			}
		}

		// Closed queues have their buffer flushed when masked, so an empty
		// selection means sequence numbers were skipped.
		if len(subSelectCases) == 0 {
			panic("robotsyr: no queue to select on, sequence numbers are not contiguous")
		}

		chosen, recv, ok := reflect.Select(subSelectCases)
		index := subSelectCaseToOrderQueueIndex[chosen]
		subSelectCases = subSelectCases[:0]
		subSelectCaseToOrderQueueIndex = subSelectCaseToOrderQueueIndex[:0]

		if !ok {
			mask[index] = true
			flush()
			continue
		}

		o := recv.Interface().(*order)
		if o.seq == seq+1 {
			outQueue <- o
			seq++
			flush()
		} else {
			buffer[index] = o
		}
	}
}
