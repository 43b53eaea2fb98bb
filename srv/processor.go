package srv

import (
	"fmt"
	"math/rand"
	"path"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/godist/goartm/core/artm"
	"github.com/godist/goartm/core/linalg"
	"github.com/godist/goartm/core/utils"
)

// idleLoopFrequency is how long a worker sleeps when the processor
// queue is empty or the merger queue is full.
const idleLoopFrequency = 20 * time.Millisecond

const (
	popRetriesMax  = 20
	pushRetriesMax = 50
)

// Processor pulls ProcessorInputs from the processor queue, runs the
// EM or transaction inner loop for every enabled model and hands one
// ModelIncrement per (batch, enabled model) to the merger queue.  A
// single worker goroutine is spawned at construction; Stop signals it
// and joins.  Several processors may share both queues.
type Processor struct {
	processorQueue *Queue[*artm.ProcessorInput]
	mergerQueue    *Queue[*artm.ModelIncrement]
	merger         MergerInterface
	schema         *SchemaHolder

	blas linalg.Blas
	rng  *rand.Rand

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewProcessor(processorQueue *Queue[*artm.ProcessorInput],
	mergerQueue *Queue[*artm.ModelIncrement],
	merger MergerInterface, schema *SchemaHolder) *Processor {
	p := &Processor{
		processorQueue: processorQueue,
		mergerQueue:    mergerQueue,
		merger:         merger,
		schema:         schema,
		blas:           linalg.Probe(),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		stop:           make(chan struct{}),
	}
	if p.blas == nil {
		glog.Info("Accelerated BLAS is not detected, using built in implementation")
		p.blas = linalg.Builtin()
	}
	p.wg.Add(1)
	go p.threadFunction()
	return p
}

// Stop asks the worker to finish its current batch, push the deferred
// increments and exit, then waits for it.
func (p *Processor) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	p.wg.Wait()
}

func (p *Processor) stopping() bool {
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

// sleep waits one idle period; it returns early, reporting false,
// when the processor is stopping.
func (p *Processor) sleep() bool {
	select {
	case <-p.stop:
		return false
	case <-time.After(idleLoopFrequency):
		return true
	}
}

func (p *Processor) threadFunction() {
	defer p.wg.Done()

	glog.Info("Processor thread started")
	totalProcessedBatches := 0

	popRetries := 0
	for {
		if p.stopping() {
			glog.Info("Processor thread stopped")
			glog.Infof("Total number of processed batches: %d", totalProcessedBatches)
			return
		}

		part, ok := p.processorQueue.TryPop()
		if !ok {
			popRetries++
			if popRetries == popRetriesMax {
				glog.Info("No data in processing queue, waiting...")
			}
			p.sleep()
			continue
		}

		if popRetries >= popRetriesMax {
			glog.Info("Processing queue has data, processing started")
		}
		popRetries = 0

		start := time.Now()
		totalProcessedBatches++

		if err := p.processBatch(part); err != nil {
			glog.Errorf("Processor thread terminated: %v", err)
			return
		}
		glog.V(1).Infof("Batch %s processed in %v", part.BatchUUID, time.Since(start))
	}
}

func (p *Processor) processBatch(part *artm.ProcessorInput) error {
	batch := part.Batch
	if len(batch.ClassID) != len(batch.Token) {
		return fmt.Errorf("%w: batch class_id size (%d) != token size (%d)",
			artm.ErrInternal, len(batch.ClassID), len(batch.Token))
	}

	schema := p.schema.Get()

	// denseNdw does not depend on class weights only when no model
	// enumerates classes; it is still rebuilt per config otherwise.
	var denseNdw *linalg.Dense
	var denseNdwConfig *artm.ModelConfig

	for _, name := range schema.ModelNames() {
		config := schema.ModelConfig(name)
		if !config.Enabled {
			continue
		}

		if len(config.ClassID) != len(config.ClassWeight) {
			return fmt.Errorf("%w: model %s class_id size (%d) != class_weight size (%d)",
				artm.ErrInternal, name, len(config.ClassID), len(config.ClassWeight))
		}

		if !config.UseSparseBow &&
			(denseNdw == nil || len(denseNdwConfig.ClassID) > 0 || len(config.ClassID) > 0) {
			denseNdw = artm.BuildDenseNdw(batch, config)
			denseNdwConfig = config
		}

		if err := p.processModel(part, config, schema, denseNdw); err != nil {
			return err
		}
	}

	return nil
}

func (p *Processor) processModel(part *artm.ProcessorInput, config *artm.ModelConfig,
	schema *artm.InstanceSchema, denseNdw *linalg.Dense) error {
	batch := part.Batch

	topicModel := p.merger.GetLatestTopicModel(config.Name)
	if topicModel == nil {
		return fmt.Errorf("%w: no topic model snapshot for %s",
			artm.ErrInternal, config.Name)
	}

	topicSize := topicModel.TopicSize()
	if topicSize != config.TopicsCount {
		return fmt.Errorf("%w: model %s: topics count mismatch between config (%d) "+
			"and physical model representation (%d)",
			artm.ErrInternal, config.Name, config.TopicsCount, topicSize)
	}

	var sparseNdw *linalg.CSR
	if config.UseSparseBow {
		sparseNdw = artm.BuildSparseNdw(batch, config)
	}

	cache := part.FindCacheEntry(config.Name)
	theta := artm.InitTheta(batch, config, cache, p.rng)

	inc := artm.NewModelIncrement(part, config, topicModel)
	// The increment reaches the merger on every exit below, the
	// empty-Phi early return included.
	defer p.pushIncrement(inc, schema)

	phi := artm.InitPhi(batch, topicModel)
	if phi == nil {
		glog.Infof("Phi is empty, calculations for the model %s "+
			"would not be processed on this iteration", config.Name)
		return nil
	}

	var mask artm.Mask
	if i := part.StreamIndex(config.StreamName); i != -1 {
		mask = part.StreamMask[i]
	}

	if batch.HasTransactions() {
		artm.CalcNwtTransaction(config, batch, part.BatchWeight, topicModel,
			schema, theta, artm.NewIncrementWriter(inc))
	} else {
		var nwt *linalg.Dense
		if config.UseSparseBow {
			nwt = artm.CalcNwtSparse(config, batch, mask, schema, sparseNdw,
				phi, theta, p.blas)
		} else {
			nwt = artm.CalcNwtDense(config, batch, mask, schema, denseNdw,
				phi, theta, p.blas)
		}

		for tokenIndex := 0; tokenIndex < nwt.Rows(); tokenIndex++ {
			row := inc.TokenIncrement[tokenIndex]
			if len(row) == 0 {
				continue
			}
			if len(row) != topicSize {
				return fmt.Errorf("%w: model %s token %d: increment row length %d != topics count %d",
					artm.ErrInternal, config.Name, tokenIndex, len(row), topicSize)
			}
			if inc.OperationType[tokenIndex] == artm.IncrementValue {
				for k := 0; k < topicSize; k++ {
					row[k] = nwt.At(tokenIndex, k)
				}
			}
		}
	}

	if schema.Config.CacheTheta {
		p.exportThetaCache(part, config, inc, theta, schema)
	}

	artm.ComputeScores(part, config, schema, topicModel, theta, inc)
	return nil
}

// exportThetaCache attaches the refined theta to the increment,
// spilling it to disk when a disk cache path is configured.  An IO
// failure keeps the in-memory entry as-is.
func (p *Processor) exportThetaCache(part *artm.ProcessorInput, config *artm.ModelConfig,
	inc *artm.ModelIncrement, theta *linalg.Dense, schema *artm.InstanceSchema) {
	entry := artm.NewCacheEntry(part.BatchUUID, config.Name, inc.TopicName,
		part.Batch, theta)

	if schema.Config.DiskCachePath != "" {
		filename := path.Join(schema.Config.DiskCachePath, uuid.NewString()+".cache")
		if err := utils.SaveCacheEntry(entry, filename); err != nil {
			glog.Errorf("Unable to save cache entry to %s: %v",
				schema.Config.DiskCachePath, err)
		} else {
			entry.Filename = filename
			entry.Theta = nil
			entry.ItemID = nil
		}
	}

	inc.Cache = append(inc.Cache, entry)
}

// pushIncrement blocks, by polling, while the merger queue is at
// capacity, then pushes.  A stop signal ends the wait so the deferred
// increments still reach the merger on shutdown.
func (p *Processor) pushIncrement(inc *artm.ModelIncrement, schema *artm.InstanceSchema) {
	maxSize := schema.Config.MergerQueueMaxSize

	pushRetries := 0
	for maxSize > 0 && p.mergerQueue.Size() >= maxSize {
		pushRetries++
		if pushRetries == pushRetriesMax {
			glog.Warning("Merger queue is full, waiting...")
		}
		if !p.sleep() {
			break
		}
	}
	if pushRetries >= pushRetriesMax {
		glog.Warning("Merger queue is healthy again")
	}

	p.mergerQueue.Push(inc)
}

// FindThetaMatrixArgs parameterizes the one-shot theta query.
type FindThetaMatrixArgs struct {
	ModelName string
}

// FindThetaMatrix runs batch preparation and the EM inner loop for
// one batch against the latest snapshot of the named model, with no
// stream mask and no theta cache, and returns the refined theta.
func (p *Processor) FindThetaMatrix(batch *artm.Batch, args FindThetaMatrixArgs) (*artm.ThetaMatrix, error) {
	topicModel := p.merger.GetLatestTopicModel(args.ModelName)
	if topicModel == nil {
		return nil, fmt.Errorf("%w: unable to find topic model %s",
			artm.ErrArgumentOutOfRange, args.ModelName)
	}

	schema := p.schema.Get()
	config := schema.ModelConfig(args.ModelName)
	if config == nil {
		return nil, fmt.Errorf("%w: unable to find model config %s",
			artm.ErrArgumentOutOfRange, args.ModelName)
	}

	if len(config.ClassID) != len(config.ClassWeight) {
		return nil, fmt.Errorf("%w: model %s class_id size (%d) != class_weight size (%d)",
			artm.ErrInternal, args.ModelName, len(config.ClassID), len(config.ClassWeight))
	}

	topicSize := topicModel.TopicSize()
	if topicSize != config.TopicsCount {
		return nil, fmt.Errorf("%w: model %s: topics count mismatch between config (%d) "+
			"and physical model representation (%d)",
			artm.ErrInternal, args.ModelName, config.TopicsCount, topicSize)
	}

	theta := artm.InitTheta(batch, config, nil, p.rng)

	phi := artm.InitPhi(batch, topicModel)
	if phi == nil {
		glog.Infof("Phi is empty, calculations for the model %s "+
			"would not be processed on this iteration", args.ModelName)
		return nil, nil
	}

	if config.UseSparseBow {
		sparseNdw := artm.BuildSparseNdw(batch, config)
		artm.CalcNwtSparse(config, batch, nil, schema, sparseNdw, phi, theta, p.blas)
	} else {
		denseNdw := artm.BuildDenseNdw(batch, config)
		artm.CalcNwtDense(config, batch, nil, schema, denseNdw, phi, theta, p.blas)
	}

	entry := artm.NewCacheEntry("", args.ModelName, topicModel.TopicName(), batch, theta)
	return artm.NewThetaMatrix(entry), nil
}
