package srv

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/godist/goartm/core/artm"
)

// MergerInterface is the read side of the merger the processor
// depends on: the latest topic model snapshot per model name.  Safe
// for concurrent use with the merger's writer.
type MergerInterface interface {
	GetLatestTopicModel(name string) *artm.TopicModel
}

// Merger consumes model increments and publishes updated topic model
// snapshots.  Each ApplyIncrement clones the affected model, applies
// the token rows and atomically swaps in a new snapshot map, so
// readers never observe a half-merged model.
type Merger struct {
	queue  *Queue[*artm.ModelIncrement]
	models atomic.Pointer[map[string]*artm.TopicModel]

	writerMu sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewMerger(queue *Queue[*artm.ModelIncrement]) *Merger {
	m := &Merger{
		queue: queue,
		stop:  make(chan struct{}),
	}
	empty := make(map[string]*artm.TopicModel)
	m.models.Store(&empty)
	return m
}

// InitializeModel publishes an empty snapshot for name so processors
// can fetch it before the first merge.
func (m *Merger) InitializeModel(name string, topicName []string) {
	m.publish(name, artm.NewTopicModel(name, topicName))
}

func (m *Merger) GetLatestTopicModel(name string) *artm.TopicModel {
	return (*m.models.Load())[name]
}

func (m *Merger) publish(name string, model *artm.TopicModel) {
	old := *m.models.Load()
	next := make(map[string]*artm.TopicModel, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[name] = model
	m.models.Store(&next)
}

// ApplyIncrement merges one increment into the named model and
// publishes the new revision.
func (m *Merger) ApplyIncrement(inc *artm.ModelIncrement) {
	m.writerMu.Lock()
	defer m.writerMu.Unlock()

	model := m.GetLatestTopicModel(inc.ModelName)
	if model == nil {
		model = artm.NewTopicModel(inc.ModelName, inc.TopicName)
	} else {
		model = model.Clone()
	}

	for i := range inc.Token {
		token := artm.Token{ClassID: inc.ClassID[i], Keyword: inc.Token[i]}
		switch inc.OperationType[i] {
		case artm.CreateIfNotExist:
			if !model.HasToken(token) {
				model.AddToken(token, nil)
			}
		case artm.IncrementValue:
			if len(inc.TokenIncrement[i]) != inc.TopicsCount {
				glog.Errorf("Model %s token %s: increment length %d != topics count %d",
					inc.ModelName, token.Keyword, len(inc.TokenIncrement[i]), inc.TopicsCount)
				continue
			}
			model.IncrementToken(token, inc.TokenIncrement[i])
		}
	}

	m.publish(inc.ModelName, model)
}

// Start spawns the drain loop, which pulls increments from the merger
// queue until Stop.
func (m *Merger) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case <-m.stop:
				return
			default:
			}
			inc, ok := m.queue.TryPop()
			if !ok {
				select {
				case <-m.stop:
					return
				case <-time.After(idleLoopFrequency):
				}
				continue
			}
			m.ApplyIncrement(inc)
		}
	}()
}

// Stop signals the drain loop and waits for it.
func (m *Merger) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
}
