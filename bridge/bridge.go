package bridge

import (
	"sync"

	"github.com/mohitkumar/nodebridge/config"
	"github.com/mohitkumar/nodebridge/container"
	"github.com/mohitkumar/nodebridge/convert"
	"github.com/mohitkumar/nodebridge/extract"
	"github.com/mohitkumar/nodebridge/inject"
	"github.com/mohitkumar/nodebridge/logger"
	"github.com/mohitkumar/nodebridge/monitor"
	"github.com/mohitkumar/nodebridge/params"
	"github.com/mohitkumar/nodebridge/service"
)

// Bridge is the embedding surface for the host application. It wires the
// whole subsystem from one Config and owns the background goroutines.
type Bridge struct {
	Config config.Config

	container         *container.DIContainer
	store             *params.Store
	injector          *inject.Injector
	converter         *convert.Converter
	monitor           *monitor.ExecutionMonitor
	graphService      *service.GraphService
	submissionService *service.SubmissionService

	shutdown     bool
	shutdownLock sync.Mutex
	wg           sync.WaitGroup
}

func New(conf config.Config) (*Bridge, error) {
	b := &Bridge{
		Config: conf,
	}
	setup := []func() error{
		b.setupContainer,
		b.setupStore,
		b.setupMonitor,
		b.setupServices,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Bridge) setupContainer() error {
	b.container = container.NewDiContainer()
	b.container.Init(b.Config)
	return nil
}

func (b *Bridge) setupStore() error {
	registry := b.container.GetSchemaRegistry()
	classifier := extract.NewClassifier(registry, b.Config.ExtractConfig.HiddenTypes)
	static := extract.NewStaticExtractor(registry)
	dynamic := extract.NewDynamicExtractor(b.Config.ExtractConfig)
	b.store = params.NewStore(classifier, static, dynamic, b.container.GetOverrideStorage(), &b.wg)
	return nil
}

func (b *Bridge) setupMonitor() error {
	b.monitor = monitor.NewExecutionMonitor(b.Config.MonitorConfig, b.container.GetEngineClient(), &b.wg)
	return nil
}

func (b *Bridge) setupServices() error {
	b.injector = inject.NewInjector()
	b.converter = convert.NewConverter()
	convert.RegisterScriptRules(b.converter, b.Config.ConvertConfig.RuleScripts)
	b.graphService = service.NewGraphService(b.store)
	b.submissionService = service.NewSubmissionService(b.injector, b.converter, b.monitor, b.container.GetEngineClient())
	return nil
}

func (b *Bridge) Start() error {
	b.store.Start()
	b.monitor.Start()
	logger.Info("bridge started")
	return nil
}

func (b *Bridge) Shutdown() error {
	b.shutdownLock.Lock()
	defer b.shutdownLock.Unlock()
	if b.shutdown {
		return nil
	}
	b.shutdown = true
	b.monitor.Stop()
	b.store.Stop()
	b.wg.Wait()
	logger.Info("bridge stopped")
	return nil
}

func (b *Bridge) Graphs() *service.GraphService {
	return b.graphService
}

func (b *Bridge) Submissions() *service.SubmissionService {
	return b.submissionService
}

func (b *Bridge) Params() *params.Store {
	return b.store
}

func (b *Bridge) Injector() *inject.Injector {
	return b.injector
}

func (b *Bridge) Converter() *convert.Converter {
	return b.converter
}
