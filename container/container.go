package container

import (
	"github.com/mohitkumar/nodebridge/config"
	"github.com/mohitkumar/nodebridge/engine"
	"github.com/mohitkumar/nodebridge/persistence"
	"github.com/mohitkumar/nodebridge/persistence/local"
	rd "github.com/mohitkumar/nodebridge/persistence/redis"
	"github.com/mohitkumar/nodebridge/schema"
)

type DIContainer struct {
	initialized     bool
	overrideStorage persistence.OverrideStorage
	schemaRegistry  *schema.Registry
	engineClient    engine.Client
}

func NewDiContainer() *DIContainer {
	return &DIContainer{
		initialized: false,
	}
}

func (d *DIContainer) setInitialized() {
	d.initialized = true
}

func (d *DIContainer) Init(conf config.Config) {
	defer d.setInitialized()

	switch conf.StorageType {
	case config.STORAGE_TYPE_REDIS:
		rdConf := rd.Config{
			Addrs:     conf.RedisConfig.Addrs,
			Namespace: conf.RedisConfig.Namespace,
		}
		d.overrideStorage = rd.NewRedisOverrideStorage(rdConf)
	case config.STORAGE_TYPE_LOCAL:
		d.overrideStorage = local.NewLocalOverrideStorage(conf.LocalConfig)
	default:
		d.overrideStorage = persistence.NewInMemoryOverrideStorage()
	}
	d.schemaRegistry = schema.NewRegistry()
	d.engineClient = engine.NewHttpClient(conf.EngineConfig)
}

func (d *DIContainer) GetOverrideStorage() persistence.OverrideStorage {
	if !d.initialized {
		panic("container not initialized")
	}
	return d.overrideStorage
}

func (d *DIContainer) GetSchemaRegistry() *schema.Registry {
	if !d.initialized {
		panic("container not initialized")
	}
	return d.schemaRegistry
}

func (d *DIContainer) GetEngineClient() engine.Client {
	if !d.initialized {
		panic("container not initialized")
	}
	return d.engineClient
}
