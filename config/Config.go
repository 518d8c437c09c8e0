package config

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_LOCAL StorageType = "local"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	StorageType   StorageType
	RedisConfig   RedisStorageConfig
	LocalConfig   LocalStorageConfig
	EngineConfig  EngineConfig
	MonitorConfig MonitorConfig
	ExtractConfig ExtractConfig
	ConvertConfig ConvertConfig
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}

type LocalStorageConfig struct {
	// Path of the override file written on each edit and read on startup.
	Path string
}

type EngineConfig struct {
	BaseUrl string
	// ClientId identifies this bridge instance to the engine. Generated
	// when empty.
	ClientId string
	// OutputsPath is the jsonpath expression locating result references
	// inside a status response. Engines differ in where they put outputs.
	OutputsPath         string
	MaxSubmitRetry      int
	RetryIntervalSecond int
}

type MonitorConfig struct {
	PollIntervalSeconds int
	// GracePeriodSeconds is how long a job may go without a terminal
	// status before the monitor switches it to fallback detection.
	GracePeriodSeconds int
	TimeoutSeconds     int
	FallbackDir        string
	// FallbackPattern is a filename glob matched against the fallback
	// directory listing, with {jobId} substituted per job.
	FallbackPattern string
}

type ExtractConfig struct {
	HiddenTypes []string
	// PersistChoicesAcrossLoads keeps enum-promotion observations alive
	// between graph loads. Off by default, a fresh load starts clean.
	PersistChoicesAcrossLoads bool
	// EnumPromotionMinCount is the number of distinct sibling values
	// required before a string parameter is promoted to an enum.
	EnumPromotionMinCount int
}

type ConvertConfig struct {
	// RuleScripts maps a node type to a javascript remap expression,
	// letting the host register conversions without a code change.
	RuleScripts map[string]ScriptRule
}

type ScriptRule struct {
	NewType    string
	Expression string
}
