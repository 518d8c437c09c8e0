package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load builds a Config from an optional config file plus defaults. The host
// application passes the path explicitly, nothing is read from ambient
// process state.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, err
			}
		}
	}
	var conf Config
	conf.StorageType = StorageType(v.GetString("storage-impl"))
	conf.RedisConfig.Addrs = strings.Split(v.GetString("redis-addr"), ",")
	conf.RedisConfig.Namespace = v.GetString("namespace")
	conf.LocalConfig.Path = v.GetString("override-file")
	conf.EngineConfig.BaseUrl = v.GetString("engine-url")
	conf.EngineConfig.ClientId = v.GetString("engine-client-id")
	conf.EngineConfig.OutputsPath = v.GetString("engine-outputs-path")
	conf.EngineConfig.MaxSubmitRetry = v.GetInt("engine-max-submit-retry")
	conf.EngineConfig.RetryIntervalSecond = v.GetInt("engine-retry-interval")
	conf.MonitorConfig.PollIntervalSeconds = v.GetInt("poll-interval")
	conf.MonitorConfig.GracePeriodSeconds = v.GetInt("grace-period")
	conf.MonitorConfig.TimeoutSeconds = v.GetInt("job-timeout")
	conf.MonitorConfig.FallbackDir = v.GetString("fallback-dir")
	conf.MonitorConfig.FallbackPattern = v.GetString("fallback-pattern")
	conf.ExtractConfig.HiddenTypes = v.GetStringSlice("hidden-types")
	conf.ExtractConfig.PersistChoicesAcrossLoads = v.GetBool("persist-choices")
	conf.ExtractConfig.EnumPromotionMinCount = v.GetInt("enum-promotion-min")
	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage-impl", string(STORAGE_TYPE_LOCAL))
	v.SetDefault("redis-addr", "localhost:6379")
	v.SetDefault("namespace", "nodebridge")
	v.SetDefault("override-file", "node_overrides.json")
	v.SetDefault("engine-url", "http://localhost:8188")
	v.SetDefault("engine-outputs-path", "$.outputs")
	v.SetDefault("engine-max-submit-retry", 3)
	v.SetDefault("engine-retry-interval", 2)
	v.SetDefault("poll-interval", 2)
	v.SetDefault("grace-period", 30)
	v.SetDefault("job-timeout", 600)
	v.SetDefault("fallback-pattern", "*{jobId}*")
	v.SetDefault("hidden-types", []string{"Reroute", "Note", "PreviewImage", "Comment"})
	v.SetDefault("persist-choices", false)
	v.SetDefault("enum-promotion-min", 2)
}
