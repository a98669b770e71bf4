package config

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader builds configurations from an optional config file and flags.
// Flags that were explicitly set override values from the file.
type Loader struct{}

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadBench produces a bench Config from a parsed flag set registered with
// RegisterBenchFlags.
func (Loader) LoadBench(fs *pflag.FlagSet) (*Config, error) {
	configPath, err := stringFlag(fs, "config")
	if err != nil {
		return nil, err
	}

	settings, err := readSettings(configPath)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	cfg.ConfigFile = configPath

	if err := applyConfigSettings(cfg, settings); err != nil {
		return nil, err
	}
	if err := applyFlagOverrides(cfg, fs); err != nil {
		return nil, err
	}

	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.BodyFile = strings.TrimSpace(cfg.BodyFile)
	cfg.Remainder = strings.ToLower(strings.TrimSpace(cfg.Remainder))
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}

	return cfg, nil
}

// LoadMatrix produces a MatrixConfig from a parsed flag set registered with
// RegisterMatrixFlags. Without --config the file at DefaultMatrixConfigFile
// is read.
func (Loader) LoadMatrix(fs *pflag.FlagSet) (*MatrixConfig, error) {
	configPath, err := stringFlag(fs, "config")
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		configPath = DefaultMatrixConfigFile
	}

	settings, err := readSettings(configPath)
	if err != nil {
		return nil, err
	}

	cfg := defaultMatrixConfig()
	cfg.ConfigFile = configPath

	if err := applyMatrixSettings(cfg, settings); err != nil {
		return nil, err
	}
	if err := applyMatrixFlagOverrides(cfg, fs); err != nil {
		return nil, err
	}

	cfg.Design = strings.ToLower(strings.TrimSpace(cfg.Design))
	for i := range cfg.RequestTypes {
		cfg.RequestTypes[i] = strings.ToUpper(strings.TrimSpace(cfg.RequestTypes[i]))
	}
	for i := range cfg.Endpoints {
		cfg.Endpoints[i] = strings.TrimSpace(cfg.Endpoints[i])
	}
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}

	return cfg, nil
}

func readSettings(path string) (map[string]interface{}, error) {
	if path == "" {
		return nil, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v.AllSettings(), nil
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "baseurl", "base_url", "base-url"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
		cfg.BaseURL = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "path"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("path: %w", err)
		}
		cfg.Path = val
	}

	if raw, ok := lookupSetting(settings, "method"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("method: %w", err)
		}
		if val != "" {
			cfg.Method = val
		}
	}

	if raw, ok := lookupSetting(settings, "headers"); ok {
		hdrs, err := asStringMap(raw)
		if err != nil {
			return fmt.Errorf("headers: %w", err)
		}
		mergeHeaders(&cfg.Headers, hdrs)
	}

	if raw, ok := lookupSetting(settings, "body"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("body: %w", err)
		}
		cfg.Body = val
	}

	if raw, ok := lookupSetting(settings, "bodyfile", "body_file", "body-file"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("body_file: %w", err)
		}
		cfg.BodyFile = val
	}

	if raw, ok := lookupSetting(settings, "total"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("total: %w", err)
		}
		cfg.Total = val
	}

	if raw, ok := lookupSetting(settings, "concurrency"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("concurrency: %w", err)
		}
		cfg.Concurrency = val
	}

	if raw, ok := lookupSetting(settings, "timeout"); ok {
		dur, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = dur
	}

	if raw, ok := lookupSetting(settings, "remainder"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("remainder: %w", err)
		}
		cfg.Remainder = val
	}

	if raw, ok := lookupSetting(settings, "format"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("format: %w", err)
		}
		cfg.Format = val
	}

	if raw, ok := lookupSetting(settings, "thresholds"); ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("thresholds: %w", err)
		}
		cfg.Thresholds = val
	}

	if raw, ok := lookupSetting(settings, "logerrors", "log_errors", "log-errors"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("log_errors: %w", err)
		}
		cfg.LogErrors = val
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		if err := parseTracing(&cfg.Tracing, raw); err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
	}

	return nil
}

func applyMatrixSettings(cfg *MatrixConfig, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "endpoints"); ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("endpoints: %w", err)
		}
		cfg.Endpoints = val
	}

	if raw, ok := lookupSetting(settings, "requesttypes", "request_types", "request-types"); ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("request_types: %w", err)
		}
		cfg.RequestTypes = val
	}

	if raw, ok := lookupSetting(settings, "payloadsizes", "payload_sizes", "payload-sizes"); ok {
		val, err := asIntSlice(raw)
		if err != nil {
			return fmt.Errorf("payload_sizes: %w", err)
		}
		cfg.PayloadSizes = val
	}

	if raw, ok := lookupSetting(settings, "concurrencylevels", "concurrency_levels", "concurrency-levels"); ok {
		val, err := asIntSlice(raw)
		if err != nil {
			return fmt.Errorf("concurrency_levels: %w", err)
		}
		cfg.ConcurrencyLevels = val
	}

	if raw, ok := lookupSetting(settings, "requestsperworker", "requests_per_worker", "requests-per-worker"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("requests_per_worker: %w", err)
		}
		cfg.RequestsPerWorker = val
	}

	if raw, ok := lookupSetting(settings, "headers"); ok {
		hdrs, err := asStringMap(raw)
		if err != nil {
			return fmt.Errorf("headers: %w", err)
		}
		mergeHeaders(&cfg.Headers, hdrs)
	}

	if raw, ok := lookupSetting(settings, "timeout"); ok {
		dur, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = dur
	}

	if raw, ok := lookupSetting(settings, "design"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("design: %w", err)
		}
		if val != "" {
			cfg.Design = val
		}
	}

	if raw, ok := lookupSetting(settings, "fraction"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return fmt.Errorf("fraction: %w", err)
		}
		cfg.Fraction = val
	}

	if raw, ok := lookupSetting(settings, "seed"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		cfg.Seed = int64(val)
	}

	if raw, ok := lookupSetting(settings, "outputdir", "output_dir", "output-dir"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("output_dir: %w", err)
		}
		if strings.TrimSpace(val) != "" {
			cfg.OutputDir = strings.TrimSpace(val)
		}
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		if err := parseTracing(&cfg.Tracing, raw); err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
	}

	return nil
}

func parseTracing(tc *TracingConfig, value interface{}) error {
	if value == nil {
		return nil
	}
	settings, err := toStringKeyMap(value)
	if err != nil {
		return err
	}
	if raw, ok := lookupSetting(settings, "endpoint"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
		tc.Endpoint = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(settings, "protocol"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("protocol: %w", err)
		}
		tc.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if raw, ok := lookupSetting(settings, "servicename", "service_name", "service-name"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("service_name: %w", err)
		}
		tc.ServiceName = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(settings, "samplerate", "sample_rate", "sample-rate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return fmt.Errorf("sample_rate: %w", err)
		}
		tc.SampleRate = val
	}
	if raw, ok := lookupSetting(settings, "insecure"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("insecure: %w", err)
		}
		tc.Insecure = val
	}
	if raw, ok := lookupSetting(settings, "propagate"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("propagate: %w", err)
		}
		tc.Propagate = &val
	}
	return nil
}

func mergeHeaders(dst *map[string]string, src map[string]string) {
	if *dst == nil {
		*dst = map[string]string{}
	}
	for k, v := range src {
		(*dst)[http.CanonicalHeaderKey(k)] = v
	}
}
